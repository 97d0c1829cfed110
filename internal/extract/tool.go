package extract

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

// extractDOC writes the payload to a temp file and runs the configured
// conversion tool against it. The temp file is removed on every path,
// success or failure, and the tool is killed when the timeout elapses.
func (e *Extractor) extractDOC(ctx context.Context, data []byte) (string, error) {
	if e.DocToolPath == "" {
		return "", &Error{
			Kind:    KindToolFailure,
			Message: "no conversion tool configured for legacy .doc files",
		}
	}

	tmp, err := os.CreateTemp("", "upload-*.doc")
	if err != nil {
		return "", &Error{Kind: KindToolFailure, Message: "create temp file", Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", &Error{Kind: KindToolFailure, Message: "write temp file", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &Error{Kind: KindToolFailure, Message: "close temp file", Err: err}
	}

	timeout := e.DocToolTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, e.DocToolPath, tmpPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		xerr := &Error{
			Kind:    KindToolFailure,
			Command: strings.Join(cmd.Args, " "),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
		var exitErr *exec.ExitError
		switch {
		case cctx.Err() == context.DeadlineExceeded:
			xerr.Message = "conversion tool timed out"
			xerr.ExitCode = -1
		case errors.As(err, &exitErr):
			xerr.Message = "conversion tool exited with an error"
			xerr.ExitCode = exitErr.ExitCode()
		default:
			xerr.Message = "conversion tool could not be started"
			xerr.ExitCode = -1
		}
		return "", xerr
	}

	return stdout.String(), nil
}
