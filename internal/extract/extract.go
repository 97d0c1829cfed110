package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

const (
	mimePDF  = "application/pdf"
	mimeDOC  = "application/msword"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

// Extractor converts uploaded resume files into plain text. Legacy .doc
// files go through an external tool; everything else is handled in-process.
type Extractor struct {
	// DocToolPath is the binary used for legacy .doc conversion. Empty
	// means .doc uploads fail with a tool failure.
	DocToolPath string
	// DocToolTimeout bounds a single tool invocation.
	DocToolTimeout time.Duration
}

// FromUpload extracts text from an in-memory upload. Plain text is decoded
// as UTF-8 with a Latin-1 fallback; PDF uses github.com/ledongthuc/pdf;
// DOCX is unzipped and its document.xml stripped of markup.
//
// An unsupported format returns an *Error with KindUnsupportedFormat so
// callers can fall back to passing the raw bytes to the model.
func (e *Extractor) FromUpload(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	normalized := normalizeMimeType(mimeType, fileName, data)
	switch normalized {
	case mimeText:
		return decodeText(data)
	case mimePDF:
		return extractPDF(data)
	case mimeDOCX:
		return extractDOCX(data)
	case mimeDOC:
		return e.extractDOC(ctx, data)
	default:
		return "", &Error{
			Kind:    KindUnsupportedFormat,
			Message: fmt.Sprintf("no extraction path for mime type %q", normalized),
		}
	}
}

// decodeText decodes a plain-text payload as UTF-8, falling back to Latin-1.
// ASCII content round-trips byte-for-byte under both decodings.
func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", &Error{Kind: KindDecode, Message: "payload is neither UTF-8 nor Latin-1", Err: err}
	}
	return string(decoded), nil
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", &Error{Kind: KindDecode, Message: "parse pdf", Err: err}
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", &Error{Kind: KindDecode, Message: "read pdf text", Err: err}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", &Error{Kind: KindDecode, Message: "read pdf text", Err: err}
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &Error{Kind: KindDecode, Message: "empty docx data"}
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", &Error{Kind: KindDecode, Message: "open docx archive", Err: err}
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", &Error{Kind: KindDecode, Message: "document.xml not found in archive"}
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", &Error{Kind: KindDecode, Message: "open document.xml", Err: err}
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", &Error{Kind: KindDecode, Message: "read document.xml", Err: err}
	}

	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))

	ext := strings.ToLower(filepath.Ext(fileName))
	if clean == "" || clean == "application/octet-stream" {
		switch ext {
		case ".txt":
			return mimeText
		case ".pdf":
			return mimePDF
		case ".doc":
			return mimeDOC
		case ".docx":
			return mimeDOCX
		}
	}

	if clean != "application/zip" {
		return clean
	}

	if mapped := mapOOXMLFromZip(data); mapped != "" {
		return mapped
	}
	if ext == ".docx" {
		return mimeDOCX
	}
	return clean
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			return mimeDOCX
		}
	}
	return ""
}
