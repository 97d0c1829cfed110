package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestFromUpload_PlainTextUTF8(t *testing.T) {
	e := &Extractor{}
	in := "Jane Doe\nSoftware Engineer\njane@example.com"
	got, err := e.FromUpload(context.Background(), []byte(in), "text/plain", "resume.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != in {
		t.Fatalf("ascii content did not round-trip: %q", got)
	}
}

func TestFromUpload_PlainTextLatin1Fallback(t *testing.T) {
	e := &Extractor{}
	// 0xE9 is é in Latin-1 but an invalid UTF-8 sequence on its own.
	in := []byte{'R', 0xE9, 's', 'u', 'm', 0xE9}
	got, err := e.FromUpload(context.Background(), in, "text/plain", "resume.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Résumé" {
		t.Fatalf("latin-1 fallback produced %q", got)
	}
}

func TestFromUpload_LatinAsciiRoundTrip(t *testing.T) {
	e := &Extractor{}
	in := "plain ascii, both encodings agree"
	got, err := e.FromUpload(context.Background(), []byte(in), "text/plain", "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != in {
		t.Fatalf("got %q want %q", got, in)
	}
}

func TestFromUpload_Docx(t *testing.T) {
	e := &Extractor{}
	doc := `<?xml version="1.0"?><w:document xmlns:w="ns"><w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>Engineer</w:t></w:r></w:p></w:body></w:document>`
	data := buildDocx(t, doc)

	got, err := e.FromUpload(context.Background(), data, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "resume.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "Jane Doe") || !strings.Contains(got, "Engineer") {
		t.Fatalf("docx text missing content: %q", got)
	}
}

func TestFromUpload_ZipMimeDocxNormalizes(t *testing.T) {
	e := &Extractor{}
	data := buildDocx(t, `<w:document><w:body><w:p><w:t>hi</w:t></w:p></w:body></w:document>`)

	if _, err := e.FromUpload(context.Background(), data, "application/zip", "resume.docx"); err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
}

func TestFromUpload_UnsupportedFormat(t *testing.T) {
	e := &Extractor{}
	_, err := e.FromUpload(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png", "headshot.png")
	if err == nil {
		t.Fatal("expected error for image upload")
	}
	if KindOf(err) != KindUnsupportedFormat {
		t.Fatalf("expected unsupported format kind, got %v (%v)", KindOf(err), err)
	}
}

func TestFromUpload_DocWithoutTool(t *testing.T) {
	e := &Extractor{}
	_, err := e.FromUpload(context.Background(), []byte("legacy"), "application/msword", "resume.doc")
	if err == nil {
		t.Fatal("expected error without a configured tool")
	}
	if KindOf(err) != KindToolFailure {
		t.Fatalf("expected tool failure kind, got %v", KindOf(err))
	}
}

func TestFromUpload_DocToolMissingBinary(t *testing.T) {
	e := &Extractor{DocToolPath: "/nonexistent/antiword", DocToolTimeout: time.Second}
	_, err := e.FromUpload(context.Background(), []byte("legacy"), "application/msword", "resume.doc")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	var xerr *Error
	if !errors.As(err, &xerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if xerr.Kind != KindToolFailure {
		t.Fatalf("expected tool failure, got %v", xerr.Kind)
	}
	if xerr.Command == "" {
		t.Fatal("expected command line in tool failure")
	}
}

func TestFromUpload_MimeFromExtension(t *testing.T) {
	e := &Extractor{}
	got, err := e.FromUpload(context.Background(), []byte("hello"), "application/octet-stream", "resume.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q", got)
	}
}
