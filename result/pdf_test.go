package result

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	links := append(sampleResults(), LinkResult{
		Link:  Link{Text: "café", URL: "https://example.com/café"},
		Title: "Crème brûlée",
	})
	if err := WritePDF(&buf, links); err != nil {
		t.Fatalf("WritePDF returned error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", buf.Bytes()[:min(buf.Len(), 16)])
	}
}

func TestWritePDF_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, nil); err != nil {
		t.Fatalf("WritePDF returned error: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected a PDF document even with no results")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWritePDF_WriteError(t *testing.T) {
	if err := WritePDF(failingWriter{}, sampleResults()); err == nil {
		t.Error("expected error from failing writer")
	}
}

func TestWriteReport_PDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := WriteReport(path, FormatPDF, sampleResults()); err != nil {
		t.Fatalf("WriteReport returned error: %v", err)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.HasPrefix(contents, []byte("%PDF-")) {
		t.Error("report file is not a PDF")
	}
}
