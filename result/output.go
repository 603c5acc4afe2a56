package result

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Format selects the report encoding.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatPDF      Format = "pdf"
)

// ParseFormat validates a format name. "md" is accepted as an alias for markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want markdown, json, csv, or pdf)", name)
	}
}

// WriteReport creates the file at path and writes the results in the given format.
func WriteReport(path string, format Format, links []LinkResult) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close report file: %w", closeErr))
		}
	}()

	switch format {
	case FormatJSON:
		return WriteJSON(file, links)
	case FormatCSV:
		return WriteCSV(file, links)
	case FormatPDF:
		return WritePDF(file, links)
	default:
		return WriteMarkdown(file, links)
	}
}

// WriteMarkdown writes one Markdown link per result: the page title on
// success, or the error code and the original link text on failure.
func WriteMarkdown(w io.Writer, links []LinkResult) error {
	bw := bufio.NewWriter(w)
	for _, link := range links {
		var line string
		if link.OK() {
			line = fmt.Sprintf("[%s](%s)\n", link.Title, link.Link.URL)
		} else {
			line = fmt.Sprintf("[%s from %s](%s)\n", link.Err.Code(), link.Link.Text, link.Link.URL)
		}
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("write markdown line for %s: %w", link.Link.URL, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush markdown output: %w", err)
	}
	return nil
}

// WriteJSON writes the results as a formatted JSON array to the writer.
func WriteJSON(w io.Writer, links []LinkResult) error {
	if links == nil {
		links = []LinkResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(links); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// WriteCSV writes the results as CSV to the writer.
// Always includes a header row, even if there are no results.
// Column order: text, url, title, code, status_code
func WriteCSV(w io.Writer, links []LinkResult) error {
	cw := csv.NewWriter(w)

	header := []string{"text", "url", "title", "code", "status_code"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, link := range links {
		status := 0
		if link.Err != nil {
			status = link.Err.StatusCode
		}
		record := []string{
			link.Link.Text,
			link.Link.URL,
			link.Title,
			link.Code(),
			statusCodeStr(status),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record for %s: %w", link.Link.URL, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

// statusCodeStr converts an HTTP status code to a string.
// Returns empty string for 0 (no HTTP status).
func statusCodeStr(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}
