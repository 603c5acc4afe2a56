// Package parser extracts inline Markdown links from line-oriented text.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"unicode/utf8"

	"github.com/SayVega/linkchecker/result"
)

// linkPattern matches inline Markdown links: [text](target). Neither part may
// be empty, and a match never spans lines because input is scanned per line.
var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// ParseFile opens the file at path and returns the links it contains.
func ParseFile(path string) ([]result.Link, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer func() { _ = file.Close() }()

	links, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return links, nil
}

// ErrInvalidUTF8 is returned when the input is not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("input is not valid UTF-8")

// Parse returns every link found in r, in input order. Malformed links are
// skipped silently; a line that is not valid UTF-8 stops parsing with
// ErrInvalidUTF8.
func Parse(r io.Reader) ([]result.Link, error) {
	reader := bufio.NewReader(r)
	var links []result.Link

	for lineNo := 1; ; lineNo++ {
		line, err := reader.ReadString('\n')
		if !utf8.ValidString(line) {
			return links, fmt.Errorf("line %d: %w", lineNo, ErrInvalidUTF8)
		}
		for _, match := range linkPattern.FindAllStringSubmatch(line, -1) {
			links = append(links, result.Link{Text: match[1], URL: match[2]})
		}
		if err == io.EOF {
			return links, nil
		}
		if err != nil {
			return links, fmt.Errorf("read line: %w", err)
		}
	}
}
