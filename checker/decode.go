package checker

import (
	"bytes"
	"fmt"
	"io"
	"mime"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// maxBodyBytes caps how much of a response body is read when looking for the title.
const maxBodyBytes = 10 << 20

// decodeBody reads the response body and converts it to UTF-8 text.
// A charset declared in the Content-Type header is used when the decoder
// knows it; otherwise the encoding is sniffed from the body (BOM, meta tags),
// falling back to UTF-8 or windows-1252. Invalid byte sequences are replaced
// rather than rejected, so only a failed read is an error.
func decodeBody(body io.Reader, contentType string) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	enc, name := lookupEncoding(raw, contentType)
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), unicode.BOMOverride(enc.NewDecoder())))
	if err != nil {
		return "", fmt.Errorf("decode %s body: %w", name, err)
	}
	return string(decoded), nil
}

// lookupEncoding resolves the body encoding from the Content-Type header and
// the first bytes of the body. An unknown charset label is ignored.
func lookupEncoding(raw []byte, contentType string) (encoding.Encoding, string) {
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		if label, ok := params["charset"]; ok {
			if enc, name := charset.Lookup(label); enc != nil {
				return enc, name
			}
			contentType = ""
		}
	}

	enc, name, _ := charset.DetermineEncoding(raw, contentType)
	return enc, name
}
