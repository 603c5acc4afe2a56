package checker

import (
	"context"
	"io"
	"net/http"

	"github.com/SayVega/linkchecker/result"
)

// drainLimit is how much of an error response body is read so the
// connection can be reused.
const drainLimit = 4 << 10

// Validate fetches link.URL once and classifies the outcome. The checks run
// in a fixed order and the first failing one decides the error kind:
// transport failure (timeout or network), non-2xx status, unreadable body,
// missing title. Validate never retries and never returns a Go error; every
// failure is reported in the LinkResult.
func Validate(ctx context.Context, client *http.Client, link result.Link) result.LinkResult {
	res := result.LinkResult{Link: link}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link.URL, nil)
	if err != nil {
		// Malformed URLs never reach the wire
		res.Err = &result.LinkError{Kind: result.KindNetwork, Err: err}
		return res
	}

	resp, err := client.Do(req)
	if err != nil {
		res.Err = &result.LinkError{Kind: result.ClassifyTransportError(err), Err: err}
		return res
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
		res.Err = result.NewStatusError(resp.StatusCode)
		return res
	}

	body, err := decodeBody(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		res.Err = &result.LinkError{Kind: result.KindInvalidHTML, Err: err}
		return res
	}

	title, err := ExtractTitle(body)
	if err != nil {
		res.Err = &result.LinkError{Kind: result.KindMissingTitle, Err: err}
		return res
	}

	res.Title = title
	return res
}
