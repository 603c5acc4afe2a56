package checker_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SayVega/linkchecker/checker"
	"github.com/SayVega/linkchecker/result"
)

// newPageServer serves a small set of pages exercising each outcome.
func newPageServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><head><title>Hello</title></head></html>")
	})
	mux.HandleFunc("/empty-title", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><head><title></title></head></html>")
	})
	mux.HandleFunc("/no-title", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><head></head><body>No title here</body></html>")
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	mux.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<title>Error page</title>", http.StatusInternalServerError)
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})
	mux.HandleFunc("/unknown-charset", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=x-user-defined-foo")
		_, _ = fmt.Fprint(w, "<title>Plain ASCII Title</title>")
	})
	mux.HandleFunc("/truncated", func(w http.ResponseWriter, r *http.Request) {
		hijacker, ok := w.(http.Hijacker)
		if !ok {
			http.Error(w, "hijacking not supported", http.StatusInternalServerError)
			return
		}
		conn, buf, err := hijacker.Hijack()
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		// Promise more body than is sent, then hang up
		_, _ = buf.WriteString("HTTP/1.1 200 OK\r\nContent-Type: text/html\r\nContent-Length: 1000\r\n\r\n<title>cut")
		_ = buf.Flush()
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
			_, _ = fmt.Fprint(w, "<title>Slow</title>")
		case <-r.Context().Done():
		}
	})
	mux.HandleFunc("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok", http.StatusFound)
	})
	mux.HandleFunc("/user-agent", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, "<title>%s</title>", r.UserAgent())
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// closedAddr returns a local address that refuses connections.
func closedAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	if err := listener.Close(); err != nil {
		t.Fatalf("close listener: %v", err)
	}
	return addr
}

func testClient(timeout time.Duration) *http.Client {
	cfg := checker.DefaultConfig()
	cfg.RequestTimeout = timeout
	return checker.NewClient(cfg)
}

func TestValidate(t *testing.T) {
	server := newPageServer(t)

	tests := []struct {
		name       string
		url        string
		wantTitle  string
		wantKind   result.ErrorKind // zero means success
		wantStatus int
	}{
		{name: "success", url: server.URL + "/ok", wantTitle: "Hello"},
		{name: "empty title is valid", url: server.URL + "/empty-title", wantTitle: ""},
		{name: "followed redirect", url: server.URL + "/redirect", wantTitle: "Hello"},
		{name: "missing title", url: server.URL + "/no-title", wantKind: result.KindMissingTitle},
		{name: "not found", url: server.URL + "/missing", wantKind: result.KindInvalidStatus, wantStatus: 404},
		{name: "server error body is ignored", url: server.URL + "/boom", wantKind: result.KindInvalidStatus, wantStatus: 500},
		{name: "gone", url: server.URL + "/gone", wantKind: result.KindInvalidStatus, wantStatus: 410},
		{name: "unknown charset falls back", url: server.URL + "/unknown-charset", wantTitle: "Plain ASCII Title"},
		{name: "truncated body", url: server.URL + "/truncated", wantKind: result.KindInvalidHTML},
		{name: "connection refused", url: "http://" + closedAddr(t), wantKind: result.KindNetwork},
		{name: "unsupported scheme", url: "ftp://example.com/file", wantKind: result.KindNetwork},
		{name: "malformed url", url: "http://[::1", wantKind: result.KindNetwork},
	}

	client := testClient(5 * time.Second)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := result.Link{Text: tt.name, URL: tt.url}
			res := checker.Validate(context.Background(), client, link)

			if res.Link != link {
				t.Errorf("result link = %+v, want %+v", res.Link, link)
			}
			if tt.wantKind == 0 {
				if !res.OK() {
					t.Fatalf("expected success, got %v", res.Err)
				}
				if res.Title != tt.wantTitle {
					t.Errorf("title = %q, want %q", res.Title, tt.wantTitle)
				}
				return
			}
			if res.OK() {
				t.Fatalf("expected %v error, got success with title %q", tt.wantKind, res.Title)
			}
			if res.Err.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v (err: %v)", res.Err.Kind, tt.wantKind, res.Err)
			}
			if res.Err.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", res.Err.StatusCode, tt.wantStatus)
			}
			if res.Title != "" {
				t.Errorf("failed result should have no title, got %q", res.Title)
			}
		})
	}
}

func TestValidateTimeout(t *testing.T) {
	server := newPageServer(t)
	client := testClient(100 * time.Millisecond)

	start := time.Now()
	res := checker.Validate(context.Background(), client, result.Link{Text: "slow", URL: server.URL + "/slow"})
	elapsed := time.Since(start)

	if res.OK() || res.Err.Kind != result.KindTimeout {
		t.Fatalf("expected timeout, got %+v", res)
	}
	if res.Err.Code() != "TIMEOUT" {
		t.Errorf("code = %q, want TIMEOUT", res.Err.Code())
	}
	if elapsed > time.Second {
		t.Errorf("timeout took %v, expected about 100ms", elapsed)
	}
}

func TestValidateSendsUserAgent(t *testing.T) {
	server := newPageServer(t)
	client := testClient(5 * time.Second)

	res := checker.Validate(context.Background(), client, result.Link{Text: "ua", URL: server.URL + "/user-agent"})
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	if res.Title != checker.DefaultUserAgent {
		t.Errorf("server saw user agent %q, want %q", res.Title, checker.DefaultUserAgent)
	}
}

func TestValidateSingleRequest(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	res := checker.Validate(context.Background(), testClient(5*time.Second), result.Link{Text: "x", URL: server.URL})
	if res.OK() || res.Err.Code() != "SERVER_ERROR" {
		t.Fatalf("expected SERVER_ERROR, got %+v", res)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("expected exactly 1 request (no retry), got %d", got)
	}
}
