// Package checker validates links concurrently. Each link is fetched once and
// its outcome classified into the result taxonomy; a fixed-size worker pool
// bounds the number of requests in flight and results are collected in
// completion order.
package checker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/SayVega/linkchecker/result"
	"github.com/SayVega/linkchecker/urlutil"
)

// Checker dispatches link validations over a bounded worker pool.
type Checker struct {
	cfg        Config
	client     *http.Client
	log        logrus.FieldLogger
	progressCh chan<- CheckEvent
}

// New creates a Checker with the given configuration and a client built by
// NewClient. The progressCh parameter is optional; pass nil to disable
// progress events.
func New(cfg Config, progressCh chan<- CheckEvent) *Checker {
	cfg = cfg.withDefaults()
	return &Checker{
		cfg:        cfg,
		client:     NewClient(cfg),
		log:        cfg.Logger,
		progressCh: progressCh,
	}
}

// Run validates every link and returns one result per link, in the order the
// validations finished. At most cfg.Concurrency requests are in flight; a
// worker picks up the next link as soon as it finishes one. Per-link failures
// are part of the result, never an error. If ctx is cancelled, outstanding
// requests fail fast and Run returns the context error without a result.
func (c *Checker) Run(ctx context.Context, links []result.Link) (*result.Result, error) {
	start := time.Now()

	duplicates := c.countDuplicates(links)

	jobs := make(chan result.Link)
	results := make(chan result.LinkResult, c.cfg.Concurrency)

	errGroup, groupCtx := errgroup.WithContext(ctx)

	workers := min(c.cfg.Concurrency, len(links))
	for range workers {
		errGroup.Go(func() error {
			for link := range jobs {
				c.cfg.Metrics.started()
				begin := time.Now()
				res := Validate(groupCtx, c.client, link)
				c.cfg.Metrics.finished(res.Code(), time.Since(begin))
				results <- res
			}
			return nil
		})
	}

	// Every link is enqueued even after cancellation so each one still
	// yields a result.
	go func() {
		defer close(jobs)
		for _, link := range links {
			jobs <- link
		}
	}()

	go func() {
		_ = errGroup.Wait()
		close(results)
	}()

	collected := make([]result.LinkResult, 0, len(links))
	broken := 0
	for res := range results {
		collected = append(collected, res)
		if !res.OK() {
			broken++
		}
		c.logResult(res)
		c.emit(ctx, CheckEvent{
			URL:     res.Link.URL,
			Text:    res.Link.Text,
			Code:    res.Code(),
			Checked: len(collected),
			Broken:  broken,
			Total:   len(links),
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("check interrupted: %w", err)
	}

	stats := result.CheckStats{
		TotalChecked:   len(collected),
		BrokenCount:    broken,
		DuplicateCount: duplicates,
		Duration:       time.Since(start),
	}
	c.log.WithFields(logrus.Fields{
		"checked":    stats.TotalChecked,
		"broken":     stats.BrokenCount,
		"duplicates": stats.DuplicateCount,
		"duration":   stats.Duration.Round(time.Millisecond),
	}).Info("link check finished")

	return &result.Result{Links: collected, Stats: stats}, nil
}

// exactDuplicateLimit is the largest input counted with an exact set. Larger
// inputs use a SeenTracker, whose count may include bloom false positives.
var exactDuplicateLimit = 100_000

// urlSet records URLs and reports whether each one is new.
type urlSet interface {
	VisitIfNew(url string) bool
	Close() error
}

// countDuplicates reports how many links point at a URL that appeared earlier
// in the input. Duplicates are still validated individually.
func (c *Checker) countDuplicates(links []result.Link) int {
	seen := c.newURLSet(len(links))
	defer func() {
		if err := seen.Close(); err != nil {
			c.log.WithError(err).Warn("release seen tracker")
		}
	}()

	count := 0
	for _, link := range links {
		if !urlutil.IsHTTPScheme(link.URL) {
			c.log.WithField("url", link.URL).Warn("link does not use http or https")
		}
		key, err := urlutil.Normalize(link.URL)
		if err != nil {
			key = link.URL
		}
		if !seen.VisitIfNew(key) {
			count++
			c.log.WithField("url", link.URL).Debug("duplicate link")
		}
	}
	return count
}

func (c *Checker) newURLSet(expected int) urlSet {
	if expected <= exactDuplicateLimit {
		return make(exactSet, expected)
	}
	tracker, err := NewSeenTracker(expected)
	if err != nil {
		c.log.WithError(err).Warn("seen tracker unavailable, keeping it in memory")
		return newMemorySeenTracker(expected)
	}
	return tracker
}

func (c *Checker) logResult(res result.LinkResult) {
	entry := c.log.WithFields(logrus.Fields{
		"url":  res.Link.URL,
		"text": res.Link.Text,
		"code": res.Code(),
	})
	if res.OK() {
		entry.WithField("title", res.Title).Debug("link ok")
		return
	}
	entry.WithError(res.Err).Debug("link failed")
}

// emit sends a progress event unless nobody is listening any more.
func (c *Checker) emit(ctx context.Context, evt CheckEvent) {
	if c.progressCh == nil {
		return
	}
	select {
	case c.progressCh <- evt:
	case <-ctx.Done():
	}
}
