// Package result defines the link, link result, and error taxonomy types shared
// by the checker, the report writers, and the TUI.
package result

import "time"

// Link is a text/URL pair extracted from the input document.
type Link struct {
	Text string `json:"text"` // Label between the square brackets
	URL  string `json:"url"`  // Target between the parentheses
}

// LinkResult represents the outcome of validating a single link.
// A nil Err means the page was fetched and its title extracted.
type LinkResult struct {
	Link  Link       `json:"link"`
	Title string     `json:"title,omitempty"` // Extracted page title (success only, may be empty)
	Err   *LinkError `json:"error,omitempty"` // Failure classification (nil on success)
}

// OK reports whether the validation succeeded.
func (r LinkResult) OK() bool {
	return r.Err == nil
}

// Code returns the taxonomy code of the failure, or "OK" on success.
func (r LinkResult) Code() string {
	if r.Err == nil {
		return "OK"
	}
	return r.Err.Code()
}

// CheckStats contains aggregate statistics for a check run.
type CheckStats struct {
	TotalChecked   int           // Total number of links checked
	BrokenCount    int           // Number of links that failed validation
	DuplicateCount int           // Links whose URL appeared earlier in the input
	Duration       time.Duration // Total time taken for the run
}

// Result represents the complete output of a check run. Links are in
// completion order, not input order.
type Result struct {
	Links []LinkResult
	Stats CheckStats
}

// Broken returns the failed results in the order they were collected.
func (r *Result) Broken() []LinkResult {
	var broken []LinkResult
	for _, link := range r.Links {
		if !link.OK() {
			broken = append(broken, link)
		}
	}
	return broken
}
