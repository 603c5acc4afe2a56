package checker

// CheckEvent reports progress for a single validated link.
type CheckEvent struct {
	URL     string
	Text    string
	Code    string // Taxonomy code, or "OK"
	Checked int    // Links finished so far, including this one
	Broken  int    // Failed links so far
	Total   int    // Links in the run
}
