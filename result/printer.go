package result

import (
	"fmt"
	"io"
)

// PrintResults writes failed link details and a summary to w.
func PrintResults(w io.Writer, res *Result) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	broken := res.Broken()
	if len(broken) == 0 {
		writef("All links are valid!\n")
	} else {
		writef("Broken Links:\n")
		for i, link := range broken {
			writef("  URL: %s\n", link.Link.URL)
			writef("  Text: %s\n", link.Link.Text)
			writef("  Error: %s\n", link.Err.Error())
			if i < len(broken)-1 {
				writef("\n")
			}
		}
	}
	writef("Checked %d links, found %d broken links", res.Stats.TotalChecked, res.Stats.BrokenCount)
	if res.Stats.DuplicateCount > 0 {
		writef(" (%d duplicate URLs)", res.Stats.DuplicateCount)
	}
	writef("\n")
}
