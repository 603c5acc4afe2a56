package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/SayVega/linkchecker/result"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	successStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle         = lipgloss.NewStyle().Faint(true)
	cellStyle        = lipgloss.NewStyle()
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// codeOrder defines the display order for error codes (most to least actionable).
var codeOrder = []string{
	"NOT_FOUND",
	"SERVER_ERROR",
	"HTTP_ERROR",
	"TIMEOUT",
	"NETWORK_ERROR",
	"INVALID_HTML",
	"MISSING_TITLE",
	"UNKNOWN",
}

// RenderSummary produces a Lip Gloss styled summary of check results.
func RenderSummary(res *result.Result) string {
	if res == nil {
		return errorStyle.Render("No results available.")
	}

	var builder strings.Builder
	broken := res.Broken()

	if len(broken) == 0 {
		builder.WriteString(successStyle.Render("All links are valid!"))
		builder.WriteString("\n")
		builder.WriteString(dimStyle.Render(fmt.Sprintf(
			"Checked %d links in %s%s",
			res.Stats.TotalChecked,
			res.Stats.Duration.Round(time.Millisecond),
			duplicateNote(res.Stats.DuplicateCount),
		)))
		builder.WriteString("\n")
		return builder.String()
	}

	grouped := make(map[string][]result.LinkResult)
	for _, link := range broken {
		grouped[link.Code()] = append(grouped[link.Code()], link)
	}

	for _, code := range codeOrder {
		links := grouped[code]
		if len(links) == 0 {
			continue
		}

		builder.WriteString(categoryStyle.Render(fmt.Sprintf("## %s (%d)", result.FormatKind(code), len(links))))
		builder.WriteString("\n")

		rows := make([][]string, 0, len(links))
		for _, link := range links {
			rows = append(rows, []string{link.Link.Text, link.Link.URL, link.Err.Error()})
		}

		codeTable := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("Link text", "URL", "Detail").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == 2 {
					return statusErrorStyle
				}
				return cellStyle
			}).
			Rows(rows...)

		builder.WriteString(codeTable.Render())
		builder.WriteString("\n\n")
	}

	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"Found %d broken links out of %d links checked (%s)%s",
		res.Stats.BrokenCount,
		res.Stats.TotalChecked,
		res.Stats.Duration.Round(time.Millisecond),
		duplicateNote(res.Stats.DuplicateCount),
	)))
	builder.WriteString("\n")

	return builder.String()
}

func duplicateNote(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf(", %d duplicate URLs", n)
}
