package checker

import (
	"regexp"
	"strings"

	"github.com/SayVega/linkchecker/result"
)

// titlePattern matches the first title element. The tag name is
// case-insensitive, attributes are allowed, and the content may span lines.
var titlePattern = regexp.MustCompile(`(?is)<title(?:\s[^>]*)?>(.*?)</title\s*>`)

// ExtractTitle returns the content of the first <title> element in body with
// whitespace runs collapsed to single spaces and the ends trimmed. An empty
// title is valid. Returns result.ErrMissingTitle if there is no title element.
func ExtractTitle(body string) (string, error) {
	match := titlePattern.FindStringSubmatch(body)
	if match == nil {
		return "", result.ErrMissingTitle
	}
	return strings.Join(strings.Fields(match[1]), " "), nil
}
