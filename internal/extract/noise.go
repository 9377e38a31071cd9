// Package extract rebuilds a question bank from the text of an exam document.
//
// The document is split into a question section and an answer key section.
// Questions are read with a line state machine and joined to the key by number.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	pageNumberPattern = regexp.MustCompile(`(?i)^Page\s+\d+`)
	testHeaderPattern = regexp.MustCompile(`^Test\s+\d+.*EXAM\s+\d+$`)

	noisePrefixes = []string{
		"Copyright",
		"Posted online",
		"Booklet",
	}
)

// IsNoise reports whether line is document boilerplate: a blank or very short
// line, a copyright or booklet footer, a page number, or a running test header.
// Headers carrying KEY mark the answer key and are kept.
func IsNoise(line string) bool {
	line = strings.TrimSpace(line)
	if utf8.RuneCountInString(line) < 3 {
		return true
	}
	for _, prefix := range noisePrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	if pageNumberPattern.MatchString(line) {
		return true
	}
	if testHeaderPattern.MatchString(line) && !strings.Contains(line, "KEY") {
		return true
	}
	return false
}
