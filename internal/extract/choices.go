package extract

import (
	"regexp"
	"strings"

	"github.com/at-ishikawa/exambank/internal/exam"
)

var (
	// choiceLabelPattern finds "A. " or "B) " at the start of a line or after whitespace.
	choiceLabelPattern = regexp.MustCompile(`(?:^|\s)([A-D])[.)]\s+`)
	choiceStartPattern = regexp.MustCompile(`^[A-D][.)]\s+`)
)

type choiceToken struct {
	letter exam.Letter
	text   string
}

// tokenizeChoices splits a line at its choice labels. Text before the first
// label is returned as prefix. A label only opens a new choice when its letter
// comes after the previous one on the same line, so "Vitamin A. deficiency"
// inside choice C stays part of C.
func tokenizeChoices(line string) (prefix string, tokens []choiceToken) {
	line = strings.TrimSpace(line)
	matches := choiceLabelPattern.FindAllStringSubmatchIndex(line, -1)

	type label struct {
		letter     exam.Letter
		start, end int
	}
	var labels []label
	for _, m := range matches {
		letter := exam.Letter(line[m[2]:m[3]])
		if len(labels) > 0 && letter <= labels[len(labels)-1].letter {
			continue
		}
		labels = append(labels, label{letter: letter, start: m[2], end: m[1]})
	}
	if len(labels) == 0 {
		return line, nil
	}

	prefix = strings.TrimSpace(line[:labels[0].start])
	for i, l := range labels {
		end := len(line)
		if i+1 < len(labels) {
			end = labels[i+1].start
		}
		text := strings.TrimSpace(line[l.end:end])
		text = strings.TrimSuffix(text, ".")
		tokens = append(tokens, choiceToken{letter: l.letter, text: strings.TrimSpace(text)})
	}
	return prefix, tokens
}

// ParseChoices extracts the labeled choices on one line. Two choices packed on
// one line ("A. decision. C. privacy.") are split at the second label, and a
// single trailing period is removed from each text. A line without labels
// yields an empty map; the caller treats it as a continuation.
func ParseChoices(line string) map[exam.Letter]string {
	_, tokens := tokenizeChoices(line)
	choices := make(map[exam.Letter]string, len(tokens))
	for _, t := range tokens {
		choices[t.letter] = t.text
	}
	return choices
}

// isChoiceStart reports whether a trimmed line begins with a choice label.
func isChoiceStart(line string) bool {
	return choiceStartPattern.MatchString(line)
}
