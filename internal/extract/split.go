package extract

import (
	"regexp"
	"strings"
)

// SplitOptions tunes the answer key search.
type SplitOptions struct {
	// MinOffset is how much text must precede the answer key.
	MinOffset int
	// DensityWindow and DensityStep size the sliding window of the density strategy.
	DensityWindow int
	DensityStep   int
	// DensityThreshold is the number of answer lines a window must exceed.
	DensityThreshold int
}

func DefaultSplitOptions() SplitOptions {
	return SplitOptions{
		MinOffset:        5000,
		DensityWindow:    2000,
		DensityStep:      1000,
		DensityThreshold: 15,
	}
}

// Split is the result of separating questions from the answer key.
// Strategy is empty when no answer key was found.
type Split struct {
	Questions string
	Answers   string
	Offset    int
	Strategy  string
}

// Found reports whether an answer key section was located.
func (s Split) Found() bool {
	return s.Strategy != ""
}

// SplitStrategy finds the offset where the answer key begins.
type SplitStrategy struct {
	Name string
	Find func(text string, opts SplitOptions) (int, bool)
}

var (
	keyHeaderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)EXAM[—–\-\s]*KEY\s+\d+`),
		regexp.MustCompile(`(?i)ANSWER\s+KEY`),
		regexp.MustCompile(`\bKEY\b.*\d+`),
	}
	answerRunPattern  = regexp.MustCompile(`\n\s*(1)\.\s+[A-D]\s*\n\s*2\.\s+[A-D]\s*\n\s*3\.\s+[A-D]`)
	answerLinePattern = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+[A-D][ \t]*$`)
)

// DefaultSplitStrategies are tried in order, from the most to the least specific.
var DefaultSplitStrategies = []SplitStrategy{
	{Name: "key-header", Find: findKeyHeader},
	{Name: "answer-run", Find: findAnswerRun},
	{Name: "answer-density", Find: findAnswerDensity},
}

// SplitSections separates the question section from the answer key section
// using the default options and strategies. When nothing matches, all of text
// is questions and the answer key is empty.
func SplitSections(text string) Split {
	return splitSections(text, DefaultSplitOptions(), DefaultSplitStrategies)
}

func splitSections(text string, opts SplitOptions, strategies []SplitStrategy) Split {
	for _, strategy := range strategies {
		offset, ok := strategy.Find(text, opts)
		if !ok {
			continue
		}
		return Split{
			Questions: text[:offset],
			Answers:   text[offset:],
			Offset:    offset,
			Strategy:  strategy.Name,
		}
	}
	return Split{Questions: text, Offset: len(text)}
}

// findKeyHeader looks for "EXAM—KEY 11", "ANSWER KEY" or a bare KEY followed by a page number.
func findKeyHeader(text string, opts SplitOptions) (int, bool) {
	for _, pattern := range keyHeaderPatterns {
		for _, m := range pattern.FindAllStringIndex(text, -1) {
			if m[0] > opts.MinOffset {
				return m[0], true
			}
		}
	}
	return 0, false
}

// findAnswerRun looks for the lines "1. A", "2. B", "3. C" in a row and splits
// at the start of the first one.
func findAnswerRun(text string, opts SplitOptions) (int, bool) {
	for _, m := range answerRunPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] <= opts.MinOffset {
			continue
		}
		return strings.LastIndex(text[:m[2]], "\n") + 1, true
	}
	return 0, false
}

// findAnswerDensity slides a window over text and splits at the first window
// holding more answer-only lines than the threshold.
func findAnswerDensity(text string, opts SplitOptions) (int, bool) {
	if opts.DensityStep <= 0 || opts.DensityWindow <= 0 {
		return 0, false
	}
	for i := opts.MinOffset; i < len(text)-opts.DensityWindow; i += opts.DensityStep {
		if countAnswerLines(text[i:i+opts.DensityWindow]) > opts.DensityThreshold {
			// Move to the next line start so no line is cut in half.
			if nl := strings.IndexByte(text[i:], '\n'); nl >= 0 {
				return i + nl + 1, true
			}
			return i, true
		}
	}
	return 0, false
}

// countAnswerLines counts "<n>. <letter>" lines that are fully inside chunk,
// with a newline on both sides.
func countAnswerLines(chunk string) int {
	count := 0
	for _, m := range answerLinePattern.FindAllStringIndex(chunk, -1) {
		if m[0] == 0 || chunk[m[0]-1] != '\n' {
			continue
		}
		if m[1] >= len(chunk) || chunk[m[1]] != '\n' {
			continue
		}
		count++
	}
	return count
}
