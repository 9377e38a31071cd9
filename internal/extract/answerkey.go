package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/at-ishikawa/exambank/internal/exam"
)

const sourceMarker = "SOURCE:"

var answerPattern = regexp.MustCompile(`^(\d+)[.)]\s+([A-D])(?:\s+(.*))?$`)

// AnswerKeyEntry is the correct letter and explanation for one question number.
type AnswerKeyEntry struct {
	Number      int
	Letter      exam.Letter
	Explanation string
}

// AnswerKey maps question numbers to their entries.
type AnswerKey map[int]AnswerKeyEntry

// ExtractAnswerKey reads "<n>. <letter>" lines and the explanation prose that
// follows each of them. Lines after a "SOURCE:" citation are ignored until the
// next answer line.
func ExtractAnswerKey(text string) AnswerKey {
	key := make(AnswerKey)
	if text == "" {
		return key
	}

	var (
		current     *AnswerKeyEntry
		explanation []string
		inSource    bool
	)
	finalize := func() {
		if current == nil {
			return
		}
		current.Explanation = strings.Join(explanation, " ")
		key[current.Number] = *current
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if IsNoise(line) {
			continue
		}
		if strings.HasPrefix(line, sourceMarker) {
			inSource = true
			continue
		}

		if number, letter, rest, ok := parseAnswerLine(line); ok {
			finalize()
			current = &AnswerKeyEntry{Number: number, Letter: letter}
			explanation = explanation[:0]
			if rest != "" {
				explanation = append(explanation, rest)
			}
			inSource = false
			continue
		}

		if current != nil && !inSource {
			explanation = append(explanation, line)
		}
	}
	finalize()
	return key
}

func parseAnswerLine(line string) (int, exam.Letter, string, bool) {
	m := answerPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, "", "", false
	}
	number, err := strconv.Atoi(m[1])
	if err != nil || number < 1 {
		return 0, "", "", false
	}
	return number, exam.Letter(m[2]), strings.TrimSpace(m[3]), true
}

// Apply fills in the correct letter and explanation of every question found
// in the key. Questions missing from the key keep an empty letter; entries for
// numbers not in questions are ignored.
func (key AnswerKey) Apply(questions []exam.Question) {
	for i := range questions {
		entry, ok := key[questions[i].Number]
		if ok {
			questions[i].Correct = entry.Letter
		}
		if ok && entry.Explanation != "" {
			questions[i].Explanation = entry.Explanation
		} else {
			questions[i].Explanation = exam.NoExplanation
		}
	}
}
