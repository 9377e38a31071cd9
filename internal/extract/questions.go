package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/at-ishikawa/exambank/internal/exam"
)

var (
	questionPattern      = regexp.MustCompile(`^(\d+)[.)]\s+(.+)`)
	questionStartPattern = regexp.MustCompile(`^\d+[.)]\s+`)
)

// RejectReason tells why a question was left out of the bank.
type RejectReason string

const (
	// RejectMissingChoices means fewer than the four choices A to D were found.
	RejectMissingChoices RejectReason = "missing_choices"
	// RejectDuplicateNumber means an earlier question already used the number.
	RejectDuplicateNumber RejectReason = "duplicate_number"
)

// Rejection records a question that was parsed but not committed.
type Rejection struct {
	Number int
	Reason RejectReason
	Text   string
	Found  []exam.Letter
	// Line is the zero based line index where the question started.
	Line int
}

// QuestionResult holds the questions committed to the bank and those left out.
type QuestionResult struct {
	Questions  []exam.Question
	Rejections []Rejection
}

// ExtractQuestions reads the question section line by line. A question opens
// at "<n>. " or "<n>) ", collects prompt lines until its first choice, then
// collects choices until all four letters are seen or the next question opens.
// Only questions with all four choices are committed; the rest are rejected.
func ExtractQuestions(text string) QuestionResult {
	lines := strings.Split(text, "\n")
	result := QuestionResult{
		Questions: make([]exam.Question, 0),
	}
	seen := make(map[int]struct{})

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if IsNoise(line) {
			i++
			continue
		}

		number, prompt, ok := parseQuestionLine(line)
		if !ok {
			i++
			continue
		}

		start := i
		j := i + 1
		j, prompt = readPrompt(lines, j, prompt)
		j, choices, order := readChoices(lines, j)
		i = j

		q := exam.Question{
			Number:  number,
			Text:    strings.TrimSpace(prompt),
			Choices: choices,
		}
		if !q.Complete() {
			result.Rejections = append(result.Rejections, Rejection{
				Number: number,
				Reason: RejectMissingChoices,
				Text:   q.Text,
				Found:  order,
				Line:   start,
			})
			continue
		}
		if _, dup := seen[number]; dup {
			result.Rejections = append(result.Rejections, Rejection{
				Number: number,
				Reason: RejectDuplicateNumber,
				Text:   q.Text,
				Found:  order,
				Line:   start,
			})
			continue
		}
		seen[number] = struct{}{}
		result.Questions = append(result.Questions, q)
	}
	return result
}

func parseQuestionLine(line string) (int, string, bool) {
	m := questionPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	number, err := strconv.Atoi(m[1])
	if err != nil || number < 1 {
		return 0, "", false
	}
	return number, m[2], true
}

// readPrompt appends non-noise lines to prompt until a choice or the next question starts.
func readPrompt(lines []string, j int, prompt string) (int, string) {
	for ; j < len(lines); j++ {
		next := strings.TrimSpace(lines[j])
		if isChoiceStart(next) || questionStartPattern.MatchString(next) {
			break
		}
		if !IsNoise(next) {
			prompt += " " + next
		}
	}
	return j, prompt
}

// readChoices collects choices until A to D are all present or the next
// question starts. Lines without labels continue the last collected choice.
func readChoices(lines []string, j int) (int, map[exam.Letter]string, []exam.Letter) {
	choices := make(map[exam.Letter]string)
	var order []exam.Letter

	appendToLast := func(text string) {
		if text == "" || len(order) == 0 {
			return
		}
		last := order[len(order)-1]
		choices[last] += " " + text
	}

	for j < len(lines) && len(choices) < len(exam.Letters) {
		line := strings.TrimSpace(lines[j])
		if questionStartPattern.MatchString(line) {
			break
		}
		j++
		if IsNoise(line) {
			continue
		}

		prefix, tokens := tokenizeChoices(line)
		if len(tokens) == 0 {
			appendToLast(line)
			continue
		}
		appendToLast(prefix)
		for _, t := range tokens {
			if _, ok := choices[t.letter]; ok {
				continue
			}
			choices[t.letter] = t.text
			order = append(order, t.letter)
		}
	}
	return j, choices, order
}
