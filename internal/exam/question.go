// Package exam provides the question bank model, scoring, and the quiz session context.
package exam

import (
	"errors"
	"fmt"
	"strings"
)

// NoExplanation is stored when the answer key has no prose for a question.
const NoExplanation = "No explanation available."

// Letter is a choice label. Only A, B, C and D exist.
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
)

// Letters lists every choice label in display order.
var Letters = []Letter{LetterA, LetterB, LetterC, LetterD}

var ErrInvalidLetter = errors.New("choice letter must be one of A, B, C or D")

// ParseLetter normalizes user input such as " b " into a Letter.
func ParseLetter(s string) (Letter, error) {
	l := Letter(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidLetter)
	}
	return l, nil
}

func (l Letter) Valid() bool {
	switch l {
	case LetterA, LetterB, LetterC, LetterD:
		return true
	}
	return false
}

// Question is one extracted exam item.
// Correct is empty when the answer key has no entry for Number.
type Question struct {
	Number      int               `json:"number" yaml:"number"`
	Text        string            `json:"text" yaml:"text"`
	Choices     map[Letter]string `json:"choices" yaml:"choices"`
	Correct     Letter            `json:"correct,omitempty" yaml:"correct,omitempty"`
	Explanation string            `json:"explanation" yaml:"explanation"`
}

// HasCorrect reports whether the answer key supplied a letter for the question.
func (q Question) HasCorrect() bool {
	return q.Correct != ""
}

// HasExplanation reports whether the answer key supplied explanation prose.
func (q Question) HasExplanation() bool {
	return q.Explanation != "" && q.Explanation != NoExplanation
}

// Complete reports whether all four choices are present.
func (q Question) Complete() bool {
	for _, l := range Letters {
		if _, ok := q.Choices[l]; !ok {
			return false
		}
	}
	return len(q.Choices) == len(Letters)
}

// CorrectText returns the text of the correct choice, or "" when the letter is unknown.
func (q Question) CorrectText() string {
	if !q.HasCorrect() {
		return ""
	}
	return q.Choices[q.Correct]
}

// QuestionBank is the ordered collection of questions extracted from one document.
type QuestionBank struct {
	Questions []Question `json:"questions" yaml:"questions"`
}

func (b QuestionBank) Len() int {
	return len(b.Questions)
}

// Find returns the question with the given number.
func (b QuestionBank) Find(number int) (Question, bool) {
	for _, q := range b.Questions {
		if q.Number == number {
			return q, true
		}
	}
	return Question{}, false
}

// Select returns the questions numbered within [start, start+count-1], in bank order.
func (b QuestionBank) Select(start, count int) []Question {
	end := start + count - 1
	selected := make([]Question, 0)
	for _, q := range b.Questions {
		if q.Number >= start && q.Number <= end {
			selected = append(selected, q)
		}
	}
	return selected
}

// Summary describes what extraction recovered from a document.
type Summary struct {
	Total            int
	LowestNumber     int
	HighestNumber    int
	WithAnswers      int
	WithExplanations int
}

// Summarize counts the questions that have answer keys and explanations.
func Summarize(bank QuestionBank) Summary {
	var s Summary
	for i, q := range bank.Questions {
		s.Total++
		if i == 0 || q.Number < s.LowestNumber {
			s.LowestNumber = q.Number
		}
		if q.Number > s.HighestNumber {
			s.HighestNumber = q.Number
		}
		if q.HasCorrect() {
			s.WithAnswers++
		}
		if q.HasExplanation() {
			s.WithExplanations++
		}
	}
	return s
}

// AllAnswered reports whether every question has an answer key entry.
func (s Summary) AllAnswered() bool {
	return s.WithAnswers == s.Total
}
