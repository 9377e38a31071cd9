// Package testutil provides shared test helpers for creating config files and exam document fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/at-ishikawa/exambank/internal/exam"
	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a minimal config file and the output directories for testing.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"banks", "reports"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`outputs:
  bank_directory: %s
  report_directory: %s
quiz:
  start_question: 1
  question_count: 100
`,
		filepath.Join(tmpDir, "banks"),
		filepath.Join(tmpDir, "reports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SampleQuestion is a question used to render a fixture document.
type SampleQuestion struct {
	Number      int
	Prompt      string
	Choices     [4]string
	Correct     exam.Letter
	Explanation string
}

// SampleQuestions returns count questions numbered from 1 with long enough
// prompts that the question section passes the answer key offset floor.
func SampleQuestions(count int) []SampleQuestion {
	questions := make([]SampleQuestion, 0, count)
	for i := 1; i <= count; i++ {
		questions = append(questions, SampleQuestion{
			Number: i,
			Prompt: fmt.Sprintf("Which of the following best describes the purpose of financial control number %d when a business reviews its quarterly budget?", i),
			Choices: [4]string{
				fmt.Sprintf("option alpha %d", i),
				fmt.Sprintf("option bravo %d", i),
				fmt.Sprintf("option charlie %d", i),
				fmt.Sprintf("option delta %d", i),
			},
			Correct:     exam.Letters[i%4],
			Explanation: fmt.Sprintf("Control %d keeps spending in line with the plan.", i),
		})
	}
	return questions
}

// Want converts samples into the questions extraction should produce.
func Want(samples []SampleQuestion) []exam.Question {
	questions := make([]exam.Question, 0, len(samples))
	for _, s := range samples {
		choices := make(map[exam.Letter]string, 4)
		for i, l := range exam.Letters {
			choices[l] = s.Choices[i]
		}
		explanation := s.Explanation
		if explanation == "" {
			explanation = exam.NoExplanation
		}
		questions = append(questions, exam.Question{
			Number:      s.Number,
			Text:        s.Prompt,
			Choices:     choices,
			Correct:     s.Correct,
			Explanation: explanation,
		})
	}
	return questions
}

// RenderQuestions renders the question section the way extracted exam text
// looks: running headers, page footers, prompts wrapped across two lines, and
// choices alternating between one per line and two per line.
func RenderQuestions(samples []SampleQuestion) string {
	var b strings.Builder
	b.WriteString("Test 1229 FINANCE EXAM 1\n")
	for i, q := range samples {
		half := len(q.Prompt) / 2
		cut := strings.LastIndex(q.Prompt[:half], " ")
		fmt.Fprintf(&b, "%d. %s\n%s\n", q.Number, q.Prompt[:cut], q.Prompt[cut+1:])
		if q.Number%2 == 0 {
			fmt.Fprintf(&b, "A. %s. C. %s.\n", q.Choices[0], q.Choices[2])
			fmt.Fprintf(&b, "B. %s. D. %s.\n", q.Choices[1], q.Choices[3])
		} else {
			for j, l := range exam.Letters {
				fmt.Fprintf(&b, "%s. %s\n", l, q.Choices[j])
			}
		}
		if (i+1)%5 == 0 {
			fmt.Fprintf(&b, "Copyright 2024 by MBA Research and Curriculum Center\nPage %d\nTest 1229 FINANCE EXAM 1\n", (i+1)/5)
		}
	}
	return b.String()
}

// RenderAnswerKey renders the answer key section with explanations wrapped
// across lines and a SOURCE citation after every entry.
func RenderAnswerKey(samples []SampleQuestion) string {
	var b strings.Builder
	b.WriteString("FINANCE CLUSTER EXAM—KEY 11\n")
	for _, q := range samples {
		fmt.Fprintf(&b, "%d. %s\n", q.Number, q.Correct)
		if q.Explanation != "" {
			words := strings.Fields(q.Explanation)
			mid := len(words) / 2
			fmt.Fprintf(&b, "%s\n%s\n", strings.Join(words[:mid], " "), strings.Join(words[mid:], " "))
		}
		b.WriteString("SOURCE: FI:355 Finance Journal\nretrieved from the publisher archive\n")
	}
	return b.String()
}

// ExamDocument renders a full document: questions followed by the answer key.
func ExamDocument(samples []SampleQuestion) string {
	return RenderQuestions(samples) + RenderAnswerKey(samples)
}

// WriteDocument writes content under dir and returns its path.
func WriteDocument(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
