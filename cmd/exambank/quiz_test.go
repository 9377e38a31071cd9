package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/exambank/internal/bank"
	"github.com/at-ishikawa/exambank/internal/exam"
	"github.com/at-ishikawa/exambank/internal/testutil"
)

func TestQuizCommand(t *testing.T) {
	tests := []struct {
		name            string
		args            []string
		input           string
		wantContains    []string
		wantReport      bool
		wantReportLines []string
	}{
		{
			name:  "submitted quiz saves a review",
			args:  []string{"--start", "5", "--count", "3"},
			input: "a\nb\nc\ns\nq\n",
			wantContains: []string{
				"Question 1 of 3 (0 answered)",
				"5. Which of the following",
				"Score: 0.0%",
				"Correct: 0  Incorrect: 3  Unanswered: 0  Total: 3",
				"Review saved to ",
			},
			wantReport: true,
			wantReportLines: []string{
				"## Score: 0.0%",
				"Question 5",
			},
		},
		{
			name:  "quit before submitting saves nothing",
			args:  []string{"--count", "2"},
			input: "b\nq\n",
			wantContains: []string{
				"Question 1 of 2 (0 answered)",
			},
		},
		{
			name:  "no-report skips the review",
			args:  []string{"--count", "1", "--no-report"},
			input: "b\ns\nq\n",
			wantContains: []string{
				"Score: 100.0%",
				"Perfect Score!",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color.NoColor = true
			defer func() { color.NoColor = false }()

			tmpDir, docPath := setupExamDocument(t, 40)
			reportPath := filepath.Join(tmpDir, "review.md")

			var output bytes.Buffer
			cmd := newQuizCommand()
			cmd.SetIn(strings.NewReader(tt.input))
			cmd.SetOut(&output)
			args := append([]string{docPath, "--report", reportPath}, tt.args...)
			cmd.SetArgs(args)
			require.NoError(t, cmd.Execute())

			for _, s := range tt.wantContains {
				assert.Contains(t, output.String(), s)
			}

			content, err := os.ReadFile(reportPath)
			if !tt.wantReport {
				assert.ErrorIs(t, err, os.ErrNotExist)
				assert.NotContains(t, output.String(), "Review saved to ")
				return
			}
			require.NoError(t, err)
			for _, s := range tt.wantReportLines {
				assert.Contains(t, string(content), s)
			}
		})
	}
}

func TestQuizCommand_BankFile(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tmpDir := t.TempDir()
	setConfigFile(t, testutil.SetupTestConfig(t, tmpDir))

	bankPath := filepath.Join(tmpDir, "bank.json")
	require.NoError(t, bank.WriteFile(bankPath, exam.QuestionBank{
		Questions: testutil.Want(testutil.SampleQuestions(3)),
	}, bank.FormatJSON))

	var output bytes.Buffer
	cmd := newQuizCommand()
	cmd.SetIn(strings.NewReader("b\nc\nd\ns\nq\n"))
	cmd.SetOut(&output)
	cmd.SetArgs([]string{bankPath})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, output.String(), "Extracted 3 questions")
	assert.Contains(t, output.String(), "Perfect Score!")

	entries, err := os.ReadDir(filepath.Join(tmpDir, "reports"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "bank-review-"))
}

func TestQuizCommand_DocumentWithoutQuestions(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tmpDir, docPath := setupExamDocument(t, 40)
	emptyPath := testutil.WriteDocument(t, tmpDir, "empty.txt", "Nothing to see here\n")

	var output bytes.Buffer
	cmd := newQuizCommand()
	cmd.SetIn(strings.NewReader("l " + docPath + "\n2 2\nc\nd\ns\nq\n"))
	cmd.SetOut(&output)
	cmd.SetArgs([]string{emptyPath, "--report", filepath.Join(tmpDir, "review.md")})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, output.String(), "Extracted 0 questions")
	assert.Contains(t, output.String(), "No questions were found in this document.")
	assert.Contains(t, output.String(), "Extracted 40 questions (numbers 1 to 40)")
	assert.Contains(t, output.String(), "Perfect Score!")

	content, err := os.ReadFile(filepath.Join(tmpDir, "review.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Exam Review: finance-exam")
}

func TestQuizCommand_SaveAnswers(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tmpDir, docPath := setupExamDocument(t, 40)
	answersPath := filepath.Join(tmpDir, "answers", "finance.yml")

	var output bytes.Buffer
	cmd := newQuizCommand()
	cmd.SetIn(strings.NewReader("a\nc\nq\n"))
	cmd.SetOut(&output)
	cmd.SetArgs([]string{docPath, "--count", "3", "--save-answers", answersPath})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, output.String(), "Answers saved to "+answersPath)
	assert.NotContains(t, output.String(), "Review saved to ")

	got, err := readAnswers(answersPath)
	require.NoError(t, err)
	assert.Equal(t, map[int]exam.Letter{1: exam.LetterA, 2: exam.LetterC}, got)
}

func TestQuizCommand_Errors(t *testing.T) {
	tests := []struct {
		name              string
		setup             func(t *testing.T) []string
		wantErrorContains string
	}{
		{
			name: "broken config",
			setup: func(t *testing.T) []string {
				setConfigFile(t, setupBrokenConfigFile(t))
				return []string{"exam.txt"}
			},
			wantErrorContains: "configuration",
		},
		{
			name: "start beyond the last question",
			setup: func(t *testing.T) []string {
				_, docPath := setupExamDocument(t, 40)
				return []string{docPath, "--start", "41"}
			},
			wantErrorContains: "no questions in the selected range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newQuizCommand()
			cmd.SetIn(strings.NewReader(""))
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.setup(t))

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErrorContains)
		})
	}
}
