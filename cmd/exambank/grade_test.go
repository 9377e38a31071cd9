package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/exambank/internal/exam"
	"github.com/at-ishikawa/exambank/internal/testutil"
)

func TestGradeCommand(t *testing.T) {
	tests := []struct {
		name            string
		answers         string
		args            []string
		wantContains    []string
		wantNotContains []string
	}{
		{
			name:    "selected range",
			answers: "1: B\n2: c\n3: a\n",
			args:    []string{"--start", "1", "--count", "4"},
			wantContains: []string{
				"Score: 50.0%",
				"Correct: 2  Incorrect: 1  Unanswered: 1  Total: 4",
				"Question 3:",
				"Your answer: A",
				"Correct answer: D. option delta 3",
				"Explanation: Control 3 keeps spending in line with the plan.",
				"Question 4:",
				"Your answer: Not answered",
			},
			wantNotContains: []string{"Question 1:", "Question 2:"},
		},
		{
			name:    "whole bank",
			answers: "1: B\n",
			wantContains: []string{
				"Score: 2.5%",
				"Correct: 1  Incorrect: 0  Unanswered: 39  Total: 40",
			},
		},
		{
			name:    "blank letters are unanswered",
			answers: "1: B\n2: \"\"\n",
			args:    []string{"--count", "2"},
			wantContains: []string{
				"Score: 50.0%",
				"Unanswered: 1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color.NoColor = true
			defer func() { color.NoColor = false }()

			tmpDir, docPath := setupExamDocument(t, 40)
			answersPath := filepath.Join(tmpDir, "answers.yml")
			require.NoError(t, os.WriteFile(answersPath, []byte(tt.answers), 0644))

			var output bytes.Buffer
			cmd := newGradeCommand()
			cmd.SetOut(&output)
			cmd.SetArgs(append([]string{docPath, "--answers", answersPath}, tt.args...))
			require.NoError(t, cmd.Execute())

			for _, s := range tt.wantContains {
				assert.Contains(t, output.String(), s)
			}
			for _, s := range tt.wantNotContains {
				assert.NotContains(t, output.String(), s)
			}
			assert.NotContains(t, output.String(), "Review saved to ")
		})
	}
}

func TestGradeCommand_Report(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tmpDir, docPath := setupExamDocument(t, 40)
	answersPath := filepath.Join(tmpDir, "answers.yml")
	require.NoError(t, os.WriteFile(answersPath, []byte("1: B\n2: C\n"), 0644))
	reportPath := filepath.Join(tmpDir, "reports", "graded.md")

	var output bytes.Buffer
	cmd := newGradeCommand()
	cmd.SetOut(&output)
	cmd.SetArgs([]string{docPath, "--answers", answersPath, "--count", "2", "--report", reportPath})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, output.String(), "Review saved to "+reportPath)
	content, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Exam Review: finance-exam")
	assert.Contains(t, string(content), "Source: finance-exam.txt")
	assert.Contains(t, string(content), "**Perfect Score!**")
}

func TestGradeCommand_Errors(t *testing.T) {
	tests := []struct {
		name              string
		answers           string
		args              []string
		wantErrorContains string
	}{
		{
			name:              "invalid letter",
			answers:           "1: E\n",
			wantErrorContains: "question 1",
		},
		{
			name:              "invalid yaml",
			answers:           "{{invalid",
			wantErrorContains: "yaml.Unmarshal",
		},
		{
			name:              "empty selection",
			answers:           "1: A\n",
			args:              []string{"--start", "50"},
			wantErrorContains: "no questions in the selected range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir, docPath := setupExamDocument(t, 40)
			answersPath := filepath.Join(tmpDir, "answers.yml")
			require.NoError(t, os.WriteFile(answersPath, []byte(tt.answers), 0644))

			cmd := newGradeCommand()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs(append([]string{docPath, "--answers", answersPath}, tt.args...))

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErrorContains)
		})
	}
}

func TestGradeCommand_DocumentWithoutQuestions(t *testing.T) {
	tmpDir, _ := setupExamDocument(t, 1)
	emptyPath := testutil.WriteDocument(t, tmpDir, "empty.txt", "Nothing to see here\n")
	answersPath := testutil.WriteDocument(t, tmpDir, "answers.yml", "1: A\n")

	var output bytes.Buffer
	cmd := newGradeCommand()
	cmd.SetOut(&output)
	cmd.SetArgs([]string{emptyPath, "--answers", answersPath})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, output.String(), "No questions were found in this document.")
	assert.NotContains(t, output.String(), "Score:")
}

func TestGradeCommand_RequiresAnswers(t *testing.T) {
	cmd := newGradeCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"exam.txt"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "answers" not set`)
}

func TestReadAnswers(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "answers.yml")
	require.NoError(t, os.WriteFile(path, []byte("1: a\n2: \" C \"\n10: D\n"), 0644))

	got, err := readAnswers(path)
	require.NoError(t, err)
	assert.Equal(t, map[int]exam.Letter{1: exam.LetterA, 2: exam.LetterC, 10: exam.LetterD}, got)

	_, err = readAnswers(filepath.Join(tmpDir, "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
