package extract

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/at-ishikawa/exambank/internal/exam"
	"github.com/at-ishikawa/exambank/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_ExamDocument(t *testing.T) {
	samples := testutil.SampleQuestions(40)
	text := testutil.ExamDocument(samples)

	got := Extract(text)

	assert.Equal(t, "key-header", got.Split.Strategy)
	assert.Empty(t, got.Rejections)
	assert.Len(t, got.AnswerKey, 40)
	assert.Equal(t, testutil.Want(samples), got.Bank.Questions)

	summary := exam.Summarize(got.Bank)
	assert.Equal(t, exam.Summary{
		Total:            40,
		LowestNumber:     1,
		HighestNumber:    40,
		WithAnswers:      40,
		WithExplanations: 40,
	}, summary)
}

func TestExtract_NoAnswerKey(t *testing.T) {
	samples := testutil.SampleQuestions(40)
	text := testutil.RenderQuestions(samples)

	got := Extract(text)

	assert.False(t, got.Split.Found())
	assert.Empty(t, got.Split.Answers)
	require.Len(t, got.Bank.Questions, 40)
	for _, q := range got.Bank.Questions {
		assert.False(t, q.HasCorrect(), "question %d", q.Number)
		assert.Equal(t, exam.NoExplanation, q.Explanation)
	}
}

func TestExtract_PartialAnswerKey(t *testing.T) {
	samples := testutil.SampleQuestions(40)
	keyed := samples[:30]
	text := testutil.RenderQuestions(samples) + testutil.RenderAnswerKey(keyed)

	got := Extract(text)

	require.Len(t, got.Bank.Questions, 40)
	summary := exam.Summarize(got.Bank)
	assert.Equal(t, 30, summary.WithAnswers)
	assert.False(t, summary.AllAnswered())
	q, ok := got.Bank.Find(35)
	require.True(t, ok)
	assert.False(t, q.HasCorrect())
}

func TestExtract_DroppedQuestionIsReported(t *testing.T) {
	samples := testutil.SampleQuestions(40)
	text := testutil.ExamDocument(samples)
	text = strings.Replace(text, "D. option delta 7\n", "", 1)

	var logs bytes.Buffer
	extractor := NewExtractor(DefaultSplitOptions(), slog.New(slog.NewTextHandler(&logs, nil)))
	got := extractor.Extract(text)

	require.Len(t, got.Rejections, 1)
	assert.Equal(t, 7, got.Rejections[0].Number)
	assert.Equal(t, RejectMissingChoices, got.Rejections[0].Reason)
	assert.Len(t, got.Bank.Questions, 39)
	_, ok := got.Bank.Find(7)
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "skipped question")
}

func TestExtract_MalformedInput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "only noise", text: "Page 1\nCopyright 2024 DECA Inc.\n\n"},
		{name: "prose without questions", text: strings.Repeat("Lorem ipsum dolor sit amet.\n", 500)},
		{name: "answer lines only", text: strings.Repeat("1. A\n2. B\n", 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			assert.Equal(t, 0, got.Bank.Len())
		})
	}
}

func TestExtract_ScoreRoundTrip(t *testing.T) {
	samples := testutil.SampleQuestions(40)[:10]
	text := padQuestions(samples) + testutil.RenderAnswerKey(samples)

	got := Extract(text)
	require.Len(t, got.Bank.Questions, 10)

	answers := make(map[int]exam.Letter)
	for i, q := range got.Bank.Questions {
		answers[q.Number] = q.Correct
		if i >= 7 {
			answers[q.Number] = wrongLetter(q.Correct)
		}
	}

	report := exam.Score(got.Bank.Questions, answers)
	assert.Equal(t, 70.0, report.Percent)
	assert.Equal(t, 0, report.UnansweredCount)
	assert.Len(t, report.Wrong, 3)
}

// padQuestions renders samples and pads the section past the answer key offset floor.
func padQuestions(samples []testutil.SampleQuestion) string {
	section := testutil.RenderQuestions(samples)
	return section + strings.Repeat("Copyright 2024 by MBA Research and Curriculum Center\n", 5000/50+1)
}

func wrongLetter(l exam.Letter) exam.Letter {
	if l == exam.LetterA {
		return exam.LetterB
	}
	return exam.LetterA
}
