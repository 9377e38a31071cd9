package exam

// NotAnswered is shown in place of the user's letter for skipped questions.
const NotAnswered = "Not answered"

// Miss is one question that was not answered correctly.
type Miss struct {
	Number        int
	Question      string
	YourAnswer    string
	CorrectAnswer Letter
	ChoiceText    string
	Explanation   string
	IsUnanswered  bool
}

// ScoreReport is a view over the questions and the answers at one instant.
type ScoreReport struct {
	Percent         float64
	CorrectCount    int
	Total           int
	Wrong           []Miss
	UnansweredCount int
}

// IncorrectCount returns the number of questions answered with the wrong letter.
func (r ScoreReport) IncorrectCount() int {
	return len(r.Wrong) - r.UnansweredCount
}

// Perfect reports whether nothing was missed.
func (r ScoreReport) Perfect() bool {
	return r.Total > 0 && len(r.Wrong) == 0
}

// Score grades answers against questions. Unanswered questions count as wrong,
// and a question without a known correct letter can never be answered correctly.
// Neither argument is modified.
func Score(questions []Question, answers map[int]Letter) ScoreReport {
	report := ScoreReport{
		Total: len(questions),
		Wrong: make([]Miss, 0),
	}

	for _, q := range questions {
		answer, answered := answers[q.Number]
		answered = answered && answer != ""
		if answered && q.HasCorrect() && answer == q.Correct {
			report.CorrectCount++
			continue
		}

		miss := Miss{
			Number:        q.Number,
			Question:      q.Text,
			YourAnswer:    string(answer),
			CorrectAnswer: q.Correct,
			ChoiceText:    q.CorrectText(),
			Explanation:   q.Explanation,
			IsUnanswered:  !answered,
		}
		if !answered {
			miss.YourAnswer = NotAnswered
			report.UnansweredCount++
		}
		report.Wrong = append(report.Wrong, miss)
	}

	if report.Total > 0 {
		report.Percent = float64(report.CorrectCount) * 100 / float64(report.Total)
	}
	return report
}
