package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/at-ishikawa/exambank/internal/exam"
	"github.com/at-ishikawa/exambank/internal/report"
)

// BankLoader reads the question bank of another document.
type BankLoader func(ctx context.Context, path string) (exam.QuestionBank, error)

// ExamQuizCLI drives an exam.Session from the terminal.
type ExamQuizCLI struct {
	*InteractiveQuizCLI
	session *exam.Session
	load    BankLoader
}

// NewExamQuizCLI creates the quiz screens. A nil load disables loading another document.
func NewExamQuizCLI(base *InteractiveQuizCLI, session *exam.Session, load BankLoader) *ExamQuizCLI {
	return &ExamQuizCLI{
		InteractiveQuizCLI: base,
		session:            session,
		load:               load,
	}
}

// Session shows the current screen and handles one command.
func (q *ExamQuizCLI) Session(ctx context.Context) error {
	switch q.session.Mode() {
	case exam.ModeEmpty:
		return q.emptyStep(ctx)
	case exam.ModeConfiguring:
		return q.configureStep(ctx)
	case exam.ModeAnswering, exam.ModeReviewing:
		return q.answerStep()
	case exam.ModeResults:
		return q.resultsStep()
	default:
		return fmt.Errorf("unexpected session mode %s", q.session.Mode())
	}
}

func (q *ExamQuizCLI) emptyStep(ctx context.Context) error {
	q.println()
	q.println(q.red.Sprint("No questions were found in this document."))
	if q.load == nil {
		return errEnd
	}

	q.printf("(l)oad <document>, (q)uit: ")
	line, err := q.readLine()
	if err != nil {
		return err
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch strings.ToLower(fields[0]) {
	case "l", "load":
		q.loadDocument(ctx, fields[1:])
	case "q", "quit", "exit":
		return errEnd
	default:
		q.printf("Unknown command %q\n", strings.TrimSpace(line))
	}
	return nil
}

// configureStep chooses the question range of the next quiz.
func (q *ExamQuizCLI) configureStep(ctx context.Context) error {
	summary := exam.Summarize(q.session.Bank())
	q.println()
	q.printf("%d questions loaded (numbers %d to %d).\n", summary.Total, summary.LowestNumber, summary.HighestNumber)
	q.printf("Start question and count [%d %d]", summary.LowestNumber, q.session.DefaultCount(summary.LowestNumber))
	if q.load != nil {
		q.printf(", (l)oad <document>")
	}
	q.printf(", (q)uit: ")

	line, err := q.readLine()
	if err != nil {
		return err
	}
	fields := strings.Fields(line)
	start, count := summary.LowestNumber, 0
	if len(fields) > 0 {
		switch strings.ToLower(fields[0]) {
		case "l", "load":
			if q.load == nil {
				q.printf("Unknown command %q\n", strings.TrimSpace(line))
				return nil
			}
			q.loadDocument(ctx, fields[1:])
			return nil
		case "q", "quit", "exit":
			return errEnd
		}

		numbers := make([]int, 0, 2)
		for _, f := range fields[:min(len(fields), 2)] {
			n, err := strconv.Atoi(f)
			if err != nil {
				q.printf("Invalid number %q\n", f)
				return nil
			}
			numbers = append(numbers, n)
		}
		start = numbers[0]
		if len(numbers) == 2 {
			count = numbers[1]
		}
	}

	if err := q.session.Start(start, count); err != nil {
		q.printf("Cannot start the quiz: %v\n", err)
	}
	return nil
}

// loadDocument drops the current document and loads the one at args[0].
// When loading fails the session stays empty.
func (q *ExamQuizCLI) loadDocument(ctx context.Context, args []string) {
	if len(args) == 0 {
		q.println("Usage: l <document>")
		return
	}
	path := strings.Join(args, " ")

	q.session.Unload()
	bank, err := q.load(ctx, path)
	if err != nil {
		q.printf("Could not load %s: %v\n", path, err)
		return
	}
	q.session.Load(bank)
}

func (q *ExamQuizCLI) answerStep() error {
	current, err := q.session.Current()
	if err != nil {
		return fmt.Errorf("session.Current() > %w", err)
	}
	if q.session.Mode() == exam.ModeReviewing {
		q.displayScoreBanner(q.session.Score())
	}
	q.displayQuestion(current)

	q.printf("Answer [A-D], (n)ext, (p)revious, (g)oto <number>, (s)ubmit")
	if q.session.Submitted() {
		q.printf(", (r)esults")
	}
	q.printf(", (q)uit: ")

	line, err := q.readLine()
	if err != nil {
		return err
	}
	command := strings.TrimSpace(line)
	fields := strings.Fields(strings.ToLower(command))
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "a", "b", "c", "d":
		letter, _ := exam.ParseLetter(fields[0])
		if err := q.session.Answer(letter); err != nil {
			return fmt.Errorf("session.Answer() > %w", err)
		}
		q.session.Next()
	case "n", "next":
		if !q.session.Next() {
			q.println("This is the last question.")
		}
	case "p", "prev", "previous":
		if !q.session.Previous() {
			q.println("This is the first question.")
		}
	case "g", "goto":
		q.gotoQuestion(fields[1:])
	case "s", "submit":
		answered, total := q.session.Progress()
		if answered < total {
			q.printf("%d of %d questions are unanswered.\n", total-answered, total)
		}
		if err := q.session.Submit(); err != nil {
			return fmt.Errorf("session.Submit() > %w", err)
		}
	case "r", "results":
		if err := q.session.ShowResults(); err != nil {
			q.println("Submit the quiz to see the results.")
		}
	case "q", "quit", "exit":
		return errEnd
	default:
		q.printf("Unknown command %q\n", command)
	}
	return nil
}

func (q *ExamQuizCLI) gotoQuestion(args []string) {
	if len(args) == 0 {
		q.println("Usage: g <question number>")
		return
	}
	number, err := strconv.Atoi(args[0])
	if err != nil {
		q.printf("Invalid question number %q\n", args[0])
		return
	}
	for i, question := range q.session.Questions() {
		if question.Number == number {
			_ = q.session.Goto(i)
			return
		}
	}
	if _, ok := q.session.Bank().Find(number); !ok {
		q.printf("There is no question %d.\n", number)
		return
	}
	q.printf("Question %d is not in this quiz.\n", number)
}

func (q *ExamQuizCLI) resultsStep() error {
	q.DisplayResults(q.session.Score())

	q.printf("(c)ontinue quiz, (t)ake again, (n)ew quiz, (q)uit: ")
	line, err := q.readLine()
	if err != nil {
		return err
	}

	switch command := strings.ToLower(strings.TrimSpace(line)); command {
	case "c", "continue":
		if err := q.session.ContinueQuiz(); err != nil {
			return fmt.Errorf("session.ContinueQuiz() > %w", err)
		}
	case "t", "retake":
		if err := q.session.Retake(); err != nil {
			return fmt.Errorf("session.Retake() > %w", err)
		}
	case "n", "new":
		q.session.NewQuiz()
	case "q", "quit", "exit":
		return errEnd
	case "":
	default:
		q.printf("Unknown command %q\n", command)
	}
	return nil
}

func (q *ExamQuizCLI) displayQuestion(question exam.Question) {
	answered, total := q.session.Progress()
	q.println()
	q.printf("Question %d of %d (%d answered)\n", q.session.Index()+1, total, answered)
	q.printf("%s %s\n", q.bold.Sprintf("%d.", question.Number), question.Text)

	selected, _ := q.session.AnswerOf(question.Number)
	for _, letter := range exam.Letters {
		marker := " "
		if letter == selected {
			marker = "*"
		}
		q.printf(" %s %s. %s\n", marker, letter, question.Choices[letter])
	}
}

func (q *ExamQuizCLI) displayScoreBanner(r exam.ScoreReport) {
	q.println()
	q.printf("Current score: %s%% (%d/%d correct)\n", q.bold.Sprint(report.FormatPercent(r.Percent)), r.CorrectCount, r.Total)
}

// DisplayResults prints the score and every missed question.
func (cli *InteractiveQuizCLI) DisplayResults(r exam.ScoreReport) {
	cli.println()
	cli.printf("Score: %s%%\n", cli.bold.Sprint(report.FormatPercent(r.Percent)))
	cli.printf("Correct: %d  Incorrect: %d  Unanswered: %d  Total: %d\n",
		r.CorrectCount, r.IncorrectCount(), r.UnansweredCount, r.Total)

	if r.Perfect() {
		cli.printf("✅ %s\n", cli.green.Sprint("Perfect Score!"))
		return
	}

	for _, miss := range r.Wrong {
		cli.println()
		cli.printf("❌ %s %s\n", cli.bold.Sprintf("Question %d:", miss.Number), miss.Question)
		yourAnswer := miss.YourAnswer
		if miss.IsUnanswered {
			yourAnswer = cli.italic.Sprint(yourAnswer)
		}
		cli.printf("   Your answer: %s\n", cli.red.Sprint(yourAnswer))
		cli.printf("   Correct answer: %s\n", cli.green.Sprint(report.CorrectAnswer(miss)))
		cli.printf("   Explanation: %s\n", miss.Explanation)
	}
}
