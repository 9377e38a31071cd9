package exam

import (
	"errors"
	"fmt"
)

// DefaultQuestionCount caps how many questions a quiz selects when no count is given.
const DefaultQuestionCount = 100

var (
	ErrNoQuestions    = errors.New("no questions are loaded")
	ErrEmptySelection = errors.New("no questions in the selected range")
	ErrNotStarted     = errors.New("quiz has not been started")
)

// Mode is the screen a session is on.
type Mode int

const (
	ModeEmpty Mode = iota
	ModeConfiguring
	ModeAnswering
	ModeReviewing
	ModeResults
)

func (m Mode) String() string {
	switch m {
	case ModeEmpty:
		return "empty"
	case ModeConfiguring:
		return "configuring"
	case ModeAnswering:
		return "answering"
	case ModeReviewing:
		return "reviewing"
	case ModeResults:
		return "results"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Session holds the state of one self-test: the loaded bank, the questions
// selected for the quiz, the user's answers and the cursor.
// It is used by a single caller and has no locking.
type Session struct {
	bank      QuestionBank
	questions []Question
	answers   map[int]Letter
	cursor    int
	mode      Mode
}

func NewSession() *Session {
	return &Session{
		answers: make(map[int]Letter),
	}
}

// Load replaces the bank and discards every answer and the cursor.
func (s *Session) Load(bank QuestionBank) {
	*s = Session{
		bank:    bank,
		answers: make(map[int]Letter),
		mode:    ModeConfiguring,
	}
	if bank.Len() == 0 {
		s.mode = ModeEmpty
	}
}

// Unload drops the document so that a different one can be loaded.
func (s *Session) Unload() {
	*s = *NewSession()
}

func (s *Session) Bank() QuestionBank {
	return s.bank
}

func (s *Session) Mode() Mode {
	return s.mode
}

// DefaultCount returns the question count suggested for a quiz starting at startNumber.
func (s *Session) DefaultCount(startNumber int) int {
	remaining := s.bank.Len() - startNumber + 1
	if remaining < 1 {
		remaining = 1
	}
	return min(DefaultQuestionCount, remaining)
}

// Start selects the questions numbered from startNumber and begins answering.
// A zero count uses DefaultCount.
func (s *Session) Start(startNumber, count int) error {
	if s.bank.Len() == 0 {
		return ErrNoQuestions
	}
	if startNumber < 1 {
		return fmt.Errorf("start question must be at least 1, got %d", startNumber)
	}
	if count < 0 {
		return fmt.Errorf("question count must not be negative, got %d", count)
	}
	if count == 0 {
		count = s.DefaultCount(startNumber)
	}

	selected := s.bank.Select(startNumber, count)
	if len(selected) == 0 {
		return fmt.Errorf("questions %d to %d: %w", startNumber, startNumber+count-1, ErrEmptySelection)
	}

	s.questions = selected
	s.answers = make(map[int]Letter)
	s.cursor = 0
	s.mode = ModeAnswering
	return nil
}

// Questions returns the questions selected for the quiz.
func (s *Session) Questions() []Question {
	return s.questions
}

// Index returns the cursor position within the selected questions.
func (s *Session) Index() int {
	return s.cursor
}

// Current returns the question under the cursor.
func (s *Session) Current() (Question, error) {
	if !s.started() {
		return Question{}, ErrNotStarted
	}
	return s.questions[s.cursor], nil
}

// Answer records letter for the current question, overwriting any earlier answer.
func (s *Session) Answer(letter Letter) error {
	if !letter.Valid() {
		return fmt.Errorf("%q: %w", letter, ErrInvalidLetter)
	}
	q, err := s.Current()
	if err != nil {
		return err
	}
	s.answers[q.Number] = letter
	return nil
}

// AnswerOf returns the recorded answer for a question number.
func (s *Session) AnswerOf(number int) (Letter, bool) {
	l, ok := s.answers[number]
	return l, ok
}

// Answers returns a copy of the answer map.
func (s *Session) Answers() map[int]Letter {
	answers := make(map[int]Letter, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	return answers
}

func (s *Session) HasNext() bool {
	return s.started() && s.cursor < len(s.questions)-1
}

func (s *Session) HasPrevious() bool {
	return s.started() && s.cursor > 0
}

// Next moves the cursor forward and reports whether it moved.
func (s *Session) Next() bool {
	if !s.HasNext() {
		return false
	}
	s.cursor++
	return true
}

// Previous moves the cursor back and reports whether it moved.
func (s *Session) Previous() bool {
	if !s.HasPrevious() {
		return false
	}
	s.cursor--
	return true
}

// Goto moves the cursor to the question at index.
func (s *Session) Goto(index int) error {
	if !s.started() {
		return ErrNotStarted
	}
	if index < 0 || index >= len(s.questions) {
		return fmt.Errorf("question index %d is out of range [0, %d)", index, len(s.questions))
	}
	s.cursor = index
	return nil
}

// Progress returns how many selected questions have an answer.
func (s *Session) Progress() (answered, total int) {
	for _, q := range s.questions {
		if _, ok := s.answers[q.Number]; ok {
			answered++
		}
	}
	return answered, len(s.questions)
}

// Submit finishes answering and shows the results.
func (s *Session) Submit() error {
	if !s.started() {
		return ErrNotStarted
	}
	s.mode = ModeResults
	return nil
}

// Submitted reports whether the quiz has been submitted at least once since it started.
func (s *Session) Submitted() bool {
	return s.mode == ModeReviewing || s.mode == ModeResults
}

// ShowResults switches a submitted quiz to the results screen.
func (s *Session) ShowResults() error {
	if !s.Submitted() {
		return errors.New("quiz has not been submitted")
	}
	s.mode = ModeResults
	return nil
}

// ContinueQuiz returns from the results screen to answering, keeping the answers.
func (s *Session) ContinueQuiz() error {
	if !s.Submitted() {
		return errors.New("quiz has not been submitted")
	}
	s.mode = ModeReviewing
	return nil
}

// Retake clears every answer and starts the same questions again.
func (s *Session) Retake() error {
	if !s.started() {
		return ErrNotStarted
	}
	s.answers = make(map[int]Letter)
	s.cursor = 0
	s.mode = ModeAnswering
	return nil
}

// NewQuiz goes back to choosing a question range for the loaded bank.
func (s *Session) NewQuiz() {
	s.questions = nil
	s.answers = make(map[int]Letter)
	s.cursor = 0
	s.mode = ModeConfiguring
	if s.bank.Len() == 0 {
		s.mode = ModeEmpty
	}
}

// Score grades the selected questions against the current answers.
func (s *Session) Score() ScoreReport {
	return Score(s.questions, s.answers)
}

func (s *Session) started() bool {
	return len(s.questions) > 0 && s.mode >= ModeAnswering
}
