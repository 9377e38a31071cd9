package extract

import (
	"log/slog"

	"github.com/at-ishikawa/exambank/internal/exam"
)

// Result is everything the pipeline learned about one document.
type Result struct {
	Bank       exam.QuestionBank
	Split      Split
	AnswerKey  AnswerKey
	Rejections []Rejection
}

// Extractor runs the pipeline with configurable split options.
type Extractor struct {
	splitOptions SplitOptions
	strategies   []SplitStrategy
	logger       *slog.Logger
}

// NewExtractor creates an Extractor. A nil logger uses slog.Default().
func NewExtractor(opts SplitOptions, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		splitOptions: opts,
		strategies:   DefaultSplitStrategies,
		logger:       logger,
	}
}

// Extract runs the pipeline over text with the default options.
func Extract(text string) Result {
	return NewExtractor(DefaultSplitOptions(), nil).Extract(text)
}

// Extract turns the text of a document into a question bank. It never fails:
// malformed input gives fewer questions, and questions absent from the answer
// key have no correct letter.
func (e *Extractor) Extract(text string) Result {
	logger := e.logger
	logger.Info("parsing document", slog.Int("length", len(text)))

	split := splitSections(text, e.splitOptions, e.strategies)
	if split.Found() {
		logger.Info("found answer key section",
			slog.String("strategy", split.Strategy),
			slog.Int("offset", split.Offset),
		)
	} else {
		logger.Warn("could not locate answer key section, parsing entire document as questions")
	}

	questions := ExtractQuestions(split.Questions)
	for _, r := range questions.Rejections {
		logger.Warn("skipped question",
			slog.Int("number", r.Number),
			slog.String("reason", string(r.Reason)),
			slog.Any("found", r.Found),
		)
	}

	key := ExtractAnswerKey(split.Answers)
	key.Apply(questions.Questions)

	bank := exam.QuestionBank{Questions: questions.Questions}
	summary := exam.Summarize(bank)
	logger.Info("parsing complete",
		slog.Int("questions", summary.Total),
		slog.Int("rejected", len(questions.Rejections)),
		slog.Int("answers", len(key)),
		slog.Int("withAnswers", summary.WithAnswers),
		slog.Int("withExplanations", summary.WithExplanations),
	)

	return Result{
		Bank:       bank,
		Split:      split,
		AnswerKey:  key,
		Rejections: questions.Rejections,
	}
}
