// Package report renders the review of a graded quiz to Markdown and PDF.
package report

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/at-ishikawa/exambank/internal/exam"
)

//go:embed templates/review.md.go.tmpl
var fallbackReviewTemplate string

// MissingAnswer is shown when the answer key has no entry for a missed question.
const MissingAnswer = "Not available in answer key"

// Review is the data passed to the review template.
type Review struct {
	Title  string
	Source string
	Date   time.Time
	Report exam.ScoreReport
}

// CorrectAnswer formats the correct letter and choice text of a miss.
func CorrectAnswer(miss exam.Miss) string {
	if miss.CorrectAnswer == "" {
		return MissingAnswer
	}
	if miss.ChoiceText == "" {
		return string(miss.CorrectAnswer)
	}
	return fmt.Sprintf("%s. %s", miss.CorrectAnswer, miss.ChoiceText)
}

func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f", p)
}

// WriteReview renders review with the template at templatePath, or the embedded one when it is empty.
func WriteReview(output io.Writer, templatePath string, review Review) error {
	tmpl, err := parseTemplateWithFallback(templatePath, fallbackReviewTemplate)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, review); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}

// WriteReviewFile writes the review to markdownPath and returns the paths written.
// With generatePDF, a PDF is written next to the Markdown file.
func WriteReviewFile(markdownPath string, templatePath string, review Review, generatePDF bool) ([]string, error) {
	if err := os.MkdirAll(filepath.Dir(markdownPath), 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll() > %w", err)
	}

	f, err := os.Create(markdownPath)
	if err != nil {
		return nil, fmt.Errorf("os.Create(%s) > %w", markdownPath, err)
	}
	if err := WriteReview(f, templatePath, review); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", markdownPath, err)
	}

	written := []string{markdownPath}
	if !generatePDF {
		return written, nil
	}
	pdfPath, err := ConvertMarkdownToPDF(markdownPath)
	if err != nil {
		return written, fmt.Errorf("ConvertMarkdownToPDF() > %w", err)
	}
	return append(written, pdfPath), nil
}

func parseTemplateWithFallback(templatePath string, fallbackTemplate string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"percent":       FormatPercent,
		"correctAnswer": CorrectAnswer,
	}

	if templatePath == "" {
		tmpl, err := template.New("review.md.go.tmpl").
			Funcs(funcMap).
			Parse(fallbackTemplate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse embedded template: %w", err)
		}
		return tmpl, nil
	}

	// If template path is provided, it must be valid.
	if _, err := os.Stat(templatePath); err != nil {
		return nil, fmt.Errorf("template file not found or accessible: %w", err)
	}

	tmpl, err := template.New(filepath.Base(templatePath)).
		Funcs(funcMap).
		ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template file %s: %w", templatePath, err)
	}
	return tmpl, nil
}
