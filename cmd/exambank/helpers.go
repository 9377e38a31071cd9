package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/exambank/internal/bank"
	"github.com/at-ishikawa/exambank/internal/config"
	"github.com/at-ishikawa/exambank/internal/document"
	"github.com/at-ishikawa/exambank/internal/exam"
	"github.com/at-ishikawa/exambank/internal/extract"
	"github.com/at-ishikawa/exambank/internal/report"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func splitOptions(cfg config.ExtractionConfig) extract.SplitOptions {
	return extract.SplitOptions{
		MinOffset:        cfg.MinSplitOffset,
		DensityWindow:    cfg.DensityWindow,
		DensityStep:      cfg.DensityStep,
		DensityThreshold: cfg.DensityThreshold,
	}
}

// loadBank reads an exported question bank, or extracts one from an exam document.
// Rejections are only reported for documents.
func loadBank(ctx context.Context, cfg *config.Config, path string) (exam.QuestionBank, []extract.Rejection, error) {
	if bank.IsBankFile(path) {
		b, err := bank.ReadFile(path)
		if err != nil {
			return exam.QuestionBank{}, nil, fmt.Errorf("bank.ReadFile() > %w", err)
		}
		return b, nil, nil
	}

	text, err := document.ReadFile(ctx, path, document.Options{
		PDFToTextPath: cfg.Documents.PDFToTextPath,
	})
	if err != nil {
		return exam.QuestionBank{}, nil, fmt.Errorf("document.ReadFile() > %w", err)
	}
	result := extract.NewExtractor(splitOptions(cfg.Extraction), slog.Default()).Extract(text)
	return result.Bank, result.Rejections, nil
}

func printSummary(w io.Writer, b exam.QuestionBank, rejections []extract.Rejection) {
	summary := exam.Summarize(b)
	bold := color.New(color.Bold)
	yellow := color.New(color.FgYellow)

	_, _ = fmt.Fprintf(w, "%s %d questions", bold.Sprint("Extracted"), summary.Total)
	if summary.Total > 0 {
		_, _ = fmt.Fprintf(w, " (numbers %d to %d)", summary.LowestNumber, summary.HighestNumber)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "  with answers:      %d\n", summary.WithAnswers)
	_, _ = fmt.Fprintf(w, "  with explanations: %d\n", summary.WithExplanations)

	if !summary.AllAnswered() {
		_, _ = fmt.Fprintln(w, yellow.Sprintf("Warning: %d questions have no answer key entry", summary.Total-summary.WithAnswers))
	}
	for _, r := range rejections {
		_, _ = fmt.Fprintln(w, yellow.Sprintf("Skipped question %d: %s (found %s)", r.Number, r.Reason, joinLetters(r.Found)))
	}
}

func joinLetters(letters []exam.Letter) string {
	if len(letters) == 0 {
		return "no choices"
	}
	parts := make([]string, 0, len(letters))
	for _, l := range letters {
		parts = append(parts, string(l))
	}
	return strings.Join(parts, ", ")
}

// documentStem returns the file name of path without its extension.
func documentStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeReport renders the review of r next to the other reports unless outputPath is set.
func writeReport(w io.Writer, cfg *config.Config, source string, outputPath string, generatePDF bool, r exam.ScoreReport) error {
	now := time.Now()
	if outputPath == "" {
		name := fmt.Sprintf("%s-review-%s.md", documentStem(source), now.Format("20060102-150405"))
		outputPath = filepath.Join(cfg.Outputs.ReportDirectory, name)
	}

	files, err := report.WriteReviewFile(outputPath, cfg.Templates.ReviewTemplate, report.Review{
		Title:  "Exam Review: " + documentStem(source),
		Source: filepath.Base(source),
		Date:   now,
		Report: r,
	}, generatePDF)
	if err != nil {
		return fmt.Errorf("report.WriteReviewFile() > %w", err)
	}
	for _, f := range files {
		_, _ = fmt.Fprintf(w, "Review saved to %s\n", f)
	}
	return nil
}
