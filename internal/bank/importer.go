package bank

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/at-ishikawa/exambank/internal/exam"
)

var ErrBankExists = errors.New("question bank already exists")

// ImportOptions controls import behavior.
type ImportOptions struct {
	Name   string
	Source string
	DryRun bool
	// Replace deletes an existing bank with the same name before importing.
	Replace bool
}

// ImportResult describes what an import did, or would do on a dry run.
type ImportResult struct {
	BankID    int64
	Questions int
	Replaced  bool
	DryRun    bool
}

// Importer writes extracted banks to a Repository.
type Importer struct {
	repo   Repository
	writer io.Writer
}

func NewImporter(repo Repository, writer io.Writer) *Importer {
	return &Importer{
		repo:   repo,
		writer: writer,
	}
}

// Import stores bank under opts.Name.
func (imp *Importer) Import(ctx context.Context, bank exam.QuestionBank, opts ImportOptions) (*ImportResult, error) {
	if opts.Name == "" {
		return nil, errors.New("bank name is required")
	}

	existing, err := imp.repo.FindByName(ctx, opts.Name)
	if err != nil && !errors.Is(err, ErrBankNotFound) {
		return nil, fmt.Errorf("repo.FindByName() > %w", err)
	}
	if existing != nil && !opts.Replace {
		return nil, fmt.Errorf("%q (id %d): %w", opts.Name, existing.ID, ErrBankExists)
	}

	result := &ImportResult{
		Questions: bank.Len(),
		Replaced:  existing != nil,
		DryRun:    opts.DryRun,
	}
	for _, q := range bank.Questions {
		status := "NEW"
		if !q.HasCorrect() {
			status = "NO KEY"
		}
		_, _ = fmt.Fprintf(imp.writer, "  [%s]  %d. %s\n", status, q.Number, q.Text)
	}
	if opts.DryRun {
		return result, nil
	}

	if existing != nil {
		if err := imp.repo.Delete(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("repo.Delete() > %w", err)
		}
	}

	record := &BankRecord{
		Name:   opts.Name,
		Source: opts.Source,
	}
	if err := imp.repo.Create(ctx, record, bank.Questions); err != nil {
		return nil, fmt.Errorf("repo.Create() > %w", err)
	}
	result.BankID = record.ID
	return result, nil
}

// Load reads a stored bank back into the domain model.
func (imp *Importer) Load(ctx context.Context, name string) (exam.QuestionBank, error) {
	record, err := imp.repo.FindByName(ctx, name)
	if err != nil {
		return exam.QuestionBank{}, fmt.Errorf("repo.FindByName() > %w", err)
	}
	rows, err := imp.repo.FindQuestions(ctx, record.ID)
	if err != nil {
		return exam.QuestionBank{}, fmt.Errorf("repo.FindQuestions() > %w", err)
	}

	bank := exam.QuestionBank{Questions: make([]exam.Question, 0, len(rows))}
	for _, row := range rows {
		bank.Questions = append(bank.Questions, row.Question())
	}
	return bank, nil
}
