package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/exambank/internal/database"
	"github.com/at-ishikawa/exambank/internal/exam"
)

var ErrBankNotFound = errors.New("question bank not found")

// BankRecord is a row of question_banks.
type BankRecord struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	Source        string    `db:"source"`
	QuestionCount int       `db:"question_count"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// QuestionRecord is a row of questions.
type QuestionRecord struct {
	ID            int64  `db:"id"`
	BankID        int64  `db:"bank_id"`
	Number        int    `db:"number"`
	Text          string `db:"text"`
	ChoiceA       string `db:"choice_a"`
	ChoiceB       string `db:"choice_b"`
	ChoiceC       string `db:"choice_c"`
	ChoiceD       string `db:"choice_d"`
	CorrectLetter string `db:"correct_letter"`
	Explanation   string `db:"explanation"`
}

// NewQuestionRecord flattens q into a row of bank bankID.
func NewQuestionRecord(bankID int64, q exam.Question) QuestionRecord {
	return QuestionRecord{
		BankID:        bankID,
		Number:        q.Number,
		Text:          q.Text,
		ChoiceA:       q.Choices[exam.LetterA],
		ChoiceB:       q.Choices[exam.LetterB],
		ChoiceC:       q.Choices[exam.LetterC],
		ChoiceD:       q.Choices[exam.LetterD],
		CorrectLetter: string(q.Correct),
		Explanation:   q.Explanation,
	}
}

// Question converts the row back into the domain model.
func (r QuestionRecord) Question() exam.Question {
	return exam.Question{
		Number: r.Number,
		Text:   r.Text,
		Choices: map[exam.Letter]string{
			exam.LetterA: r.ChoiceA,
			exam.LetterB: r.ChoiceB,
			exam.LetterC: r.ChoiceC,
			exam.LetterD: r.ChoiceD,
		},
		Correct:     exam.Letter(r.CorrectLetter),
		Explanation: r.Explanation,
	}
}

//go:generate mockgen -source=repository.go -destination=../mocks/bank/mock_repository.go -package=mock_bank Repository

// Repository defines operations for stored question banks.
type Repository interface {
	FindByName(ctx context.Context, name string) (*BankRecord, error)
	FindQuestions(ctx context.Context, bankID int64) ([]QuestionRecord, error)
	Create(ctx context.Context, record *BankRecord, questions []exam.Question) error
	Delete(ctx context.Context, bankID int64) error
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindByName returns the bank named name, or ErrBankNotFound.
func (r *DBRepository) FindByName(ctx context.Context, name string) (*BankRecord, error) {
	var record BankRecord
	query := "SELECT id, name, source, question_count, created_at, updated_at FROM question_banks WHERE name = ?"
	if err := r.db.GetContext(ctx, &record, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%q: %w", name, ErrBankNotFound)
		}
		return nil, fmt.Errorf("find question bank %q: %w", name, err)
	}
	return &record, nil
}

// FindQuestions returns the questions of a bank ordered by number.
func (r *DBRepository) FindQuestions(ctx context.Context, bankID int64) ([]QuestionRecord, error) {
	var records []QuestionRecord
	query := "SELECT id, bank_id, number, text, choice_a, choice_b, choice_c, choice_d, correct_letter, explanation FROM questions WHERE bank_id = ? ORDER BY number"
	if err := r.db.SelectContext(ctx, &records, query, bankID); err != nil {
		return nil, fmt.Errorf("load questions of bank %d: %w", bankID, err)
	}
	return records, nil
}

// Create inserts the bank and all of its questions in a single transaction.
// record.ID is set to the new row ID.
func (r *DBRepository) Create(ctx context.Context, record *BankRecord, questions []exam.Question) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			"INSERT INTO question_banks (name, source, question_count) VALUES (?, ?, ?)",
			record.Name, record.Source, len(questions),
		)
		if err != nil {
			return fmt.Errorf("insert question bank: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get question bank ID: %w", err)
		}
		record.ID = id
		record.QuestionCount = len(questions)

		if len(questions) == 0 {
			return nil
		}

		columns := []string{"bank_id", "number", "text", "choice_a", "choice_b", "choice_c", "choice_d", "correct_letter", "explanation"}
		query := database.BuildMultiRowInsert("questions", columns, len(questions))

		var args []interface{}
		for _, q := range questions {
			rec := NewQuestionRecord(id, q)
			args = append(args, rec.BankID, rec.Number, rec.Text, rec.ChoiceA, rec.ChoiceB, rec.ChoiceC, rec.ChoiceD, rec.CorrectLetter, rec.Explanation)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
		return nil
	})
}

// Delete removes a bank and its questions.
func (r *DBRepository) Delete(ctx context.Context, bankID int64) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM questions WHERE bank_id = ?", bankID); err != nil {
			return fmt.Errorf("delete questions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM question_banks WHERE id = ?", bankID); err != nil {
			return fmt.Errorf("delete question bank: %w", err)
		}
		return nil
	})
}
