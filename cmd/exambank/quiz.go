package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/exambank/internal/cli"
	"github.com/at-ishikawa/exambank/internal/exam"
)

func newQuizCommand() *cobra.Command {
	var startQuestion int
	var questionCount int
	var reportPath string
	var answersPath string
	var generatePDF bool
	var noReport bool

	command := &cobra.Command{
		Use:   "quiz <document|bank file>",
		Short: "Take an interactive quiz on a range of questions",
		Long: `Take an interactive quiz on the questions of an exam document or an extracted question bank.
After the quiz is submitted, a review of the missed questions is saved as Markdown.
From the results screen a new quiz over another range can be started, and another
document can be loaded before a quiz starts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			source := args[0]
			b, rejections, err := loadBank(cmd.Context(), cfg, source)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), b, rejections)

			if !cmd.Flags().Changed("start") {
				startQuestion = cfg.Quiz.StartQuestion
			}
			if !cmd.Flags().Changed("count") {
				questionCount = cfg.Quiz.QuestionCount
			}

			session := exam.NewSession()
			session.Load(b)
			if session.Mode() == exam.ModeConfiguring {
				if err := session.Start(startQuestion, questionCount); err != nil {
					return fmt.Errorf("session.Start() > %w", err)
				}
			}

			load := func(ctx context.Context, path string) (exam.QuestionBank, error) {
				b, rejections, err := loadBank(ctx, cfg, path)
				if err != nil {
					return exam.QuestionBank{}, err
				}
				printSummary(cmd.OutOrStdout(), b, rejections)
				source = path
				return b, nil
			}
			quiz := cli.NewExamQuizCLI(cli.NewInteractiveQuizCLI(cmd.InOrStdin(), cmd.OutOrStdout()), session, load)
			if err := quiz.Run(cmd.Context(), quiz); err != nil {
				return fmt.Errorf("quiz.Run() > %w", err)
			}

			if answersPath != "" && session.Mode() >= exam.ModeAnswering {
				if err := writeAnswers(answersPath, session.Answers()); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Answers saved to %s\n", answersPath)
			}
			if !session.Submitted() || noReport {
				return nil
			}
			return writeReport(cmd.OutOrStdout(), cfg, source, reportPath, generatePDF, session.Score())
		},
	}
	command.Flags().IntVar(&startQuestion, "start", 1, "first question number of the quiz. Defaults to quiz.start_question")
	command.Flags().IntVar(&questionCount, "count", 0, "number of questions in the quiz. Defaults to quiz.question_count")
	command.Flags().StringVar(&reportPath, "report", "", "review file path. Defaults to a file under outputs.report_directory")
	command.Flags().StringVar(&answersPath, "save-answers", "", "save the answers to a file that the grade command reads")
	command.Flags().BoolVar(&generatePDF, "pdf", false, "also save the review as PDF")
	command.Flags().BoolVar(&noReport, "no-report", false, "do not save a review after the quiz")
	return command
}

// writeAnswers saves answers in the "number: letter" format of the grade command.
func writeAnswers(path string, answers map[int]exam.Letter) error {
	content, err := yaml.Marshal(answers)
	if err != nil {
		return fmt.Errorf("yaml.Marshal() > %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll() > %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return nil
}
