package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/exambank/internal/cli"
	"github.com/at-ishikawa/exambank/internal/exam"
)

func newGradeCommand() *cobra.Command {
	var answersPath string
	var startQuestion int
	var questionCount int
	var reportPath string
	var generatePDF bool

	command := &cobra.Command{
		Use:   "grade <document|bank file>",
		Short: "Grade answers written in a file",
		Long: `Grade the answers in a YAML file against the answer key of an exam document.
The answers file maps question numbers to letters, e.g.

  1: A
  2: c
  10: D`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			answers, err := readAnswers(answersPath)
			if err != nil {
				return err
			}

			b, rejections, err := loadBank(cmd.Context(), cfg, args[0])
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), b, rejections)
			if b.Len() == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No questions were found in this document.")
				return nil
			}

			questions := b.Questions
			if cmd.Flags().Changed("start") || cmd.Flags().Changed("count") {
				if questionCount == 0 {
					questionCount = b.Len()
				}
				questions = b.Select(startQuestion, questionCount)
			}
			if len(questions) == 0 {
				return exam.ErrEmptySelection
			}

			result := exam.Score(questions, answers)
			cli.NewInteractiveQuizCLI(cmd.InOrStdin(), cmd.OutOrStdout()).DisplayResults(result)

			if reportPath == "" && !generatePDF {
				return nil
			}
			return writeReport(cmd.OutOrStdout(), cfg, args[0], reportPath, generatePDF, result)
		},
	}
	command.Flags().StringVarP(&answersPath, "answers", "a", "", "YAML file mapping question numbers to letters")
	command.Flags().IntVar(&startQuestion, "start", 1, "first question number to grade")
	command.Flags().IntVar(&questionCount, "count", 0, "number of questions to grade. Defaults to the rest of the bank")
	command.Flags().StringVar(&reportPath, "report", "", "save a review to this file")
	command.Flags().BoolVar(&generatePDF, "pdf", false, "also save the review as PDF")
	_ = command.MarkFlagRequired("answers")
	return command
}

// readAnswers reads the answers file. Blank letters are kept as unanswered.
func readAnswers(path string) (map[int]exam.Letter, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var raw map[int]string
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
	}

	answers := make(map[int]exam.Letter, len(raw))
	var errs []error
	for number, value := range raw {
		if value == "" {
			continue
		}
		letter, err := exam.ParseLetter(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("question %d: %w", number, err))
			continue
		}
		answers[number] = letter
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid answers in %s: %w", path, errors.Join(errs...))
	}
	return answers, nil
}
