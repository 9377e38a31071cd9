package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/exambank/internal/bank"
)

func newExtractCommand() *cobra.Command {
	var outputPath string
	var dryRun bool
	format := bank.FormatYAML

	command := &cobra.Command{
		Use:   "extract <document>",
		Short: "Extract a question bank from an exam document",
		Long: `Extract the questions, choices, and answer key of an exam document (.pdf, .txt, or .html)
and save them as a question bank file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			b, rejections, err := loadBank(cmd.Context(), cfg, args[0])
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), b, rejections)
			if dryRun {
				return nil
			}

			if outputPath == "" {
				ext := ".yml"
				if format == bank.FormatJSON {
					ext = ".json"
				}
				outputPath = filepath.Join(cfg.Outputs.BankDirectory, documentStem(args[0])+ext)
			} else if f, ok := bank.FormatOf(outputPath); ok {
				format = f
			}
			if err := bank.WriteFile(outputPath, b, format); err != nil {
				return fmt.Errorf("bank.WriteFile() > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Question bank saved to %s\n", outputPath)
			return nil
		},
	}
	command.Flags().StringVarP(&outputPath, "output", "o", "", "output file. Defaults to <bank_directory>/<document name>.yml")
	command.Flags().Var(&format, "format", "output format, yaml or json. Ignored when --output has a known extension")
	command.Flags().BoolVar(&dryRun, "dry-run", false, "print the summary without saving the bank")
	return command
}
