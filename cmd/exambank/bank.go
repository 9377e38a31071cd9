package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/exambank/internal/bank"
	"github.com/at-ishikawa/exambank/internal/database"
	"github.com/at-ishikawa/exambank/schemas"
)

func newBankCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "bank",
		Short: "Manage question banks stored in the database",
	}
	command.AddCommand(
		newBankMigrateCommand(),
		newBankImportCommand(),
		newBankExportCommand(),
	)
	return command
}

func newBankMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the question bank tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			applied, err := database.Migrate(cmd.Context(), db, schemas.Migrations)
			if err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}
			for _, file := range applied {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", file)
			}
			return nil
		},
	}
}

func newBankImportCommand() *cobra.Command {
	var name string
	var dryRun bool
	var replace bool

	command := &cobra.Command{
		Use:   "import <document|bank file>",
		Short: "Import a question bank into the database",
		Args:  cobra.ExactArgs(1),
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

			if name == "" {
				name = documentStem(args[0])
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			importer := bank.NewImporter(bank.NewDBRepository(db), cmd.OutOrStdout())
			result, err := importer.Import(cmd.Context(), b, bank.ImportOptions{
				Name:    name,
				Source:  filepath.Base(args[0]),
				DryRun:  dryRun,
				Replace: replace,
			})
			if err != nil {
				return fmt.Errorf("importer.Import() > %w", err)
			}

			if result.DryRun {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Dry run: %d questions would be imported as %q\n", result.Questions, name)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d questions as %q (id %d)\n", result.Questions, name, result.BankID)
			return nil
		},
	}
	command.Flags().StringVar(&name, "name", "", "bank name. Defaults to the document name")
	command.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported without writing to the database")
	command.Flags().BoolVar(&replace, "replace", false, "replace a bank with the same name")
	return command
}

func newBankExportCommand() *cobra.Command {
	var outputPath string
	format := bank.FormatYAML

	command := &cobra.Command{
		Use:   "export <name>",
		Short: "Export a stored question bank to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			b, err := bank.NewImporter(bank.NewDBRepository(db), cmd.OutOrStdout()).Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("importer.Load() > %w", err)
			}

			if outputPath == "" {
				ext := ".yml"
				if format == bank.FormatJSON {
					ext = ".json"
				}
				outputPath = filepath.Join(cfg.Outputs.BankDirectory, args[0]+ext)
			} else if f, ok := bank.FormatOf(outputPath); ok {
				format = f
			}
			if err := bank.WriteFile(outputPath, b, format); err != nil {
				return fmt.Errorf("bank.WriteFile() > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d questions to %s\n", b.Len(), outputPath)
			return nil
		},
	}
	command.Flags().StringVarP(&outputPath, "output", "o", "", "output file. Defaults to <bank_directory>/<name>.yml")
	command.Flags().Var(&format, "format", "output format, yaml or json")
	return command
}
