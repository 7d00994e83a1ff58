package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/cli"
	"github.com/tallyhq/tally/internal/config"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data to JSON",
		Long: `Write a full snapshot (preferences, categories, transactions, budgets)
as JSON to a file, or to stdout when no file is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if output == "" {
				return store.ExportJSON(ctx, os.Stdout)
			}

			path := config.ExpandPath(output)
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			defer f.Close()

			if err := store.ExportJSON(ctx, f); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported data to %s", path)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import data from a JSON snapshot",
		Long: `Merge a JSON snapshot into the database. Categories are matched by
name, existing transactions and duplicate budgets are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path := config.ExpandPath(args[0])
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			imported, err := store.ImportJSON(ctx, f)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions from %s", imported, path)))
			return nil
		},
	}
}
