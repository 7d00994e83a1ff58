package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/cli"
	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/ofx"
)

func importOFXCmd() *cobra.Command {
	var (
		category string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "import-ofx <file>...",
		Short: "Import transactions from OFX/QFX bank statements",
		Long: `Parse OFX/QFX statement files and save their transactions. Rows already
imported (matched on the statement's FITID) are skipped, so re-importing
the same file is safe. Glob patterns are expanded.

Examples:
  tally import-ofx statement.qfx
  tally import-ofx ~/Downloads/*.ofx --category Uncategorized --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			files, err := expandGlobs(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no files matched")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if category == "" {
				category = model.UncategorizedName
			}
			cat, err := resolveCategory(ctx, store, category)
			if err != nil {
				return err
			}
			parser := ofx.NewParser(cat.ID)

			var parsed []model.Transaction
			bar := progressbar.NewOptions(len(files),
				progressbar.OptionSetDescription("Parsing statements"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)
			for _, file := range files {
				txns, err := parseOFXFile(parser, file)
				if err != nil {
					return fmt.Errorf("failed to parse %s: %w", file, err)
				}
				parsed = append(parsed, txns...)
				_ = bar.Add(1)
			}

			if dryRun {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions parsed from %d file(s), nothing saved", len(parsed), len(files))))
				for _, t := range parsed {
					fmt.Printf("  %s  %-7s  %10s  %s\n",
						t.Date.Format("2006-01-02"), t.Type, t.Amount.StringFixed(2), t.Description)
				}
				return nil
			}

			saved, err := store.SaveTransactions(ctx, parsed)
			if err != nil {
				return err
			}

			skipped := len(parsed) - saved
			msg := fmt.Sprintf("Imported %d transactions from %d file(s)", saved, len(files))
			if skipped > 0 {
				msg += fmt.Sprintf(" (%d duplicates skipped)", skipped)
			}
			fmt.Println(cli.FormatSuccess(msg))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category for imported rows (default: Uncategorized)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and print without saving")

	return cmd
}

// expandGlobs expands each argument as a glob pattern. Arguments that match
// nothing are kept verbatim so that a missing file fails loudly at open time.
func expandGlobs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		arg = config.ExpandPath(arg)
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			files = append(files, arg)
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}

func parseOFXFile(parser *ofx.Parser, path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.ParseFile(f)
}
