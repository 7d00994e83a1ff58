package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/cli"
)

func prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage user preferences",
		Long:  `Show and change preferences: currency, date format, locale, and app behavior.`,
	}

	cmd.AddCommand(showPrefsCmd())
	cmd.AddCommand(setPrefsCmd())

	return cmd
}

func showPrefsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			prefs, err := store.LoadPreferences(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "currency\t%s\n", prefs.CurrencyCode)
			fmt.Fprintf(w, "date-format\t%s\n", prefs.DateFormat)
			fmt.Fprintf(w, "locale\t%s\n", prefs.Locale)
			fmt.Fprintf(w, "backup-location\t%s\n", prefs.BackupLocation)
			fmt.Fprintf(w, "dark-mode\t%t\n", prefs.DarkMode)
			fmt.Fprintf(w, "auto-save\t%t\n", prefs.AutoSave)
			return nil
		},
	}
}

func setPrefsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a preference",
		Long: `Set one preference key. Keys: currency, date-format, locale,
backup-location, dark-mode, auto-save.

Example:
  tally prefs set currency EUR`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			key, value := args[0], args[1]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			prefs, err := store.LoadPreferences(ctx)
			if err != nil {
				return err
			}

			switch key {
			case "currency":
				prefs.CurrencyCode = strings.ToUpper(value)
			case "date-format":
				prefs.DateFormat = value
			case "locale":
				prefs.Locale = value
			case "backup-location":
				prefs.BackupLocation = value
			case "dark-mode":
				b, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("invalid boolean %q for dark-mode", value)
				}
				prefs.DarkMode = b
			case "auto-save":
				b, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("invalid boolean %q for auto-save", value)
				}
				prefs.AutoSave = b
			default:
				return fmt.Errorf("unknown preference key %q", key)
			}

			if err := store.SavePreferences(ctx, prefs); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Set %s to %s", key, value)))
			return nil
		},
	}
}
