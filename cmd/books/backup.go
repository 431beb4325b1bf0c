package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"shopbooks/internal/domain/backup"
	"shopbooks/pkg/logger"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a backup file of the record store",
	Example: `  # Full backup into the configured backup directory
  books backup

  # Stock only, gzip-compressed, explicit path
  books backup --type stock --output stock.json.gz`,
	RunE: runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore [backup-file]",
	Short: "Restore the record store from a backup file",
	Long: `Restore reads a backup document and applies it to the record store.

In merge mode (the default) records whose id already exists are skipped; in
replace mode each collection is cleared first. Document number counters are
bumped past the highest restored number either way.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)

	backupCmd.Flags().String("type", "all", "Backup scope: all, stock, customers, or transactions")
	backupCmd.Flags().StringP("output", "o", "", "Output file path (default: conventional name in the backup directory)")
	backupCmd.Flags().Bool("gzip", false, "Compress the backup with gzip")

	restoreCmd.Flags().String("mode", "merge", "Restore mode: merge or replace")
}

func runBackup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := logger.WithLogger(cmd.Context(), a.log)

	scopeFlag, _ := cmd.Flags().GetString("type")
	output, _ := cmd.Flags().GetString("output")
	gz, _ := cmd.Flags().GetBool("gzip")

	scope := backup.Scope(scopeFlag)
	switch scope {
	case backup.ScopeAll, backup.ScopeStock, backup.ScopeCustomers, backup.ScopeTransactions:
	default:
		return fmt.Errorf("unknown backup type %q", scopeFlag)
	}

	doc, err := a.backup.Snapshot(ctx, scope, progressPrinter())
	if err != nil {
		return err
	}

	if output == "" {
		if err := os.MkdirAll(a.cfg.BackupDir, 0o755); err != nil {
			return fmt.Errorf("create backup dir: %w", err)
		}
		output = filepath.Join(a.cfg.BackupDir, backup.Filename(scope, time.Now()))
		if gz {
			output += ".gz"
		}
	}

	if err := a.backup.WriteFile(ctx, doc, output); err != nil {
		return err
	}
	if err := a.kv.SaveFile(a.cfg.KVFile); err != nil {
		return fmt.Errorf("save kv file: %w", err)
	}

	size, _ := doc.Size()
	fmt.Printf("backup written to %s (%d bytes)\n", output, size)
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := logger.WithLogger(cmd.Context(), a.log)

	modeFlag, _ := cmd.Flags().GetString("mode")
	mode := backup.Mode(modeFlag)
	if mode != backup.ModeMerge && mode != backup.ModeReplace {
		return fmt.Errorf("unknown restore mode %q", modeFlag)
	}

	doc, err := backup.ReadFile(args[0])
	if err != nil {
		return err
	}

	res, err := a.backup.Restore(ctx, doc, mode, progressPrinter())
	if err != nil {
		return err
	}
	if err := a.persist(); err != nil {
		return err
	}

	fmt.Printf("restored %d collections: %d inserted, %d skipped\n",
		res.Collections, res.Inserted, res.Skipped)
	for _, w := range res.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	return nil
}

func progressPrinter() backup.Progress {
	return func(fraction float64, message string) {
		fmt.Printf("\r%3.0f%% %-24s", fraction*100, message)
		if fraction >= 1 {
			fmt.Println()
		}
	}
}
