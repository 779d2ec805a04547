package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/treasure-realm/internal/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect action journals",
}

var journalDumpCmd = &cobra.Command{
	Use:   "dump <file.jsonl.zst>...",
	Short: "Decompress journal files and print one JSON entry per line",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runJournalDump,
}

var failedOnly bool

func init() {
	journalDumpCmd.Flags().BoolVar(&failedOnly, "failed", false, "only print rejected actions")
	journalCmd.AddCommand(journalDumpCmd)
}

func runJournalDump(_ *cobra.Command, args []string) error {
	enc := json.NewEncoder(os.Stdout)
	for _, path := range args {
		entries, err := journal.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		for _, entry := range entries {
			if failedOnly && entry.Success {
				continue
			}
			if err := enc.Encode(entry); err != nil {
				return err
			}
		}
	}
	return nil
}
