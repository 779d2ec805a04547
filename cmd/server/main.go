// Package main is the entry point for the treasure-realm server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/treasure-realm/cmd/server/client"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "treasure-realm",
	Short: "Treasure Realm world server",
	Long:  `Treasure Realm hosts a shared 2D world where players explore buildings, collect treasure and fight enemies.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (defaults apply when empty)")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
