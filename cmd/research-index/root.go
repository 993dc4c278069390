package main

import (
	"context"
	"fmt"
	"os"

	"legalcase_app_go/config"
	"legalcase_app_go/logging"
	"legalcase_app_go/services/docstore"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "research-index",
	Short: "Maintain the legal research index",
	Long:  "research-index imports, searches and inspects the legal research\ndocuments stored in the configured document store.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore connects to the document store named by the environment
func openStore(ctx context.Context) (docstore.Store, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	if cfg.DocumentStore == config.DocumentStoreMemory {
		color.Yellow("warning: DOCUMENT_STORE=memory, changes are lost when this command exits")
	}
	return docstore.Open(ctx, cfg)
}
