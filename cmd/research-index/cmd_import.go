package main

import (
	"context"
	"fmt"
	"os"

	"legalcase_app_go/services"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var importFlags struct {
	limit  int
	dryRun bool
}

var importCmd = &cobra.Command{
	Use:   "import <file.yaml|file.json|file.xlsx>",
	Short: "Index research documents from a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var templateCmd = &cobra.Command{
	Use:   "template <out.xlsx>",
	Short: "Write an empty research import workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplate,
}

func init() {
	f := importCmd.Flags()
	f.IntVar(&importFlags.limit, "limit", 0, "Maximum documents to index (0 = all)")
	f.BoolVar(&importFlags.dryRun, "dry-run", false, "Validate the file without indexing")
}

func runImport(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer file.Close()

	docs, result, err := services.ParseResearchFile(args[0], file)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !importFlags.dryRun {
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		if err := services.ImportResearch(ctx, store.Research(), docs, importFlags.limit, result); err != nil {
			printImportResult(cmd, result)
			return fmt.Errorf("import stopped: %w", err)
		}
	} else {
		fmt.Fprintf(out, "Dry run: %d valid documents in %s\n", len(docs), args[0])
	}

	printImportResult(cmd, result)
	return nil
}

func printImportResult(cmd *cobra.Command, result *services.ImportResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processed: %d\n", result.TotalProcessed)
	color.New(color.FgGreen).Fprintf(out, "Indexed:   %d\n", result.SuccessCount)
	if result.SkippedOverLimitCount > 0 {
		color.New(color.FgYellow).Fprintf(out, "Skipped:   %d (over limit)\n", result.SkippedOverLimitCount)
	}
	if result.FailedCount > 0 {
		color.New(color.FgRed).Fprintf(out, "Failed:    %d\n", result.FailedCount)
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  - %s\n", e)
		}
	}
}

func runTemplate(cmd *cobra.Command, args []string) error {
	buf, err := services.GenerateResearchTemplate()
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Template written to %s\n", args[0])
	return nil
}
