package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"codeberg.org/adcraft/server/internal/tui"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

var (
	instructions string
	csvPath      string
	jsonOutput   bool
)

// generateCmd runs one generation for a local file
var generateCmd = &cobra.Command{
	Use:   "generate FILE",
	Short: "Generate ad copy for an image or video",
	Long: `Uploads FILE and prints five ad copy variants.

Custom instructions need the Pro plan. With --csv the result is also saved
as CSV, which needs a plan with CSV export.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&instructions, "instructions", "i", "", "extra guidance for the copywriter")
	generateCmd.Flags().StringVar(&csvPath, "csv", "", "also save the result as CSV to this path")
	generateCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the raw JSON response")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := newClient(ctx)
	if err != nil {
		return err
	}

	if _, err := client.SelectMedia(ctx, args[0]); err != nil {
		return err
	}

	resp, err := client.Generate(ctx, instructions)
	if err != nil {
		if errors.Is(err, tui.ErrQuotaExceeded) {
			return fmt.Errorf("%w\nrun `adcraft plan pro` to keep generating today", err)
		}

		return err
	}

	out := cmd.OutOrStdout()

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
	} else {
		md := tui.FormatMarkdown(resp.Result)
		if term.IsTerminal(os.Stdout.Fd()) {
			md = tui.RenderMarkdown(md, 100)
		}

		fmt.Fprintln(out, md)
		fmt.Fprintln(out, resp.Usage.Summary())
	}

	if csvPath == "" {
		return nil
	}

	data, err := client.ExportCSV(ctx)
	if err != nil {
		return fmt.Errorf("csv export: %w", err)
	}

	if err := os.WriteFile(csvPath, data, 0o644); err != nil { //nolint:gosec // exported copy is meant to be shared
		return fmt.Errorf("failed to save csv: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", csvPath)

	return nil
}
