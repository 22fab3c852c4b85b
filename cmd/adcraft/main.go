package main

import (
	"fmt"
	"os"

	"codeberg.org/adcraft/server/internal/tui"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	endpoint string
	token    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "adcraft",
	Short: "Generate ad copy for image and video creatives",
	Long: `adcraft talks to an adcraft server and turns a creative into five
ad copy variants, one per persuasion tone.

Without a --token the first run requests an anonymous one and keeps it in
the user config directory so the daily allowance follows you between runs.`,
	SilenceUsage: true,
}

func init() {
	_ = godotenv.Load() //nolint:errcheck // .env is optional

	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", envOr("ADCRAFT_API_ENDPOINT", tui.DefaultEndpoint), "API endpoint")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("ADCRAFT_TOKEN"), "bearer token (default: stored anonymous token)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(tuiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}

	return fallback
}
