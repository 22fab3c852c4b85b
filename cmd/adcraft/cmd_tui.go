package main

import (
	"errors"
	"fmt"
	"os"

	"codeberg.org/adcraft/server/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

// tuiCmd starts the interactive terminal UI
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive terminal UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !term.IsTerminal(os.Stdin.Fd()) || !term.IsTerminal(os.Stdout.Fd()) {
			return errors.New("tui needs an interactive terminal, use `adcraft generate` instead")
		}

		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}

		p := tea.NewProgram(tui.NewApp(client, cwd), tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running adcraft: %w", err)
		}

		return nil
	},
}
