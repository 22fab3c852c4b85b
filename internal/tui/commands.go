package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/adcraft/server/internal/export"
	"codeberg.org/adcraft/server/internal/usage"
	tea "github.com/charmbracelet/bubbletea"
)

func loadUsage(c *Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if _, err := c.EnsureToken(ctx); err != nil {
			return errMsg{err: err}
		}

		resp, err := c.Usage(ctx)
		if err != nil {
			return errMsg{err: err}
		}

		return usageMsg{resp: resp}
	}
}

// uploads path when it changed, then generates for the current selection
func runGeneration(c *Client, path string, upload bool, instructions string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if _, err := c.EnsureToken(ctx); err != nil {
			return errMsg{err: err}
		}

		msg := generatedMsg{path: path}

		if upload {
			selected, err := c.SelectMedia(ctx, path)
			if err != nil {
				return errMsg{err: err}
			}

			msg.media = selected
		}

		resp, err := c.Generate(ctx, instructions)
		if err != nil {
			if msg.media != nil {
				return mediaSelectedMsg{path: path, media: msg.media, err: err}
			}

			return errMsg{err: err}
		}

		msg.resp = resp

		return msg
	}
}

func changePlan(c *Client, plan usage.Plan) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		resp, err := c.SetPlan(ctx, plan.String())
		if err != nil {
			return errMsg{err: err}
		}

		return usageMsg{resp: resp}
	}
}

func exportCSV(c *Client, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		data, err := c.ExportCSV(ctx)
		if err != nil {
			return errMsg{err: err}
		}

		path := filepath.Join(dir, export.CSVFilename)
		if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // exported copy is meant to be shared
			return errMsg{err: fmt.Errorf("failed to save csv: %w", err)}
		}

		return exportedMsg{path: path}
	}
}

func clearMedia(c *Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if c.Token() == "" {
			return clearedMsg{}
		}

		if err := c.ClearMedia(ctx); err != nil {
			return errMsg{err: err}
		}

		return clearedMsg{}
	}
}

func describeError(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch {
	case errors.Is(err, ErrQuotaExceeded):
		return "Daily free generations used up. Press esc then p to upgrade."
	case errors.Is(err, ErrFeatureLocked):
		return fmt.Sprintf("%s is not included in your plan. Press esc then p to upgrade.", apiErr.Details)
	case apiErr.Retryable:
		return apiErr.Message + " (retry with enter)"
	default:
		return apiErr.Message
	}
}
