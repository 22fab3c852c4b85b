package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/adcraft/server/internal/tui"
)

func tokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}

	return filepath.Join(dir, "adcraft", "token"), nil
}

func loadToken() string {
	path, err := tokenPath()
	if err != nil {
		return ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}

func saveToken(value string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(value+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}

// returns a client with a token, requesting and storing one on first use
func newClient(ctx context.Context) (*tui.Client, error) {
	current := token
	if current == "" {
		current = loadToken()
	}

	client := tui.NewClient(endpoint, current)
	if current != "" {
		return client, nil
	}

	issued, err := client.EnsureToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get anonymous token: %w", err)
	}

	if err := saveToken(issued); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	return client, nil
}
