package main

import (
	"fmt"
	"strings"

	"codeberg.org/adcraft/server/api/rest/usage"
	"github.com/spf13/cobra"
)

// usageCmd shows today's usage and plan
var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show plan and generations left today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		resp, err := client.Usage(cmd.Context())
		if err != nil {
			return err
		}

		printUsage(cmd, resp)

		return nil
	},
}

// planCmd switches the plan
var planCmd = &cobra.Command{
	Use:       "plan NAME",
	Short:     "Change plan (free, pro, agency)",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"free", "pro", "agency"},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		resp, err := client.SetPlan(cmd.Context(), strings.ToLower(args[0]))
		if err != nil {
			return err
		}

		printUsage(cmd, resp)

		return nil
	},
}

func printUsage(cmd *cobra.Command, resp *usage.UsageResponse) {
	out := cmd.OutOrStdout()
	s := resp.Usage

	fmt.Fprintf(out, "plan:       %s\n", s.Plan)
	fmt.Fprintf(out, "today:      %s\n", resp.Message)
	fmt.Fprintf(out, "features:   instructions=%t video=%t csv=%t history=%t\n",
		s.Features.CustomInstructions, s.Features.VideoInput, s.Features.CSVExport, s.Features.History)

	for _, p := range resp.UpgradeOptions {
		badge := ""
		if p.Badge != "" {
			badge = " (" + p.Badge + ")"
		}

		fmt.Fprintf(out, "upgrade:    %s $%d/mo%s\n", p.Name, p.PriceMonthlyUSD, badge)
	}
}
