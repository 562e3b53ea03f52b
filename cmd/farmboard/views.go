package main

import (
	"github.com/spf13/cobra"

	"farmboard/internal/dashboard"
)

func newOverviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show farm metrics and the most recent activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ov, err := dashboard.LoadOverview(cmd.Context(), a.svc)
			if err != nil {
				return err
			}
			return a.print(ov)
		},
	}
}

func newMetricsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show aggregated farm metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.svc.Metrics(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(m)
		},
	}
}
