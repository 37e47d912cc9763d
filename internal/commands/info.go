package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtnorm/internal/report"
	"github.com/cleared-dev/stmtnorm/internal/standardize"
)

func newHealthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Report pipeline readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := standardize.NewService(a.cfg)
			if err != nil {
				return err
			}
			return report.WriteJSON(cmd.OutOrStdout(), svc.Health())
		},
	}
}

func newFormatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List recognized date, currency and amount formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := standardize.NewService(a.cfg)
			if err != nil {
				return err
			}
			return report.WriteJSON(cmd.OutOrStdout(), svc.SupportedFormats())
		},
	}
}
