package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"farmboard/internal/blob"
	"farmboard/internal/report"
)

func newReportCmd(a *app) *cobra.Command {
	var out string
	var publish bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the session as an XLSX workbook",
		Long:  "report writes the overview, fields, crops, and activities as sheets of one workbook, either to a local file or to the configured blob store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (out == "") == !publish {
				return errors.New("exactly one of --out or --publish is required")
			}
			ctx := cmd.Context()
			data, err := report.Collect(ctx, a.svc, a.now())
			if err != nil {
				return err
			}
			if out != "" {
				if err := report.Save(out, data); err != nil {
					return err
				}
				a.logger.Info("report saved", zap.String("path", out))
				return a.print(map[string]string{"path": out})
			}
			store, err := blob.Open(ctx, a.cfg.BlobStore())
			if err != nil {
				return err
			}
			info, err := report.Publish(ctx, store, a.cfg.Report.Prefix, data)
			if err != nil {
				return err
			}
			a.logger.Info("report published", zap.String("driver", string(store.Driver())), zap.String("key", info.Key))
			return a.print(info)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the workbook to this path")
	cmd.Flags().BoolVar(&publish, "publish", false, "upload the workbook to the configured blob store")
	return cmd
}
