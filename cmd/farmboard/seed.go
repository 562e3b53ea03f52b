package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"farmboard/internal/seed"
)

func newSeedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Inspect and copy seed datasets",
	}
	cmd.AddCommand(newSeedExportCmd(a))
	return cmd
}

func newSeedExportCmd(a *app) *cobra.Command {
	var driver string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the session dataset, or copy it to another seed backend",
		Example: `  farmboard seed export > farm.json
  farmboard seed export --to sqlite
  FARMBOARD_BLOB_DRIVER=s3 farmboard seed export --to blob`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds := a.svc.Export()
			if driver == "" {
				return a.print(ds)
			}
			target := a.cfg.SeedSource()
			target.Driver = seed.Driver(driver)
			w, err := seed.OpenWriter(cmd.Context(), target)
			if err != nil {
				return err
			}
			defer func() { _ = w.Close() }()
			if err := w.Write(cmd.Context(), ds); err != nil {
				return fmt.Errorf("export to %s: %w", w.Name(), err)
			}
			a.logger.Info("seed exported", zap.String("target", w.Name()),
				zap.Int("fields", len(ds.Fields)), zap.Int("crops", len(ds.Crops)), zap.Int("activities", len(ds.Activities)))
			return a.print(map[string]any{
				"target":     w.Name(),
				"fields":     len(ds.Fields),
				"crops":      len(ds.Crops),
				"activities": len(ds.Activities),
			})
		},
	}
	cmd.Flags().StringVar(&driver, "to", "", "target backend: blob, sqlite, or postgres")
	return cmd
}
