package main

import (
	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"farmboard/internal/dashboard"
	"farmboard/pkg/domain"
)

func newFieldsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fields",
		Aliases: []string{"field"},
		Short:   "List and manage fields",
	}
	cmd.AddCommand(
		newFieldsListCmd(a),
		newFieldsShowCmd(a),
		newFieldsAddCmd(a),
		newFieldsUpdateCmd(a),
		newFieldsDeleteCmd(a),
	)
	return cmd
}

func newFieldsListCmd(a *app) *cobra.Command {
	var filter domain.FieldFilter
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fields, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter.Status = domain.FieldStatus(status)
			if filter == (domain.FieldFilter{}) {
				fields, err := a.svc.Fields().GetAll(cmd.Context())
				if err != nil {
					return err
				}
				return a.print(fields)
			}
			fields, err := a.svc.Fields().Search(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.print(fields)
		},
	}
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "match name, crop type, or notes")
	cmd.Flags().StringVar(&status, "status", "", "planted, harvested, or fallow")
	cmd.Flags().StringVar(&filter.CropType, "crop-type", "", "exact crop type")
	return cmd
}

func newFieldsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a field with its activities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			detail, err := dashboard.LoadFieldDetail(cmd.Context(), a.svc, id)
			if err != nil {
				return err
			}
			return a.print(detail)
		},
	}
}

func newFieldsAddCmd(a *app) *cobra.Command {
	var in domain.FieldInput
	var planted, harvest, soil, irrigation string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a planted field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if planted != "" {
				if in.PlantingDate, err = civil.ParseDate(planted); err != nil {
					return err
				}
			}
			if harvest != "" {
				d, err := civil.ParseDate(harvest)
				if err != nil {
					return err
				}
				in.ExpectedHarvest = &d
			}
			if soil != "" {
				in.SoilType = &soil
			}
			if irrigation != "" {
				in.IrrigationMethod = &irrigation
			}
			if err := domain.ValidateFieldInput(in); err != nil {
				return err
			}
			field, err := a.svc.Fields().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.print(field)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "field name")
	f.StringVar(&in.Size, "size", "", "size in acres")
	f.StringVar(&in.CropType, "crop-type", "", "crop type")
	f.StringVar(&planted, "planted", "", "planting date, YYYY-MM-DD")
	f.StringVar(&harvest, "harvest", "", "expected harvest date, YYYY-MM-DD")
	f.StringVar(&soil, "soil", "", "soil type")
	f.StringVar(&irrigation, "irrigation", "", "irrigation method")
	f.StringVar(&in.Notes, "notes", "", "free-form notes")
	return cmd
}

func newFieldsUpdateCmd(a *app) *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:     "update ID",
		Short:   "Merge a JSON patch into a field",
		Example: `  farmboard fields update 3 --set '{"status":"harvested","expectedHarvest":null}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var patch domain.FieldPatch
			if err := decodePatch(raw, &patch); err != nil {
				return err
			}
			field, err := a.svc.Fields().Update(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return a.print(field)
		},
	}
	cmd.Flags().StringVar(&raw, "set", "", "JSON object of attributes to replace")
	return cmd
}

func newFieldsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			removed, err := a.svc.Fields().Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.print(removed)
		},
	}
}
