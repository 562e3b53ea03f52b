package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"farmboard/internal/dashboard"
	"farmboard/pkg/domain"
)

func newCropsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "crops",
		Aliases: []string{"crop"},
		Short:   "List and manage crop varieties",
	}
	cmd.AddCommand(
		newCropsListCmd(a),
		newCropsShowCmd(a),
		newCropsAddCmd(a),
		newCropsUpdateCmd(a),
		newCropsDeleteCmd(a),
	)
	return cmd
}

func newCropsListCmd(a *app) *cobra.Command {
	var filter domain.CropFilter
	var season string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List crop varieties with their planted field counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter.Season = domain.Season(season)
			rows, err := dashboard.LoadCropSummaries(cmd.Context(), a.svc, filter)
			if err != nil {
				return err
			}
			return a.print(rows)
		},
	}
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "match variety name, crop type, or description")
	cmd.Flags().StringVar(&season, "season", "", "Spring, Summer, Fall, or Winter")
	cmd.Flags().StringVar(&filter.CropType, "crop-type", "", "exact crop type")
	return cmd
}

func newCropsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a crop variety with the fields growing its crop type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			detail, err := dashboard.LoadCropDetail(cmd.Context(), a.svc, id)
			if err != nil {
				return err
			}
			return a.print(detail)
		},
	}
}

func newCropsAddCmd(a *app) *cobra.Command {
	var in domain.CropInput
	var season string
	var cycle int
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a crop variety",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.PlantingSeason = domain.Season(season)
			if cmd.Flags().Changed("cycle") {
				in.CycleDuration = strconv.Itoa(cycle)
			}
			if err := domain.ValidateCropInput(in); err != nil {
				return err
			}
			crop, err := a.svc.Crops().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.print(crop)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.VarietyName, "variety", "", "variety name")
	f.StringVar(&in.CropType, "crop-type", "", "crop type")
	f.IntVar(&cycle, "cycle", 0, "cycle duration in days")
	f.StringVar(&season, "season", "", "Spring, Summer, Fall, or Winter")
	f.StringVar(&in.Description, "description", "", "description")
	f.StringToStringVar(&in.PlantingRequirements, "requirement", nil, "planting requirement as key=value, repeatable")
	return cmd
}

func newCropsUpdateCmd(a *app) *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:     "update ID",
		Short:   "Merge a JSON patch into a crop variety",
		Example: `  farmboard crops update 2 --set '{"cycleDuration":120}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var patch domain.CropPatch
			if err := decodePatch(raw, &patch); err != nil {
				return err
			}
			crop, err := a.svc.Crops().Update(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return a.print(crop)
		},
	}
	cmd.Flags().StringVar(&raw, "set", "", "JSON object of attributes to replace")
	return cmd
}

func newCropsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a crop variety",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			removed, err := a.svc.Crops().Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.print(removed)
		},
	}
}
