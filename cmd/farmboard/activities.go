package main

import (
	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"farmboard/internal/core"
	"farmboard/pkg/domain"
)

func newActivitiesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activities",
		Aliases: []string{"activity"},
		Short:   "List and log field activities",
	}
	cmd.AddCommand(
		newActivitiesListCmd(a),
		newActivitiesRecentCmd(a),
		newActivitiesAddCmd(a),
		newActivitiesUpdateCmd(a),
		newActivitiesDeleteCmd(a),
	)
	return cmd
}

func newActivitiesListCmd(a *app) *cobra.Command {
	var fieldID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities, optionally for one field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("field") {
				acts, err := a.svc.Activities().GetByFieldID(cmd.Context(), fieldID)
				if err != nil {
					return err
				}
				return a.print(acts)
			}
			acts, err := a.svc.Activities().GetAll(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(acts)
		},
	}
	cmd.Flags().StringVar(&fieldID, "field", "", "field id")
	return cmd
}

func newActivitiesRecentCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recent activities, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			acts, err := a.svc.Activities().GetRecentActivities(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return a.print(acts)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", core.DefaultRecentActivities, "number of activities")
	return cmd
}

func newActivitiesAddCmd(a *app) *cobra.Command {
	var in domain.ActivityInput
	var date string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log an activity against a field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if date != "" {
				d, err := civil.ParseDate(date)
				if err != nil {
					return err
				}
				in.Date = d
			}
			if err := domain.ValidateActivityInput(in); err != nil {
				return err
			}
			act, err := a.svc.Activities().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.print(act)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.FieldID, "field", "", "field id")
	f.StringVar(&in.Type, "type", "", "activity type, e.g. Irrigation")
	f.StringVar(&date, "date", "", "activity date, YYYY-MM-DD")
	f.StringVar(&in.Description, "description", "", "what was done")
	return cmd
}

func newActivitiesUpdateCmd(a *app) *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Merge a JSON patch into an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var patch domain.ActivityPatch
			if err := decodePatch(raw, &patch); err != nil {
				return err
			}
			act, err := a.svc.Activities().Update(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return a.print(act)
		},
	}
	cmd.Flags().StringVar(&raw, "set", "", "JSON object of attributes to replace")
	return cmd
}

func newActivitiesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			removed, err := a.svc.Activities().Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.print(removed)
		},
	}
}
