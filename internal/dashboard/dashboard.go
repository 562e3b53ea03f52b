// Package dashboard assembles the read models rendered by the farm dashboard
// pages from independently fetched façade snapshots.
package dashboard

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"farmboard/internal/core"
	"farmboard/pkg/domain"
)

// Overview is the landing page: farm metrics and the latest activities.
type Overview struct {
	Metrics          domain.Metrics    `json:"metrics"`
	RecentActivities []domain.Activity `json:"recentActivities"`
}

// CropSummary is a variety row on the crops page.
type CropSummary struct {
	Crop          domain.CropVariety `json:"crop"`
	PlantedFields int                `json:"plantedFields"`
}

// FieldDetail is a field with the activities recorded against it.
type FieldDetail struct {
	Field      domain.Field      `json:"field"`
	Activities []domain.Activity `json:"activities"`
}

// CropDetail is a variety with the fields currently planted with its type.
type CropDetail struct {
	Crop             domain.CropVariety `json:"crop"`
	AssociatedFields []domain.Field     `json:"associatedFields"`
	PlantedFields    int                `json:"plantedFields"`
	TotalGrowthDays  int                `json:"totalGrowthDays"`
}

// LoadOverview fetches metrics and the most recent activities concurrently.
func LoadOverview(ctx context.Context, svc *core.Service) (Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := svc.Metrics(gctx)
		if err != nil {
			return fmt.Errorf("load metrics: %w", err)
		}
		out.Metrics = m
		return nil
	})
	g.Go(func() error {
		acts, err := svc.Activities().GetRecentActivities(gctx, core.DefaultRecentActivities)
		if err != nil {
			return fmt.Errorf("load recent activities: %w", err)
		}
		out.RecentActivities = acts
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

// LoadCropSummaries lists every variety with the number of fields planted
// with its crop type.
func LoadCropSummaries(ctx context.Context, svc *core.Service, filter domain.CropFilter) ([]CropSummary, error) {
	var (
		crops  []domain.CropVariety
		fields []domain.Field
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		crops, err = svc.Crops().Search(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		fields, err = svc.Fields().GetAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make([]CropSummary, 0, len(crops))
	for _, c := range crops {
		out = append(out, CropSummary{Crop: c, PlantedFields: core.FieldCountForCropType(fields, c.CropType)})
	}
	return out, nil
}

// LoadFieldDetail returns the field with id and its activities in store order.
func LoadFieldDetail(ctx context.Context, svc *core.Service, id int) (FieldDetail, error) {
	var out FieldDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Field, err = svc.Fields().GetByID(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		out.Activities, err = svc.Activities().GetByFieldID(gctx, strconv.Itoa(id))
		return err
	})
	if err := g.Wait(); err != nil {
		return FieldDetail{}, err
	}
	return out, nil
}

// LoadCropDetail returns the variety with id joined against the field store.
func LoadCropDetail(ctx context.Context, svc *core.Service, id int) (CropDetail, error) {
	crop, err := svc.Crops().GetByID(ctx, id)
	if err != nil {
		return CropDetail{}, err
	}
	fields, err := svc.Fields().GetAll(ctx)
	if err != nil {
		return CropDetail{}, err
	}
	associated := core.AssociatedFields(fields, crop)
	return CropDetail{
		Crop:             crop,
		AssociatedFields: associated,
		PlantedFields:    len(associated),
		TotalGrowthDays:  crop.TotalGrowthDays(),
	}, nil
}
