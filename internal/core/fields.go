package core

import (
	"context"

	"farmboard/pkg/domain"
)

// FieldService is the only entry point to the field store.
type FieldService struct {
	svc   *Service
	store *Store[domain.Field]
}

// GetAll returns every field in insertion order.
func (f *FieldService) GetAll(ctx context.Context) ([]domain.Field, error) {
	var out []domain.Field
	err := f.svc.run(ctx, "fields.get_all", domain.EntityField, func() (int, error) {
		out = f.store.List()
		return 0, nil
	})
	return out, err
}

// GetByID returns the field with id or domain.ErrNotFound.
func (f *FieldService) GetByID(ctx context.Context, id int) (domain.Field, error) {
	var out domain.Field
	err := f.svc.run(ctx, "fields.get", domain.EntityField, func() (int, error) {
		var err error
		out, err = f.store.Find(id)
		return id, err
	})
	return out, err
}

// Search returns the fields matching filter in insertion order.
func (f *FieldService) Search(ctx context.Context, filter domain.FieldFilter) ([]domain.Field, error) {
	var out []domain.Field
	err := f.svc.run(ctx, "fields.search", domain.EntityField, func() (int, error) {
		out = f.store.Filter(filter.Matches)
		return 0, nil
	})
	return out, err
}

// Create appends a new planted field. Size text is parsed leniently; optional
// attributes left nil stay nil and lastActivity is today.
func (f *FieldService) Create(ctx context.Context, in domain.FieldInput) (domain.Field, error) {
	var out domain.Field
	err := f.svc.run(ctx, "fields.create", domain.EntityField, func() (int, error) {
		var err error
		out, err = f.store.Insert(func(id int) domain.Field {
			return domain.Field{
				ID:               id,
				Name:             in.Name,
				Size:             domain.ParseDecimal(in.Size),
				CropType:         in.CropType,
				Status:           domain.FieldStatusPlanted,
				PlantingDate:     in.PlantingDate,
				ExpectedHarvest:  in.ExpectedHarvest,
				SoilType:         in.SoilType,
				IrrigationMethod: in.IrrigationMethod,
				LastActivity:     f.svc.today(),
				Notes:            in.Notes,
			}
		})
		return out.ID, err
	})
	return out, err
}

// Update shallow-merges patch onto the field with id.
func (f *FieldService) Update(ctx context.Context, id int, patch domain.FieldPatch) (domain.Field, error) {
	var out domain.Field
	err := f.svc.run(ctx, "fields.update", domain.EntityField, func() (int, error) {
		var err error
		out, err = f.store.Update(id, patch.Apply)
		return id, err
	})
	return out, err
}

// Delete removes the field with id and returns it. Activities referencing
// the field are left in place.
func (f *FieldService) Delete(ctx context.Context, id int) (domain.Field, error) {
	var out domain.Field
	err := f.svc.run(ctx, "fields.delete", domain.EntityField, func() (int, error) {
		var err error
		out, err = f.store.Remove(id)
		return id, err
	})
	return out, err
}
