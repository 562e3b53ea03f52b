package core

import (
	"context"

	"farmboard/pkg/domain"
)

// CropService is the only entry point to the crop variety store.
type CropService struct {
	svc   *Service
	store *Store[domain.CropVariety]
}

// GetAll returns every variety in insertion order.
func (c *CropService) GetAll(ctx context.Context) ([]domain.CropVariety, error) {
	var out []domain.CropVariety
	err := c.svc.run(ctx, "crops.get_all", domain.EntityCrop, func() (int, error) {
		out = c.store.List()
		return 0, nil
	})
	return out, err
}

// GetByID returns the variety with id or domain.ErrNotFound.
func (c *CropService) GetByID(ctx context.Context, id int) (domain.CropVariety, error) {
	var out domain.CropVariety
	err := c.svc.run(ctx, "crops.get", domain.EntityCrop, func() (int, error) {
		var err error
		out, err = c.store.Find(id)
		return id, err
	})
	return out, err
}

// Search returns the varieties matching filter in insertion order.
func (c *CropService) Search(ctx context.Context, filter domain.CropFilter) ([]domain.CropVariety, error) {
	var out []domain.CropVariety
	err := c.svc.run(ctx, "crops.search", domain.EntityCrop, func() (int, error) {
		out = c.store.Filter(filter.Matches)
		return 0, nil
	})
	return out, err
}

// Create appends a new variety. CycleDuration text is parsed as a whole
// number of days; requirements default to an empty map.
func (c *CropService) Create(ctx context.Context, in domain.CropInput) (domain.CropVariety, error) {
	var out domain.CropVariety
	err := c.svc.run(ctx, "crops.create", domain.EntityCrop, func() (int, error) {
		reqs := in.PlantingRequirements
		if reqs == nil {
			reqs = map[string]string{}
		}
		var err error
		out, err = c.store.Insert(func(id int) domain.CropVariety {
			return domain.CropVariety{
				ID:                   id,
				VarietyName:          in.VarietyName,
				CropType:             in.CropType,
				CycleDuration:        domain.ParseWhole(in.CycleDuration),
				PlantingSeason:       in.PlantingSeason,
				Description:          in.Description,
				PlantingRequirements: reqs,
				GrowthStages:         in.GrowthStages,
				CreatedDate:          c.svc.today(),
			}
		})
		return out.ID, err
	})
	return out, err
}

// Update shallow-merges patch onto the variety with id.
func (c *CropService) Update(ctx context.Context, id int, patch domain.CropPatch) (domain.CropVariety, error) {
	var out domain.CropVariety
	err := c.svc.run(ctx, "crops.update", domain.EntityCrop, func() (int, error) {
		var err error
		out, err = c.store.Update(id, patch.Apply)
		return id, err
	})
	return out, err
}

// Delete removes the variety with id and returns it.
func (c *CropService) Delete(ctx context.Context, id int) (domain.CropVariety, error) {
	var out domain.CropVariety
	err := c.svc.run(ctx, "crops.delete", domain.EntityCrop, func() (int, error) {
		var err error
		out, err = c.store.Remove(id)
		return id, err
	})
	return out, err
}

// AssociatedFields returns the fields planted with the crop type of the
// variety with id, joined against the current field snapshot.
func (c *CropService) AssociatedFields(ctx context.Context, id int) ([]domain.Field, error) {
	var out []domain.Field
	err := c.svc.run(ctx, "crops.associated_fields", domain.EntityCrop, func() (int, error) {
		crop, err := c.store.Find(id)
		if err != nil {
			return id, err
		}
		out = AssociatedFields(c.svc.fields.List(), crop)
		return id, nil
	})
	return out, err
}
