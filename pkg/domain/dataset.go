package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidDataset is wrapped by Dataset.Validate failures.
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset is the full set of seed collections a session starts from.
type Dataset struct {
	Fields     []Field       `json:"fields"`
	Crops      []CropVariety `json:"crops"`
	Activities []Activity    `json:"activities"`
	Figures    FarmFigures   `json:"farmMetrics"`
}

// Validate checks that every collection carries positive, unique ids.
func (d Dataset) Validate() error {
	if err := validateIDs(EntityField, d.Fields); err != nil {
		return err
	}
	if err := validateIDs(EntityCrop, d.Crops); err != nil {
		return err
	}
	return validateIDs(EntityActivity, d.Activities)
}

func validateIDs[T interface{ RecordID() int }](entity EntityType, records []T) error {
	seen := make(map[int]struct{}, len(records))
	for i, r := range records {
		id := r.RecordID()
		if id <= 0 {
			return fmt.Errorf("%w: %s at index %d has non-positive id %d", ErrInvalidDataset, entity, i, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate %s id %d", ErrInvalidDataset, entity, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
