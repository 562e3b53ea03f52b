package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"cloud.google.com/go/civil"
)

// ErrNullNotAllowed is returned when a patch sets a required member to null.
var ErrNullNotAllowed = errors.New("null is only allowed for optional members")

// Opt marks a patch member as supplied. Unset members leave the stored value
// alone; a set member overwrites it, including with the zero value or nil.
// When decoded from JSON, any key that is present is set. null is accepted
// only when T is a pointer.
type Opt[T any] struct {
	Value T
	Set   bool
}

// Some returns a set Opt carrying v.
func Some[T any](v T) Opt[T] { return Opt[T]{Value: v, Set: true} }

// UnmarshalJSON marks the member as set. JSON null stores nil for pointer
// members and fails with ErrNullNotAllowed otherwise.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		if typ := reflect.TypeFor[T](); typ.Kind() != reflect.Pointer {
			return fmt.Errorf("%w: got null for %s", ErrNullNotAllowed, typ)
		}
	}
	o.Set = true
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = v
	return nil
}

// MarshalJSON encodes the carried value.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

func (o Opt[T]) applyTo(dst *T) {
	if o.Set {
		*dst = o.Value
	}
}

// FieldPatch is a shallow-merge update for a field. The id is not patchable.
type FieldPatch struct {
	Name             Opt[string]      `json:"name"`
	Size             Opt[float64]     `json:"size"`
	CropType         Opt[string]      `json:"cropType"`
	Status           Opt[FieldStatus] `json:"status"`
	PlantingDate     Opt[civil.Date]  `json:"plantingDate"`
	ExpectedHarvest  Opt[*civil.Date] `json:"expectedHarvest"`
	SoilType         Opt[*string]     `json:"soilType"`
	IrrigationMethod Opt[*string]     `json:"irrigationMethod"`
	LastActivity     Opt[civil.Date]  `json:"lastActivity"`
	Notes            Opt[string]      `json:"notes"`
}

// Apply merges the set members of p onto f.
func (p FieldPatch) Apply(f *Field) {
	p.Name.applyTo(&f.Name)
	p.Size.applyTo(&f.Size)
	p.CropType.applyTo(&f.CropType)
	p.Status.applyTo(&f.Status)
	p.PlantingDate.applyTo(&f.PlantingDate)
	p.ExpectedHarvest.applyTo(&f.ExpectedHarvest)
	p.SoilType.applyTo(&f.SoilType)
	p.IrrigationMethod.applyTo(&f.IrrigationMethod)
	p.LastActivity.applyTo(&f.LastActivity)
	p.Notes.applyTo(&f.Notes)
}

// CropPatch is a shallow-merge update for a crop variety. Map and slice
// members are replaced whole, not merged element by element.
type CropPatch struct {
	VarietyName          Opt[string]            `json:"varietyName"`
	CropType             Opt[string]            `json:"cropType"`
	CycleDuration        Opt[int]               `json:"cycleDuration"`
	PlantingSeason       Opt[Season]            `json:"plantingSeason"`
	Description          Opt[string]            `json:"description"`
	PlantingRequirements Opt[map[string]string] `json:"plantingRequirements"`
	GrowthStages         Opt[[]GrowthStage]     `json:"growthStages"`
}

// Apply merges the set members of p onto c.
func (p CropPatch) Apply(c *CropVariety) {
	p.VarietyName.applyTo(&c.VarietyName)
	p.CropType.applyTo(&c.CropType)
	p.CycleDuration.applyTo(&c.CycleDuration)
	p.PlantingSeason.applyTo(&c.PlantingSeason)
	p.Description.applyTo(&c.Description)
	p.PlantingRequirements.applyTo(&c.PlantingRequirements)
	p.GrowthStages.applyTo(&c.GrowthStages)
}

// ActivityPatch is a shallow-merge update for an activity.
type ActivityPatch struct {
	FieldID     Opt[string]     `json:"fieldId"`
	Type        Opt[string]     `json:"type"`
	Date        Opt[civil.Date] `json:"date"`
	Description Opt[string]     `json:"description"`
}

// Apply merges the set members of p onto a.
func (p ActivityPatch) Apply(a *Activity) {
	p.FieldID.applyTo(&a.FieldID)
	p.Type.applyTo(&a.Type)
	p.Date.applyTo(&a.Date)
	p.Description.applyTo(&a.Description)
}
