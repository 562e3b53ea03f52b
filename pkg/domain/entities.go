// Package domain defines the farm entities, patch payloads, and value types
// shared by the farmboard stores, façades, and read models.
package domain

import (
	"strings"

	"cloud.google.com/go/civil"
)

// EntityType identifies the type of record held by an entity store.
type EntityType string

// Supported entity type identifiers used in errors, audit entries, and seed buckets.
const (
	// EntityField identifies a field record.
	EntityField EntityType = "field"
	// EntityCrop identifies a crop variety record.
	EntityCrop EntityType = "crop"
	// EntityActivity identifies a field activity record.
	EntityActivity EntityType = "activity"
)

// FieldStatus enumerates the cultivation state of a field.
type FieldStatus string

// Canonical field statuses.
const (
	FieldStatusPlanted   FieldStatus = "planted"
	FieldStatusHarvested FieldStatus = "harvested"
	FieldStatusFallow    FieldStatus = "fallow"
)

// Valid reports whether the status is one of the canonical values.
func (s FieldStatus) Valid() bool {
	switch s {
	case FieldStatusPlanted, FieldStatusHarvested, FieldStatusFallow:
		return true
	}
	return false
}

// Season enumerates crop planting seasons.
type Season string

// Canonical planting seasons.
const (
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
	SeasonWinter Season = "Winter"
)

// Valid reports whether the season is one of the canonical values.
func (s Season) Valid() bool {
	switch s {
	case SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter:
		return true
	}
	return false
}

// CropTypes lists the crop types offered by the field and variety forms.
// The list is a convention; stores accept any crop type text.
var CropTypes = []string{"Corn", "Soybeans", "Wheat", "Alfalfa", "Barley", "Sunflowers", "Oats", "Rice"}

// Field is a cultivated parcel of the farm.
type Field struct {
	ID               int         `json:"id"`
	Name             string      `json:"name"`
	Size             float64     `json:"size"`
	CropType         string      `json:"cropType"`
	Status           FieldStatus `json:"status"`
	PlantingDate     civil.Date  `json:"plantingDate"`
	ExpectedHarvest  *civil.Date `json:"expectedHarvest"`
	SoilType         *string     `json:"soilType"`
	IrrigationMethod *string     `json:"irrigationMethod"`
	LastActivity     civil.Date  `json:"lastActivity"`
	Notes            string      `json:"notes"`
}

// RecordID returns the store identifier.
func (f Field) RecordID() int { return f.ID }

// GrowthStage is one step of a crop variety's growth timeline.
type GrowthStage struct {
	Name        string `json:"name"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
}

// CropVariety describes a seed variety and its growing requirements.
type CropVariety struct {
	ID                   int               `json:"id"`
	VarietyName          string            `json:"varietyName"`
	CropType             string            `json:"cropType"`
	CycleDuration        int               `json:"cycleDuration"`
	PlantingSeason       Season            `json:"plantingSeason"`
	Description          string            `json:"description"`
	PlantingRequirements map[string]string `json:"plantingRequirements"`
	GrowthStages         []GrowthStage     `json:"growthStages"`
	CreatedDate          civil.Date        `json:"createdDate"`
}

// RecordID returns the store identifier.
func (c CropVariety) RecordID() int { return c.ID }

// TotalGrowthDays sums the durations of all growth stages.
func (c CropVariety) TotalGrowthDays() int {
	total := 0
	for _, stage := range c.GrowthStages {
		total += stage.Duration
	}
	return total
}

// Activity records work done on a field. FieldID is a soft reference to
// Field.ID compared as text; deleting a field does not remove its activities.
type Activity struct {
	ID          int        `json:"id"`
	FieldID     string     `json:"fieldId"`
	Type        string     `json:"type"`
	Date        civil.Date `json:"date"`
	Description string     `json:"description"`
}

// RecordID returns the store identifier.
func (a Activity) RecordID() int { return a.ID }

// FarmFigures are the static financial and planning figures supplied with the seed.
type FarmFigures struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	OperatingCosts float64 `json:"operatingCosts"`
	ProfitMargin   float64 `json:"profitMargin"`
	UpcomingTasks  int     `json:"upcomingTasks"`
}

// Metrics is the farm-wide summary combining field aggregates with FarmFigures.
type Metrics struct {
	FarmFigures
	TotalAcres   float64 `json:"totalAcres"`
	ActiveFields int     `json:"activeFields"`
	CropTypes    int     `json:"cropTypes"`
}

// FieldFilter narrows a field listing. Empty members match everything.
type FieldFilter struct {
	Query    string
	Status   FieldStatus
	CropType string
}

// Matches reports whether the field satisfies every populated filter member.
// Query matches case-insensitively against name, crop type, and notes.
func (f FieldFilter) Matches(field Field) bool {
	if f.Status != "" && field.Status != f.Status {
		return false
	}
	if f.CropType != "" && field.CropType != f.CropType {
		return false
	}
	return containsFold(f.Query, field.Name, field.CropType, field.Notes)
}

// CropFilter narrows a crop variety listing. Empty members match everything.
type CropFilter struct {
	Query    string
	Season   Season
	CropType string
}

// Matches reports whether the variety satisfies every populated filter member.
func (f CropFilter) Matches(crop CropVariety) bool {
	if f.Season != "" && crop.PlantingSeason != f.Season {
		return false
	}
	if f.CropType != "" && crop.CropType != f.CropType {
		return false
	}
	return containsFold(f.Query, crop.VarietyName, crop.CropType, crop.Description)
}

func containsFold(query string, haystacks ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), q) {
			return true
		}
	}
	return false
}
