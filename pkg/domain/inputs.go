package domain

import (
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
)

// FieldInput is the create payload for a field. Size is carried as entered
// and parsed by the store.
type FieldInput struct {
	Name             string      `json:"name"`
	Size             string      `json:"size"`
	CropType         string      `json:"cropType"`
	PlantingDate     civil.Date  `json:"plantingDate"`
	ExpectedHarvest  *civil.Date `json:"expectedHarvest,omitempty"`
	SoilType         *string     `json:"soilType,omitempty"`
	IrrigationMethod *string     `json:"irrigationMethod,omitempty"`
	Notes            string      `json:"notes,omitempty"`
}

// CropInput is the create payload for a crop variety. CycleDuration is carried
// as entered and parsed by the store.
type CropInput struct {
	VarietyName          string            `json:"varietyName"`
	CropType             string            `json:"cropType"`
	CycleDuration        string            `json:"cycleDuration"`
	PlantingSeason       Season            `json:"plantingSeason"`
	Description          string            `json:"description,omitempty"`
	PlantingRequirements map[string]string `json:"plantingRequirements,omitempty"`
	GrowthStages         []GrowthStage     `json:"growthStages,omitempty"`
}

// ActivityInput is the create payload for an activity.
type ActivityInput struct {
	FieldID     string     `json:"fieldId"`
	Type        string     `json:"type"`
	Date        civil.Date `json:"date"`
	Description string     `json:"description"`
}

// ParseDecimal reads the leading decimal number of s, ignoring leading
// whitespace and any trailing text. Text without a leading number yields 0.
func ParseDecimal(s string) float64 {
	prefix := numericPrefix(strings.TrimSpace(s), true)
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseWhole reads the leading integer of s the same way ParseDecimal does;
// "120.7" yields 120.
func ParseWhole(s string) int {
	prefix := numericPrefix(strings.TrimSpace(s), false)
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0
	}
	return v
}

func numericPrefix(s string, decimal bool) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if decimal && i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return ""
	}
	if decimal && i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		start := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > start {
			i = j
		}
	}
	return s[:i]
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ValidateFieldInput applies the add-field form rules: a name, a positive
// numeric size, a crop type, and a planting date are required.
func ValidateFieldInput(in FieldInput) error {
	problems := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		problems["name"] = "Field name is required"
	}
	if size, err := strconv.ParseFloat(strings.TrimSpace(in.Size), 64); err != nil || size <= 0 {
		problems["size"] = "Valid size is required"
	}
	if in.CropType == "" {
		problems["cropType"] = "Crop type is required"
	}
	if in.PlantingDate == (civil.Date{}) {
		problems["plantingDate"] = "Planting date is required"
	}
	if len(problems) > 0 {
		return ValidationError{Entity: EntityField, Problems: problems}
	}
	return nil
}

// ValidateCropInput applies the add-variety form rules.
func ValidateCropInput(in CropInput) error {
	problems := map[string]string{}
	if strings.TrimSpace(in.VarietyName) == "" {
		problems["varietyName"] = "Variety name is required"
	}
	if in.CropType == "" {
		problems["cropType"] = "Crop type is required"
	}
	if n, err := strconv.Atoi(strings.TrimSpace(in.CycleDuration)); err != nil || n <= 0 {
		problems["cycleDuration"] = "Valid cycle duration is required"
	}
	if !in.PlantingSeason.Valid() {
		problems["plantingSeason"] = "Planting season is required"
	}
	if len(problems) > 0 {
		return ValidationError{Entity: EntityCrop, Problems: problems}
	}
	return nil
}

// ValidateActivityInput requires a field reference, a type, and a date.
// The field reference is not checked against the field store.
func ValidateActivityInput(in ActivityInput) error {
	problems := map[string]string{}
	if strings.TrimSpace(in.FieldID) == "" {
		problems["fieldId"] = "Field is required"
	}
	if strings.TrimSpace(in.Type) == "" {
		problems["type"] = "Activity type is required"
	}
	if in.Date == (civil.Date{}) {
		problems["date"] = "Date is required"
	}
	if len(problems) > 0 {
		return ValidationError{Entity: EntityActivity, Problems: problems}
	}
	return nil
}
