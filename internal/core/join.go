package core

import "farmboard/pkg/domain"

// FieldCountForCropType counts the fields whose crop type equals cropType exactly.
func FieldCountForCropType(fields []domain.Field, cropType string) int {
	n := 0
	for _, f := range fields {
		if f.CropType == cropType {
			n++
		}
	}
	return n
}

// AssociatedFields filters fields to those planted with the crop's type.
// The match is on crop type, not variety, so every variety of a type shares
// the same fields.
func AssociatedFields(fields []domain.Field, crop domain.CropVariety) []domain.Field {
	out := make([]domain.Field, 0)
	for _, f := range fields {
		if f.CropType == crop.CropType {
			out = append(out, f)
		}
	}
	return out
}
