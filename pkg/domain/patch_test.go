package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
)

func sampleField() Field {
	soil := "Loam"
	harvest := civil.Date{Year: 2024, Month: 9, Day: 15}
	return Field{
		ID:              7,
		Name:            "North",
		Size:            45.2,
		CropType:        "Corn",
		Status:          FieldStatusPlanted,
		PlantingDate:    civil.Date{Year: 2024, Month: 4, Day: 1},
		ExpectedHarvest: &harvest,
		SoilType:        &soil,
		LastActivity:    civil.Date{Year: 2024, Month: 4, Day: 2},
		Notes:           "tile drained",
	}
}

func TestFieldPatchChangesOnlySuppliedMembers(t *testing.T) {
	before := sampleField()
	after := sampleField()
	FieldPatch{Status: Some(FieldStatusHarvested)}.Apply(&after)

	want := sampleField()
	want.Status = FieldStatusHarvested
	if diff := cmp.Diff(want, after); diff != "" {
		t.Fatalf("patched field mismatch (-want +got):\n%s", diff)
	}
	if before.Status != FieldStatusPlanted {
		t.Fatalf("source value mutated")
	}
}

func TestFieldPatchFromJSONPresence(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		check   func(t *testing.T, f Field)
	}{
		{
			name:    "absent keys preserved",
			payload: `{"name":"North 40"}`,
			check: func(t *testing.T, f Field) {
				if f.Name != "North 40" {
					t.Fatalf("name not applied: %q", f.Name)
				}
				if f.SoilType == nil || *f.SoilType != "Loam" {
					t.Fatalf("soil type lost: %v", f.SoilType)
				}
				if f.ExpectedHarvest == nil {
					t.Fatalf("expected harvest lost")
				}
			},
		},
		{
			name:    "explicit null clears optional attribute",
			payload: `{"soilType":null,"expectedHarvest":null}`,
			check: func(t *testing.T, f Field) {
				if f.SoilType != nil || f.ExpectedHarvest != nil {
					t.Fatalf("expected nil optionals, got %v %v", f.SoilType, f.ExpectedHarvest)
				}
				if f.Name != "North" {
					t.Fatalf("name changed: %q", f.Name)
				}
			},
		},
		{
			name:    "dates decode from text",
			payload: `{"plantingDate":"2024-05-10","size":12.5}`,
			check: func(t *testing.T, f Field) {
				if f.PlantingDate != (civil.Date{Year: 2024, Month: 5, Day: 10}) {
					t.Fatalf("planting date = %v", f.PlantingDate)
				}
				if f.Size != 12.5 {
					t.Fatalf("size = %v", f.Size)
				}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var patch FieldPatch
			if err := json.Unmarshal([]byte(tc.payload), &patch); err != nil {
				t.Fatalf("decode patch: %v", err)
			}
			f := sampleField()
			patch.Apply(&f)
			tc.check(t, f)
		})
	}
}

func TestPatchRejectsNullForRequiredMembers(t *testing.T) {
	cases := map[string]any{
		`{"name":null}`:           &FieldPatch{},
		`{"status":null}`:         &FieldPatch{},
		`{"size":null}`:           &FieldPatch{},
		`{"plantingDate":null}`:   &FieldPatch{},
		`{"growthStages":null}`:   &CropPatch{},
		`{"plantingSeason":null}`: &CropPatch{},
		`{"fieldId":null}`:        &ActivityPatch{},
	}
	for payload, dst := range cases {
		t.Run(payload, func(t *testing.T) {
			err := json.Unmarshal([]byte(payload), dst)
			if !errors.Is(err, ErrNullNotAllowed) {
				t.Fatalf("expected ErrNullNotAllowed, got %v", err)
			}
		})
	}

	var patch FieldPatch
	if err := json.Unmarshal([]byte(`{"name":null}`), &patch); err == nil {
		t.Fatalf("expected error")
	}
	if patch.Name.Set {
		t.Fatalf("rejected member must stay unset")
	}
	f := sampleField()
	patch.Apply(&f)
	if f.Name != "North" {
		t.Fatalf("name overwritten: %q", f.Name)
	}
}

func TestCropPatchReplacesCollections(t *testing.T) {
	crop := CropVariety{
		ID:                   1,
		VarietyName:          "Pioneer P1234",
		CropType:             "Corn",
		CycleDuration:        110,
		PlantingSeason:       SeasonSpring,
		PlantingRequirements: map[string]string{"soilTemperature": "50F", "spacing": "30in"},
	}
	CropPatch{
		PlantingRequirements: Some(map[string]string{"spacing": "20in"}),
		CycleDuration:        Some(95),
	}.Apply(&crop)

	if crop.CycleDuration != 95 {
		t.Fatalf("cycle duration = %d", crop.CycleDuration)
	}
	if diff := cmp.Diff(map[string]string{"spacing": "20in"}, crop.PlantingRequirements); diff != "" {
		t.Fatalf("requirements mismatch (-want +got):\n%s", diff)
	}
	if crop.VarietyName != "Pioneer P1234" {
		t.Fatalf("variety name changed")
	}
}

func TestActivityPatchApply(t *testing.T) {
	a := Activity{ID: 3, FieldID: "1", Type: "Planting", Date: civil.Date{Year: 2024, Month: 3, Day: 1}}
	ActivityPatch{Description: Some("second pass")}.Apply(&a)
	if a.Description != "second pass" || a.Type != "Planting" || a.FieldID != "1" {
		t.Fatalf("unexpected activity after patch: %+v", a)
	}
}
