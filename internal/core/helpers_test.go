package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"farmboard/pkg/domain"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func strPtr(s string) *string { return &s }

func testDataset() domain.Dataset {
	harvest := date(2025, 9, 20)
	return domain.Dataset{
		Fields: []domain.Field{
			{ID: 1, Name: "North Field", Size: 45.5, CropType: "Corn", Status: domain.FieldStatusPlanted, PlantingDate: date(2025, 4, 15), ExpectedHarvest: &harvest, SoilType: strPtr("Loam"), IrrigationMethod: strPtr("Center Pivot"), LastActivity: date(2025, 3, 1), Notes: "Good drainage"},
			{ID: 2, Name: "South Field", Size: 32.0, CropType: "Soybeans", Status: domain.FieldStatusPlanted, PlantingDate: date(2025, 5, 1), LastActivity: date(2025, 3, 2)},
			{ID: 3, Name: "East Field", Size: 28.75, CropType: "Wheat", Status: domain.FieldStatusHarvested, PlantingDate: date(2024, 10, 1), LastActivity: date(2025, 2, 10)},
			{ID: 4, Name: "West Field", Size: 40.0, CropType: "Corn", Status: domain.FieldStatusFallow, PlantingDate: date(2024, 4, 20), LastActivity: date(2025, 1, 5)},
		},
		Crops: []domain.CropVariety{
			{ID: 1, VarietyName: "Pioneer P1197", CropType: "Corn", CycleDuration: 120, PlantingSeason: domain.SeasonSpring, Description: "High-yield hybrid", PlantingRequirements: map[string]string{"soilTemp": "50F"}, GrowthStages: []domain.GrowthStage{{Name: "Emergence", Duration: 10}, {Name: "Vegetative", Duration: 50}, {Name: "Reproductive", Duration: 60}}, CreatedDate: date(2024, 1, 10)},
			{ID: 2, VarietyName: "Asgrow AG2834", CropType: "Soybeans", CycleDuration: 105, PlantingSeason: domain.SeasonSpring, PlantingRequirements: map[string]string{}, CreatedDate: date(2024, 1, 12)},
			{ID: 3, VarietyName: "WestBred 9590", CropType: "Wheat", CycleDuration: 240, PlantingSeason: domain.SeasonFall, PlantingRequirements: map[string]string{}, CreatedDate: date(2024, 2, 1)},
		},
		Activities: []domain.Activity{
			{ID: 1, FieldID: "1", Type: "Planting", Date: date(2025, 3, 1), Description: "Planted corn"},
			{ID: 2, FieldID: "2", Type: "Fertilizing", Date: date(2025, 3, 2), Description: "Applied nitrogen"},
			{ID: 3, FieldID: "1", Type: "Irrigation", Date: date(2025, 3, 2), Description: "First watering"},
			{ID: 4, FieldID: "3", Type: "Harvest", Date: date(2025, 2, 10), Description: "Wheat harvest"},
			{ID: 5, FieldID: "4", Type: "Tillage", Date: date(2025, 1, 5), Description: "Winter tillage"},
			{ID: 6, FieldID: "1", Type: "Scouting", Date: date(2025, 2, 20), Description: "Pest check"},
		},
		Figures: domain.FarmFigures{TotalRevenue: 125000, OperatingCosts: 78000, ProfitMargin: 37.6, UpcomingTasks: 7},
	}
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	base := []Option{
		WithLatency(Latency{}),
		WithClock(func() time.Time { return testNow }),
	}
	return NewService(testDataset(), append(base, opts...)...)
}

type auditCapture struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (a *auditCapture) Record(_ context.Context, entry AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func (a *auditCapture) all() []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]AuditEntry(nil), a.entries...)
}

type metricsCapture struct {
	mu  sync.Mutex
	obs []Observation
}

func (m *metricsCapture) Observe(_ context.Context, obs Observation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obs = append(m.obs, obs)
}

func (m *metricsCapture) all() []Observation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Observation(nil), m.obs...)
}
