// Package report renders the current session as an XLSX workbook with one
// sheet per dashboard view, and publishes it to a file or blob store.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/xuri/excelize/v2"

	"farmboard/internal/blob"
	"farmboard/internal/core"
	"farmboard/internal/dashboard"
	"farmboard/pkg/domain"
)

// Sheet names in workbook order.
const (
	SheetOverview   = "Overview"
	SheetFields     = "Fields"
	SheetCrops      = "Crops"
	SheetActivities = "Activities"
)

// ContentType is the XLSX media type.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Data is everything a workbook renders.
type Data struct {
	GeneratedAt time.Time
	Overview    dashboard.Overview
	Fields      []domain.Field
	Crops       []dashboard.CropSummary
	Activities  []domain.Activity
}

// Collect reads the session through its façades.
func Collect(ctx context.Context, svc *core.Service, now time.Time) (Data, error) {
	ov, err := dashboard.LoadOverview(ctx, svc)
	if err != nil {
		return Data{}, err
	}
	fields, err := svc.Fields().GetAll(ctx)
	if err != nil {
		return Data{}, err
	}
	crops, err := dashboard.LoadCropSummaries(ctx, svc, domain.CropFilter{})
	if err != nil {
		return Data{}, err
	}
	acts, err := svc.Activities().GetAll(ctx)
	if err != nil {
		return Data{}, err
	}
	return Data{GeneratedAt: now, Overview: ov, Fields: fields, Crops: crops, Activities: acts}, nil
}

// Build renders d into a new workbook. The caller closes it.
func Build(d Data) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetFields, SheetCrops, SheetActivities} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("add sheet %s: %w", name, err)
		}
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9EAD3"}},
	})
	if err != nil {
		return nil, err
	}

	w := sheetWriter{f: f, header: header}
	w.overview(d)
	w.fields(d.Fields)
	w.crops(d.Crops)
	w.activities(d.Activities)
	if w.err != nil {
		_ = f.Close()
		return nil, w.err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write renders d as XLSX into w.
func Write(w io.Writer, d Data) error {
	f, err := Build(d)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save renders d to the file at path.
func Save(filePath string, d Data) error {
	f, err := Build(d)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("save workbook %s: %w", filePath, err)
	}
	return nil
}

// Key returns the blob key for a report generated at t under prefix.
func Key(prefix string, t time.Time) string {
	return path.Join(prefix, "farm-report-"+t.UTC().Format("20060102T150405Z")+".xlsx")
}

// Publish uploads the workbook to store and fills Info.URL with a presigned
// link when the backend supports one.
func Publish(ctx context.Context, store blob.Store, prefix string, d Data) (blob.Info, error) {
	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		return blob.Info{}, err
	}
	key := Key(prefix, d.GeneratedAt)
	info, err := store.Put(ctx, key, &buf, blob.PutOptions{
		ContentType: ContentType,
		Metadata:    map[string]string{"generated-at": d.GeneratedAt.UTC().Format(time.RFC3339)},
		Overwrite:   true,
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("publish report: %w", err)
	}
	if url, err := store.PresignURL(ctx, key, blob.SignedURLOptions{Expiry: 24 * time.Hour}); err == nil {
		info.URL = url
	}
	return info, nil
}

type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) row(sheet string, n int, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("%s row %d: %w", sheet, n, err)
	}
}

// table writes a styled header row, sets column widths, and enables an
// autofilter over the header.
func (w *sheetWriter) table(sheet string, columns ...string) {
	if w.err != nil {
		return
	}
	values := make([]any, len(columns))
	for i, c := range columns {
		values[i] = c
	}
	w.row(sheet, 1, values...)
	last, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetRowStyle(sheet, 1, 1, w.header); err != nil {
		w.err = err
		return
	}
	if err := w.f.SetColWidth(sheet, "A", last, 18); err != nil {
		w.err = err
		return
	}
	if err := w.f.AutoFilter(sheet, "A1:"+last+"1", nil); err != nil {
		w.err = err
	}
}

func optional[T any](p *T) any {
	if p == nil {
		return ""
	}
	return fmt.Sprint(*p)
}

func (w *sheetWriter) overview(d Data) {
	m := d.Overview.Metrics
	w.table(SheetOverview, "Metric", "Value")
	rows := [][]any{
		{"Generated", d.GeneratedAt.UTC().Format(time.RFC3339)},
		{"Total acres", m.TotalAcres},
		{"Active fields", m.ActiveFields},
		{"Crop types", m.CropTypes},
		{"Total revenue", m.TotalRevenue},
		{"Operating costs", m.OperatingCosts},
		{"Profit margin (%)", m.ProfitMargin},
		{"Upcoming tasks", m.UpcomingTasks},
	}
	for i, r := range rows {
		w.row(SheetOverview, i+2, r...)
	}
	n := len(rows) + 3
	w.row(SheetOverview, n, "Recent activity", "Date", "Field", "Description")
	for i, a := range d.Overview.RecentActivities {
		w.row(SheetOverview, n+1+i, a.Type, a.Date.String(), a.FieldID, a.Description)
	}
}

func (w *sheetWriter) fields(fields []domain.Field) {
	w.table(SheetFields, "ID", "Name", "Size (acres)", "Crop type", "Status", "Planted", "Expected harvest", "Soil", "Irrigation", "Last activity", "Notes")
	for i, f := range fields {
		w.row(SheetFields, i+2, f.ID, f.Name, f.Size, f.CropType, string(f.Status), f.PlantingDate.String(),
			optional(f.ExpectedHarvest), optional(f.SoilType), optional(f.IrrigationMethod), f.LastActivity.String(), f.Notes)
	}
}

func (w *sheetWriter) crops(crops []dashboard.CropSummary) {
	w.table(SheetCrops, "ID", "Variety", "Crop type", "Cycle (days)", "Season", "Growth days", "Planted fields", "Created")
	for i, c := range crops {
		w.row(SheetCrops, i+2, c.Crop.ID, c.Crop.VarietyName, c.Crop.CropType, c.Crop.CycleDuration,
			string(c.Crop.PlantingSeason), c.Crop.TotalGrowthDays(), c.PlantedFields, c.Crop.CreatedDate.String())
	}
}

func (w *sheetWriter) activities(acts []domain.Activity) {
	w.table(SheetActivities, "ID", "Field", "Type", "Date", "Description")
	for i, a := range acts {
		w.row(SheetActivities, i+2, a.ID, a.FieldID, a.Type, a.Date.String(), a.Description)
	}
}
