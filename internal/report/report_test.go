package report

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"farmboard/internal/blob"
	"farmboard/internal/core"
	"farmboard/internal/seed"
)

var generated = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func collect(t *testing.T) Data {
	t.Helper()
	ds, err := seed.Embedded{}.Load(context.Background())
	require.NoError(t, err)
	svc := core.NewService(ds, core.WithLatency(core.Latency{}))
	d, err := Collect(context.Background(), svc, generated)
	require.NoError(t, err)
	return d
}

func TestWriteProducesAllSheets(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, collect(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	require.Equal(t, []string{SheetOverview, SheetFields, SheetCrops, SheetActivities}, f.GetSheetList())

	fields, err := f.GetRows(SheetFields)
	require.NoError(t, err)
	require.Len(t, fields, 8)
	require.Equal(t, "North Field", fields[1][1])
	require.Equal(t, "2024-09-20", fields[1][6])

	crops, err := f.GetRows(SheetCrops)
	require.NoError(t, err)
	require.Equal(t, "Planted fields", crops[0][6])
	require.Equal(t, "2", crops[1][6], "two corn fields")
	require.Equal(t, "115", crops[1][5])

	acres, err := f.GetCellValue(SheetOverview, "B3")
	require.NoError(t, err)
	total, err := strconv.ParseFloat(acres, 64)
	require.NoError(t, err)
	require.InDelta(t, 242.15, total, 1e-9)

	acts, err := f.GetRows(SheetActivities)
	require.NoError(t, err)
	require.Len(t, acts, 11)
}

func TestSaveWritesFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "farm.xlsx")
	require.NoError(t, Save(p, collect(t)))
	f, err := excelize.OpenFile(p)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestPublishToBlobStore(t *testing.T) {
	ctx := context.Background()
	d := collect(t)

	mem := blob.NewMemory()
	info, err := Publish(ctx, mem, "reports", d)
	require.NoError(t, err)
	require.Equal(t, "reports/farm-report-20240615T120000Z.xlsx", info.Key)
	require.Equal(t, ContentType, info.ContentType)
	require.Empty(t, info.URL, "memory store cannot presign")

	_, rc, err := mem.Get(ctx, info.Key)
	require.NoError(t, err)
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)
	_, err = excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)

	fsStore, err := blob.Open(ctx, blob.Config{Driver: blob.DriverFilesystem, FSRoot: t.TempDir()})
	require.NoError(t, err)
	info, err = Publish(ctx, fsStore, "reports", d)
	require.NoError(t, err)
	require.Contains(t, info.URL, "farm-report-20240615T120000Z.xlsx")

	_, err = Publish(ctx, fsStore, "reports", d)
	require.NoError(t, err, "republishing the same key overwrites")
}
