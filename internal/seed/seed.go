// Package seed loads the session's starting dataset from embedded fixtures, a
// blob store, or a SQL seed table, and writes datasets back to those targets
// for bootstrapping other environments.
package seed

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"farmboard/pkg/domain"
)

// Bucket names one seed collection.
type Bucket string

// Seed collections, in load order.
const (
	BucketFields      Bucket = "fields"
	BucketCrops       Bucket = "crops"
	BucketActivities  Bucket = "activities"
	BucketFarmMetrics Bucket = "farm_metrics"
)

// Buckets lists every collection a complete seed carries.
var Buckets = []Bucket{BucketFields, BucketCrops, BucketActivities, BucketFarmMetrics}

// Source yields a validated dataset. Sources are read once per session.
type Source interface {
	Load(ctx context.Context) (domain.Dataset, error)
	Name() string
}

// Writer stores a dataset as seed collections.
type Writer interface {
	Write(ctx context.Context, ds domain.Dataset) error
}

//go:embed fixtures/*.json
var fixtures embed.FS

// Embedded serves the fixtures compiled into the binary.
type Embedded struct{}

// Name implements Source.
func (Embedded) Name() string { return "embedded" }

// Load implements Source.
func (Embedded) Load(context.Context) (domain.Dataset, error) {
	payloads := make(map[Bucket][]byte, len(Buckets))
	for _, b := range Buckets {
		raw, err := fixtures.ReadFile("fixtures/" + string(b) + ".json")
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("read fixture %s: %w", b, err)
		}
		payloads[b] = raw
	}
	return decode(payloads)
}

func target(ds *domain.Dataset, b Bucket) any {
	switch b {
	case BucketFields:
		return &ds.Fields
	case BucketCrops:
		return &ds.Crops
	case BucketActivities:
		return &ds.Activities
	case BucketFarmMetrics:
		return &ds.Figures
	}
	return nil
}

// decode builds a dataset from per-bucket JSON payloads. Missing buckets
// leave their collection empty; unknown buckets are ignored.
func decode(payloads map[Bucket][]byte) (domain.Dataset, error) {
	var ds domain.Dataset
	for _, b := range Buckets {
		raw, ok := payloads[b]
		if !ok || len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, target(&ds, b)); err != nil {
			return domain.Dataset{}, fmt.Errorf("decode seed %s: %w", b, err)
		}
	}
	if err := ds.Validate(); err != nil {
		return domain.Dataset{}, err
	}
	return ds, nil
}

// encode renders every bucket of ds as JSON.
func encode(ds domain.Dataset) (map[Bucket][]byte, error) {
	out := make(map[Bucket][]byte, len(Buckets))
	for _, b := range Buckets {
		raw, err := json.Marshal(target(&ds, b))
		if err != nil {
			return nil, fmt.Errorf("encode seed %s: %w", b, err)
		}
		out[b] = raw
	}
	return out, nil
}
