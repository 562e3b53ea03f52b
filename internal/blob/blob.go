// Package blob selects a blob storage backend for seed fixtures and report
// artifacts and re-exports the backend contract.
package blob

import (
	"context"
	"fmt"

	"farmboard/internal/blob/core"
	"farmboard/internal/infra/blob/fs"
	memorystore "farmboard/internal/infra/blob/memory"
	infraS3 "farmboard/internal/infra/blob/s3"
)

type (
	// Driver identifies a blob backend driver.
	Driver = core.Driver
	// PutOptions configures a blob write.
	PutOptions = core.PutOptions
	// SignedURLOptions configures URL pre-signing.
	SignedURLOptions = core.SignedURLOptions
	// Info describes stored blob metadata.
	Info = core.Info
	// Store is the interface for blob storage backends.
	Store = core.Store
	// S3Config configures the S3 backend.
	S3Config = infraS3.Config
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	ErrUnsupported = core.ErrUnsupported
	ErrNotExist    = core.ErrNotExist
	ErrExists      = core.ErrExists
)

// Config selects and configures a backend.
type Config struct {
	Driver Driver
	FSRoot string
	S3     S3Config
}

// Open builds the backend named by cfg.Driver; an empty driver means fs.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverFilesystem:
		return fs.New(cfg.FSRoot)
	case DriverMemory:
		return memorystore.New(), nil
	case DriverS3:
		return infraS3.New(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}

// NewMemory returns an empty in-memory store.
func NewMemory() Store { return memorystore.New() }

// NewMockS3ForTests returns an S3 store backed by an in-process fake transport.
func NewMockS3ForTests() Store { return infraS3.NewMockForTests() }
