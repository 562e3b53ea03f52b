package seed

import (
	"context"
	"fmt"
	"io"

	"farmboard/internal/blob"
)

// Driver names a seed source backend.
type Driver string

// Seed drivers.
const (
	DriverEmbedded Driver = "embedded"
	DriverBlob     Driver = "blob"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Config selects the seed backend.
type Config struct {
	Driver      Driver
	Prefix      string
	SQLitePath  string
	PostgresDSN string
	Blob        blob.Config
}

// Handle is an opened seed backend. Close releases any connection; it is a
// no-op for embedded and blob backends.
type Handle interface {
	Source
	Writer
	io.Closer
}

type blobHandle struct{ BlobSource }

func (blobHandle) Close() error { return nil }

type noClose struct{}

func (noClose) Close() error { return nil }

// Open returns the source named by cfg.Driver. An empty driver means embedded.
func Open(ctx context.Context, cfg Config) (Source, io.Closer, error) {
	switch cfg.Driver {
	case "", DriverEmbedded:
		return Embedded{}, noClose{}, nil
	case DriverBlob, DriverSQLite, DriverPostgres:
		h, err := OpenWriter(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return h, h, nil
	default:
		return nil, nil, fmt.Errorf("unknown seed driver %q", cfg.Driver)
	}
}

// OpenWriter opens a writable seed backend. The embedded driver is read-only.
func OpenWriter(ctx context.Context, cfg Config) (Handle, error) {
	switch cfg.Driver {
	case DriverBlob:
		store, err := blob.Open(ctx, cfg.Blob)
		if err != nil {
			return nil, fmt.Errorf("open seed blob store: %w", err)
		}
		return blobHandle{BlobSource{Store: store, Prefix: cfg.Prefix}}, nil
	case DriverSQLite:
		src, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return src, nil
	case DriverPostgres:
		src, err := OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return src, nil
	case "", DriverEmbedded:
		return nil, fmt.Errorf("seed driver %q is read-only", DriverEmbedded)
	default:
		return nil, fmt.Errorf("unknown seed driver %q", cfg.Driver)
	}
}
