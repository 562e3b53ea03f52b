package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"farmboard/internal/blob"
	"farmboard/pkg/domain"
)

// DefaultPrefix is the blob key prefix seed objects live under.
const DefaultPrefix = "seed"

// BlobSource reads <prefix>/<bucket>.json objects. A missing object leaves
// that collection empty.
type BlobSource struct {
	Store  blob.Store
	Prefix string
}

// Name implements Source.
func (s BlobSource) Name() string { return "blob:" + string(s.Store.Driver()) }

func (s BlobSource) key(b Bucket) string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return path.Join(prefix, string(b)+".json")
}

// Load implements Source.
func (s BlobSource) Load(ctx context.Context) (domain.Dataset, error) {
	payloads := make(map[Bucket][]byte, len(Buckets))
	for _, b := range Buckets {
		_, rc, err := s.Store.Get(ctx, s.key(b))
		if errors.Is(err, blob.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("load seed %s: %w", b, err)
		}
		raw, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("read seed %s: %w", b, err)
		}
		payloads[b] = raw
	}
	return decode(payloads)
}

// Write implements Writer, replacing any existing seed objects.
func (s BlobSource) Write(ctx context.Context, ds domain.Dataset) error {
	payloads, err := encode(ds)
	if err != nil {
		return err
	}
	for _, b := range Buckets {
		_, err := s.Store.Put(ctx, s.key(b), bytes.NewReader(payloads[b]), blob.PutOptions{
			ContentType: "application/json",
			Metadata:    map[string]string{"bucket": string(b)},
			Overwrite:   true,
		})
		if err != nil {
			return fmt.Errorf("write seed %s: %w", b, err)
		}
	}
	return nil
}
