package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()

	fsStore, err := Open(ctx, Config{FSRoot: t.TempDir()})
	require.NoError(t, err)
	require.Equal(t, DriverFilesystem, fsStore.Driver())

	mem, err := Open(ctx, Config{Driver: DriverMemory})
	require.NoError(t, err)
	require.Equal(t, DriverMemory, mem.Driver())

	_, err = Open(ctx, Config{Driver: DriverS3})
	require.Error(t, err, "s3 without bucket must fail")

	_, err = Open(ctx, Config{Driver: "gcs"})
	require.ErrorContains(t, err, "unknown blob driver")
}

// Every backend must honour the same contract.
func TestBackendContract(t *testing.T) {
	fsStore, err := Open(context.Background(), Config{Driver: DriverFilesystem, FSRoot: t.TempDir()})
	require.NoError(t, err)
	backends := map[string]Store{
		"fs":     fsStore,
		"memory": NewMemory(),
		"s3mock": NewMockS3ForTests(),
	}
	for name, store := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := store.Put(ctx, "seed/fields.json", bytes.NewReader([]byte(`[]`)), PutOptions{ContentType: "application/json"})
			require.NoError(t, err)

			_, err = store.Put(ctx, "seed/fields.json", bytes.NewReader([]byte(`[1]`)), PutOptions{})
			require.ErrorIs(t, err, ErrExists)

			_, err = store.Put(ctx, "seed/fields.json", bytes.NewReader([]byte(`[{}]`)), PutOptions{Overwrite: true})
			require.NoError(t, err)

			_, rc, err := store.Get(ctx, "seed/fields.json")
			require.NoError(t, err)
			body, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			require.Equal(t, `[{}]`, string(body))

			_, _, err = store.Get(ctx, "seed/missing.json")
			require.True(t, errors.Is(err, ErrNotExist), "got %v", err)

			_, err = store.Put(ctx, "reports/a.xlsx", bytes.NewReader([]byte("x")), PutOptions{})
			require.NoError(t, err)
			list, err := store.List(ctx, "seed/")
			require.NoError(t, err)
			require.Len(t, list, 1)
			require.Equal(t, "seed/fields.json", list[0].Key)

			existed, err := store.Delete(ctx, "reports/a.xlsx")
			require.NoError(t, err)
			require.True(t, existed)
			_, err = store.Head(ctx, "reports/a.xlsx")
			require.ErrorIs(t, err, ErrNotExist)
		})
	}
}
