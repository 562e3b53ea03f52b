package s3

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"farmboard/internal/blob/core"
)

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.ErrorContains(t, err, "bucket required")
}

func TestNewWithStaticCredentials(t *testing.T) {
	s, err := New(context.Background(), Config{
		Bucket:          "farm",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		PathStyle:       true,
	})
	require.NoError(t, err)
	require.Equal(t, core.DriverS3, s.Driver())
}

func TestMockRoundTrip(t *testing.T) {
	s := NewMockForTests()
	ctx := context.Background()

	payload := []byte("line one\r\nline two\r\n\x00binary")
	info, err := s.Put(ctx, "reports/farm.xlsx", bytes.NewReader(payload), core.PutOptions{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Metadata:    map[string]string{"generated": "2025-03-14"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(len(payload)), info.Size)
	require.Equal(t, "mock-etag", info.ETag)
	require.Equal(t, "2025-03-14", info.Metadata["generated"])

	_, rc, err := s.Get(ctx, "reports/farm.xlsx")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, payload, got)
}

func TestMockNotFoundMapsToErrNotExist(t *testing.T) {
	s := NewMockForTests()
	ctx := context.Background()

	_, err := s.Head(ctx, "missing")
	require.ErrorIs(t, err, core.ErrNotExist)
	_, _, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, core.ErrNotExist)
	existed, err := s.Delete(ctx, "missing")
	require.NoError(t, err)
	require.False(t, existed)
}

func TestPresignURLSignsGet(t *testing.T) {
	s := NewMockForTests()
	u, err := s.PresignURL(context.Background(), "reports/farm.xlsx", core.SignedURLOptions{})
	require.NoError(t, err)
	require.True(t, strings.Contains(u, "X-Amz-Signature"), u)

	_, err = s.PresignURL(context.Background(), "k", core.SignedURLOptions{Method: "PUT"})
	require.ErrorIs(t, err, core.ErrUnsupported)
}

func TestDecodeChunked(t *testing.T) {
	raw := []byte("5;chunk-signature=abc\r\nhello\r\n3\r\n\r\n!\r\n0\r\nx-amz-checksum-crc32:AAAA\r\n\r\n")
	out, err := decodeChunked(raw)
	require.NoError(t, err)
	require.Equal(t, "hello\r\n!", string(out))

	_, err = decodeChunked([]byte("zz\r\n"))
	require.Error(t, err)
}
