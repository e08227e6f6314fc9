package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		uri    string
		bucket string
		key    string
		ok     bool
	}{
		{"s3://data/portfolio.csv", "data", "portfolio.csv", true},
		{"s3://data/2025/q1/portfolio.csv", "data", "2025/q1/portfolio.csv", true},
		{"s3://data/", "", "", false},
		{"s3://", "", "", false},
		{"/tmp/portfolio.csv", "", "", false},
	}
	for _, tt := range tests {
		bucket, key, err := ParseS3URI(tt.uri)
		if !tt.ok {
			assert.Error(t, err, tt.uri)
			continue
		}
		require.NoError(t, err, tt.uri)
		assert.Equal(t, tt.bucket, bucket)
		assert.Equal(t, tt.key, key)
	}
}

func TestS3Open(t *testing.T) {
	client := newMockClient()
	client.objects["data/portfolio.csv"] = []byte("id_assure;age\n")

	src := NewS3(client, "data", "portfolio.csv")
	assert.Equal(t, "s3://data/portfolio.csv", src.String())

	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "id_assure;age\n", string(body))
	assert.Equal(t, 1, client.calls)
}

func TestS3OpenErrors(t *testing.T) {
	client := newMockClient()
	_, err := NewS3(client, "data", "missing.csv").Open(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoSuchKey")

	client.err = errors.New("AccessDenied: forbidden")
	_, err = NewS3(client, "data", "portfolio.csv").Open(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://data/portfolio.csv")
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.csv")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	src, err := New(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, path, src.String())

	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	_, err = File{Path: filepath.Join(t.TempDir(), "nope.csv")}.Open(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewRejectsEmptyAndBadURI(t *testing.T) {
	_, err := New(context.Background(), "", Options{})
	assert.Error(t, err)

	_, err = New(context.Background(), "s3://bucket-only", Options{})
	assert.Error(t, err)
}
