// Package source opens the portfolio file from the local filesystem or S3.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Source is a readable location of a portfolio file.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// Options carries the AWS settings used for s3:// locations.
type Options struct {
	Profile string
	Region  string
}

// New returns the Source for location: an s3://bucket/key URI or a local path.
func New(ctx context.Context, location string, opts Options) (Source, error) {
	if location == "" {
		return nil, fmt.Errorf("no dataset location configured")
	}
	if strings.HasPrefix(location, s3Scheme) {
		bucket, key, err := ParseS3URI(location)
		if err != nil {
			return nil, err
		}
		client, err := NewS3Client(ctx, opts.Profile, opts.Region)
		if err != nil {
			return nil, err
		}
		return NewS3(client, bucket, key), nil
	}
	return File{Path: location}, nil
}

// File reads a portfolio from the local filesystem.
type File struct {
	Path string
}

// Open opens the file for reading.
func (f File) Open(_ context.Context) (io.ReadCloser, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	return fh, nil
}

func (f File) String() string {
	return f.Path
}
