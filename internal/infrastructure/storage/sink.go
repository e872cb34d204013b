// Package storage delivers exported files to their destination: the local
// filesystem, standard output or an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	infraconfig "github.com/erp/sapgen/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Content types of exported files
const (
	ContentTypeSQL      = "application/sql"
	ContentTypeXLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeManifest = "application/yaml"
)

// Sink stores exported files under a key
type Sink interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Destination is a parsed export destination
type Destination struct {
	Bucket string // set for s3:// destinations
	Key    string // object key, file path or "-" for stdout
}

// IsS3 returns true for bucket destinations
func (d Destination) IsS3() bool {
	return d.Bucket != ""
}

// IsStdout returns true when the export goes to standard output
func (d Destination) IsStdout() bool {
	return !d.IsS3() && d.Key == StdoutKey
}

// String returns the destination in the form it was given
func (d Destination) String() string {
	if d.IsS3() {
		return "s3://" + d.Bucket + "/" + d.Key
	}
	return d.Key
}

// ParseDestination splits "s3://bucket/key" into bucket and key. Anything
// else is a file path, with "-" meaning standard output.
func ParseDestination(raw string) (Destination, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Destination{}, errors.New("destination is required")
	}
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return Destination{Key: raw}, nil
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return Destination{}, fmt.Errorf("invalid s3 destination %q: want s3://bucket/key", raw)
	}
	return Destination{Bucket: bucket, Key: key}, nil
}

// Open returns the sink serving a destination
func Open(ctx context.Context, dest Destination, cfg *infraconfig.StorageConfig, logger *zap.Logger) (Sink, error) {
	if !dest.IsS3() {
		return NewFileSink(WithFileLogger(logger)), nil
	}
	s3, err := NewS3Sink(cfg, dest.Bucket, WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s3, nil
}
