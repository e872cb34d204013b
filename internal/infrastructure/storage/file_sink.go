package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// StdoutKey routes a file to standard output
const StdoutKey = "-"

// FileSink writes files to the local filesystem
type FileSink struct {
	stdout io.Writer
	logger *zap.Logger
}

// FileSinkOption configures a FileSink
type FileSinkOption func(*FileSink)

// WithStdout replaces standard output
func WithStdout(w io.Writer) FileSinkOption {
	return func(s *FileSink) {
		s.stdout = w
	}
}

// WithFileLogger sets the logger
func WithFileLogger(logger *zap.Logger) FileSinkOption {
	return func(s *FileSink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFileSink creates a filesystem sink
func NewFileSink(opts ...FileSinkOption) *FileSink {
	s := &FileSink{stdout: os.Stdout, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put writes data to the path key, creating parent directories. An existing
// file is replaced.
func (s *FileSink) Put(_ context.Context, key string, data []byte, _ string) error {
	if key == "" {
		return errors.New("file path is required")
	}
	if key == StdoutKey {
		_, err := s.stdout.Write(data)
		return err
	}

	if dir := filepath.Dir(key); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(key, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	s.logger.Debug("File written", zap.String("path", key), zap.Int("bytes", len(data)))
	return nil
}

// Exists reports whether a file exists at key
func (s *FileSink) Exists(_ context.Context, key string) (bool, error) {
	if key == StdoutKey {
		return false, nil
	}
	_, err := os.Stat(key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
