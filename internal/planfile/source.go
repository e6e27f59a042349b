package planfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Source yields the raw bytes of one plan document.
type Source interface {
	// Read loads the whole document.
	Read(ctx context.Context) ([]byte, error)

	// String describes the location for messages.
	String() string
}

// SourceConfig selects and configures a Source.
type SourceConfig struct {
	// Location is a file path, "-" for stdin, or s3://bucket/key.
	Location string

	// Region and Profile configure the AWS client for s3:// locations.
	Region  string
	Profile string

	// Stdin overrides os.Stdin for "-".
	Stdin io.Reader
}

// NewSource creates a plan source from configuration.
func NewSource(cfg *SourceConfig) (Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source configuration is nil")
	}

	switch {
	case cfg.Location == "":
		return nil, fmt.Errorf("plan location is empty")
	case cfg.Location == "-":
		in := cfg.Stdin
		if in == nil {
			in = os.Stdin
		}
		return &readerSource{r: in, name: "stdin"}, nil
	case strings.HasPrefix(cfg.Location, "s3://"):
		return newS3Source(cfg)
	default:
		return &fileSource{path: cfg.Location}, nil
	}
}

type fileSource struct {
	path string
}

func (s *fileSource) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return data, nil
}

func (s *fileSource) String() string { return s.path }

type readerSource struct {
	r    io.Reader
	name string
}

func (s *readerSource) Read(_ context.Context) ([]byte, error) {
	data, err := io.ReadAll(s.r)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan from %s: %w", s.name, err)
	}
	return data, nil
}

func (s *readerSource) String() string { return s.name }
