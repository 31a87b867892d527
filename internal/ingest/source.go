package ingest

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Source fetches raw batch content (a CSV blob) by reference: a path for
// the file source, an object key for the S3 source.
type Source interface {
	Fetch(ctx context.Context, ref string) (io.ReadCloser, error)
}

// fileSource reads batch files from the local file system.
type fileSource struct {
	logger zerolog.Logger
}

// NewFileSource creates a file-system batch source.
func NewFileSource(logger zerolog.Logger) Source {
	return &fileSource{
		logger: logger.With().Str("component", "ingest-file-source").Logger(),
	}
}

// Fetch opens a local batch file.
func (s *fileSource) Fetch(_ context.Context, ref string) (io.ReadCloser, error) {
	file, err := os.Open(ref)
	if err != nil {
		s.logger.Error().Err(err).Str("file", ref).Msg("failed to open batch file")
		return nil, fmt.Errorf("failed to open batch file %s: %w", ref, err)
	}

	s.logger.Info().Str("file", ref).Msg("opened batch file")
	return file, nil
}
