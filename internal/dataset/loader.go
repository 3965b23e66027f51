package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

// Source opens the raw bytes behind a dataset location.
type Source interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

type FileSource struct{}

func (FileSource) Open(_ context.Context, location string) (io.ReadCloser, error) {
	return os.Open(location)
}

type Loader struct {
	files    Source
	s3       Source
	s3Region string
	logger   *slog.Logger
}

type Option func(*Loader)

// WithS3Source sets the source used for s3:// locations.
func WithS3Source(src Source) Option {
	return func(l *Loader) { l.s3 = src }
}

// WithS3Region sets the region used when the S3 source is created lazily.
func WithS3Region(region string) Option {
	return func(l *Loader) { l.s3Region = region }
}

func WithFileSource(src Source) Option {
	return func(l *Loader) { l.files = src }
}

func NewLoader(logger *slog.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		files:  FileSource{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads location into memory, decompressing .zip and .gz files, and
// parses it. Locations starting with s3:// are fetched from S3.
func (l *Loader) Load(ctx context.Context, location string) (*Dataset, error) {
	start := time.Now()

	src, err := l.sourceFor(ctx, location)
	if err != nil {
		return nil, err
	}

	rc, err := src.Open(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	raw, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	table, err := decompress(location, raw)
	if err != nil {
		return nil, err
	}
	defer table.Close()

	d, err := Parse(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", location, err)
	}
	d.Source = location

	if d.Skipped > 0 {
		l.logger.Warn("skipped malformed rows", "source", location, "skipped", d.Skipped)
	}
	l.logger.Info("dataset loaded",
		"source", location,
		"records", d.Len(),
		"branches", len(d.branches),
		"months", len(d.months),
		"duration", time.Since(start),
	)
	return d, nil
}

func (l *Loader) sourceFor(ctx context.Context, location string) (Source, error) {
	if !strings.HasPrefix(location, s3Scheme) {
		return l.files, nil
	}
	if l.s3 == nil {
		src, err := NewS3Source(ctx, l.s3Region)
		if err != nil {
			return nil, err
		}
		l.s3 = src
	}
	return l.s3, nil
}

func decompress(location string, raw []byte) (io.ReadCloser, error) {
	switch strings.ToLower(path.Ext(location)) {
	case ".zip":
		return openZipEntry(raw)
	case ".gz":
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("open gzip: %w", err)
		}
		return zr, nil
	default:
		return io.NopCloser(bytes.NewReader(raw)), nil
	}
}

// openZipEntry opens the first .csv entry of the archive, falling back to
// the first regular file.
func openZipEntry(raw []byte) (io.ReadCloser, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var chosen *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.EqualFold(path.Ext(f.Name), ".csv") {
			chosen = f
			break
		}
		if chosen == nil {
			chosen = f
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("open zip: %w", ErrEmptyFile)
	}

	rc, err := chosen.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry %s: %w", chosen.Name, err)
	}
	return rc, nil
}
