package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

type Backend string

const (
	BackendSQL    Backend = "sql"
	BackendBlob   Backend = "blob"
	BackendMemory Backend = "memory"
)

func (b Backend) IsValid() bool {
	return b == BackendSQL || b == BackendBlob || b == BackendMemory
}

type OpenOptions struct {
	Backend Backend

	// SQL row store.
	Dialect Dialect
	DSN     string
	// SQLitePath is the database file; its directory is created first.
	SQLitePath string

	// Blob store. S3 is used when S3Bucket is set, BlobDir otherwise.
	BlobDir  string
	S3Bucket string
	S3Prefix string
	S3Region string
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var nopCloser = closerFunc(func() error { return nil })

// Open builds the configured storage backend. When the SQL backend cannot be
// initialized, Open logs the failure and falls back to the blob backend once.
// The returned closer releases whatever Open acquired.
func Open(ctx context.Context, opts OpenOptions, logger *slog.Logger) (Storage, io.Closer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStorage(), nopCloser, nil
	case BackendBlob:
		s, err := openBlob(ctx, opts, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser, nil
	case BackendSQL, "":
		s, err := openSQL(ctx, opts)
		if err == nil {
			return s, s, nil
		}
		logger.WarnContext(ctx, "failed to initialize sql storage, falling back to blob storage",
			"dialect", opts.Dialect,
			"error", err,
		)
		blob, blobErr := openBlob(ctx, opts, logger)
		if blobErr != nil {
			return nil, nil, errors.Join(err, blobErr)
		}
		return blob, nopCloser, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

func openSQL(ctx context.Context, opts OpenOptions) (*SQLStorage, error) {
	if opts.Dialect == DialectSQLite && opts.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := NewDB(ctx, opts.Dialect, opts.DSN)
	if err != nil {
		return nil, err
	}

	s, err := NewSQLStorage(ctx, db, opts.Dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func openBlob(ctx context.Context, opts OpenOptions, logger *slog.Logger) (*BlobStorage, error) {
	if opts.S3Bucket != "" {
		kv, err := NewAWSS3KeyValue(ctx, opts.S3Region, opts.S3Bucket, opts.S3Prefix)
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "using s3 blob storage", "bucket", opts.S3Bucket, "prefix", opts.S3Prefix)
		return NewBlobStorage(kv, logger), nil
	}

	kv, err := NewFileKeyValue(opts.BlobDir)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "using file blob storage", "dir", opts.BlobDir)
	return NewBlobStorage(kv, logger), nil
}
