package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jaekwang-park/todo-tracker/internal/model"
	"github.com/jaekwang-park/todo-tracker/internal/snapshot"
)

const (
	// BlobKey holds the encoded snapshot.
	BlobKey = "todos_v1"

	// LegacyBlobKey held an older, incompatible format and is removed on load.
	LegacyBlobKey = "todos"
)

// BlobStorage keeps the entire snapshot as one encoded value under BlobKey.
type BlobStorage struct {
	kv     KeyValue
	logger *slog.Logger
}

func NewBlobStorage(kv KeyValue, logger *slog.Logger) *BlobStorage {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlobStorage{kv: kv, logger: logger}
}

func (b *BlobStorage) Save(ctx context.Context, snap model.Snapshot) error {
	data, err := snapshot.Encode(snap)
	if err != nil {
		return err
	}
	if err := b.kv.Set(ctx, BlobKey, data); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (b *BlobStorage) Load(ctx context.Context) (*model.Snapshot, error) {
	if err := b.kv.Delete(ctx, LegacyBlobKey); err != nil {
		b.logger.DebugContext(ctx, "failed to remove legacy blob", "key", LegacyBlobKey, "error", err)
	}

	data, err := b.kv.Get(ctx, BlobKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	snap, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored snapshot: %w", err)
	}
	return &snap, nil
}

var _ Storage = (*BlobStorage)(nil)
