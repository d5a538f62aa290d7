package repository

import (
	"context"

	"github.com/jaekwang-park/todo-tracker/internal/model"
)

// Storage persists the whole todo collection as one snapshot.
// Save always replaces everything previously saved. Load returns nil and no
// error when nothing has been saved yet.
type Storage interface {
	Save(ctx context.Context, snap model.Snapshot) error
	Load(ctx context.Context) (*model.Snapshot, error)
}
