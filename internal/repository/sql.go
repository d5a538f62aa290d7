package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jaekwang-park/todo-tracker/internal/model"
)

// SQLStorage keeps one row per todo in the todos table. The currently-doing
// item is marked by is_currently_doing; position keeps collection order.
type SQLStorage struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStorage wraps db and creates the todos table if needed.
func NewSQLStorage(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStorage, error) {
	if !dialect.IsValid() {
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	s := &SQLStorage{db: db, dialect: dialect}
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStorage) EnsureSchema(ctx context.Context) error {
	ts := s.dialect.timestampType()
	query := `
		CREATE TABLE IF NOT EXISTS todos (
			id                 TEXT PRIMARY KEY,
			position           INTEGER NOT NULL,
			title              TEXT NOT NULL,
			description        TEXT NOT NULL,
			category           TEXT NOT NULL,
			status             TEXT NOT NULL,
			created_at         ` + ts + ` NOT NULL,
			updated_at         ` + ts + ` NOT NULL,
			completed_at       ` + ts + `,
			is_currently_doing BOOLEAN NOT NULL DEFAULT FALSE
		)`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create todos table: %w", err)
	}
	return nil
}

// Save replaces every row in one transaction.
func (s *SQLStorage) Save(ctx context.Context, snap model.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM todos`); err != nil {
		return fmt.Errorf("failed to clear todos: %w", err)
	}

	query := s.dialect.rebind(`
		INSERT INTO todos (id, position, title, description, category, status,
			created_at, updated_at, completed_at, is_currently_doing)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var currentID string
	if snap.CurrentlyDoing != nil {
		currentID = snap.CurrentlyDoing.ID
	}

	for i, t := range snap.Todos {
		var completedAt sql.NullTime
		if t.CompletedAt != nil {
			completedAt = sql.NullTime{Time: t.CompletedAt.UTC(), Valid: true}
		}

		_, err = stmt.ExecContext(ctx,
			t.ID, i, t.Title, t.Description, t.Category, string(t.Status),
			t.CreatedAt.UTC(), t.UpdatedAt.UTC(), completedAt, t.ID == currentID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert todo %s: %w", t.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit todos: %w", err)
	}
	return nil
}

// Load rebuilds the snapshot from the table. An empty table yields an empty
// snapshot.
func (s *SQLStorage) Load(ctx context.Context) (*model.Snapshot, error) {
	query := `
		SELECT id, title, description, category, status,
			created_at, updated_at, completed_at, is_currently_doing
		FROM todos
		ORDER BY position`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	snap := &model.Snapshot{Todos: []model.Todo{}}
	for rows.Next() {
		todo, current, err := scanTodoRow(rows)
		if err != nil {
			return nil, err
		}
		snap.Todos = append(snap.Todos, todo)
		if current && snap.CurrentlyDoing == nil {
			c := todo.Clone()
			snap.CurrentlyDoing = &c
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return snap, nil
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTodoRow(row scannable) (model.Todo, bool, error) {
	var (
		t           model.Todo
		status      string
		completedAt sql.NullTime
		current     bool
	)
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Category, &status,
		&t.CreatedAt, &t.UpdatedAt, &completedAt, &current,
	)
	if err != nil {
		return model.Todo{}, false, fmt.Errorf("failed to scan todo row: %w", err)
	}

	t.Status = model.TodoStatus(status)
	if !t.Status.IsValid() {
		return model.Todo{}, false, fmt.Errorf("todo %s has unknown status %q", t.ID, status)
	}
	if completedAt.Valid {
		at := completedAt.Time
		t.CompletedAt = &at
	}
	return t, current, nil
}

// ensure compile-time interface compliance
var _ Storage = (*SQLStorage)(nil)
