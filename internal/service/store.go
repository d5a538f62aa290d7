package service

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jaekwang-park/todo-tracker/internal/model"
	"github.com/jaekwang-park/todo-tracker/internal/repository"
	"github.com/jaekwang-park/todo-tracker/internal/snapshot"
)

// DefaultCategory is used when a todo is added without a category.
const DefaultCategory = "General"

type AddInput struct {
	Title       string
	Description string
	Category    string
}

// EditInput holds the fields to change; nil fields are left alone.
type EditInput struct {
	Title       *string
	Description *string
	Category    *string
}

type StoreConfig struct {
	Logger     *slog.Logger
	SortOption model.SortOption
	Now        func() time.Time
	NewID      func() string
	// OnChange runs after every mutation, outside the store lock.
	OnChange func()
}

// TodoStore owns the in-memory todo collection. Every mutation writes the
// full snapshot to storage before returning. Storage failures are logged and
// the in-memory state stays authoritative.
type TodoStore struct {
	mu       sync.Mutex
	storage  repository.Storage
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	onChange func()

	todos      []model.Todo
	currentID  string
	sortOption model.SortOption
}

// NewTodoStore builds a store and loads whatever storage holds. A load
// failure is logged and the store starts empty.
func NewTodoStore(ctx context.Context, storage repository.Storage, cfg StoreConfig) *TodoStore {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if !cfg.SortOption.IsValid() {
		cfg.SortOption = model.SortCreatedNewest
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.OnChange == nil {
		cfg.OnChange = func() {}
	}

	s := &TodoStore{
		storage:    storage,
		logger:     cfg.Logger,
		now:        cfg.Now,
		newID:      cfg.NewID,
		onChange:   cfg.OnChange,
		todos:      []model.Todo{},
		sortOption: cfg.SortOption,
	}

	snap, err := storage.Load(ctx)
	switch {
	case err != nil:
		s.logger.ErrorContext(ctx, "failed to load todos", "error", err)
	case snap != nil:
		s.replace(ctx, *snap)
		s.logger.DebugContext(ctx, "todos loaded", "count", len(s.todos))
	}

	return s
}

func (s *TodoStore) Add(ctx context.Context, input AddInput) (model.Todo, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.Todo{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = DefaultCategory
	}

	var created model.Todo
	err := s.mutate(ctx, func() error {
		now := s.now()
		created = model.Todo{
			ID:          s.newID(),
			Title:       title,
			Description: strings.TrimSpace(input.Description),
			Category:    strings.ToLower(category),
			Status:      model.TodoStatusInProgress,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.todos = append(s.todos, created)
		return nil
	})
	return created, err
}

func (s *TodoStore) UpdateStatus(ctx context.Context, id string, status model.TodoStatus) (model.Todo, error) {
	if !status.IsValid() {
		return model.Todo{}, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}

	var updated model.Todo
	err := s.mutate(ctx, func() error {
		i := s.indexOf(id)
		if i < 0 {
			return ErrNotFound
		}
		s.todos[i].SetStatus(status, s.now())
		updated = s.todos[i].Clone()
		return nil
	})
	return updated, err
}

// Edit trims every supplied field and lowercases the category. UpdatedAt is
// refreshed even when no field actually changes.
func (s *TodoStore) Edit(ctx context.Context, id string, input EditInput) (model.Todo, error) {
	var title string
	if input.Title != nil {
		title = strings.TrimSpace(*input.Title)
		if title == "" {
			return model.Todo{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
	}

	var updated model.Todo
	err := s.mutate(ctx, func() error {
		i := s.indexOf(id)
		if i < 0 {
			return ErrNotFound
		}
		t := &s.todos[i]
		if input.Title != nil {
			t.Title = title
		}
		if input.Description != nil {
			t.Description = strings.TrimSpace(*input.Description)
		}
		if input.Category != nil {
			t.Category = strings.ToLower(strings.TrimSpace(*input.Category))
		}
		t.UpdatedAt = s.now()
		updated = t.Clone()
		return nil
	})
	return updated, err
}

// SetCurrentlyDoing marks id as the item being worked on; an empty id clears
// the mark. The previously marked item, if different, returns to in-progress.
func (s *TodoStore) SetCurrentlyDoing(ctx context.Context, id string) error {
	return s.mutate(ctx, func() error {
		if id != "" && s.indexOf(id) < 0 {
			return ErrNotFound
		}
		if s.currentID != "" && s.currentID != id {
			if i := s.indexOf(s.currentID); i >= 0 {
				s.todos[i].SetStatus(model.TodoStatusInProgress, s.now())
			}
		}
		s.currentID = id
		return nil
	})
}

func (s *TodoStore) CompleteCurrentlyDoing(ctx context.Context) (model.Todo, error) {
	return s.finishCurrentlyDoing(ctx, model.TodoStatusCompleted)
}

func (s *TodoStore) ArchiveCurrentlyDoing(ctx context.Context) (model.Todo, error) {
	return s.finishCurrentlyDoing(ctx, model.TodoStatusArchived)
}

func (s *TodoStore) finishCurrentlyDoing(ctx context.Context, status model.TodoStatus) (model.Todo, error) {
	var finished model.Todo
	err := s.mutate(ctx, func() error {
		i := s.indexOf(s.currentID)
		if s.currentID == "" || i < 0 {
			return ErrNotFound
		}
		s.todos[i].SetStatus(status, s.now())
		s.currentID = ""
		finished = s.todos[i].Clone()
		return nil
	})
	return finished, err
}

func (s *TodoStore) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func() error {
		i := s.indexOf(id)
		if i < 0 {
			return ErrNotFound
		}
		s.todos = slices.Delete(s.todos, i, i+1)
		if s.currentID == id {
			s.currentID = ""
		}
		return nil
	})
}

func (s *TodoStore) Get(id string) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Todo{}, ErrNotFound
	}
	return s.todos[i].Clone(), nil
}

func (s *TodoStore) CurrentlyDoing() (model.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(s.currentID)
	if s.currentID == "" || i < 0 {
		return model.Todo{}, false
	}
	return s.todos[i].Clone(), true
}

// All returns every todo in the store's sort order.
func (s *TodoStore) All() []model.Todo {
	return s.filter(func(model.Todo) bool { return true })
}

func (s *TodoStore) ByStatus(status model.TodoStatus) []model.Todo {
	return s.filter(func(t model.Todo) bool { return t.Status == status })
}

func (s *TodoStore) ByCategory(category string) []model.Todo {
	category = strings.ToLower(strings.TrimSpace(category))
	return s.filter(func(t model.Todo) bool { return t.Category == category })
}

// Search matches query case-insensitively against title, description and
// category. An empty query returns everything.
func (s *TodoStore) Search(query string) []model.Todo {
	if query == "" {
		return s.All()
	}
	m := newMatcher(query)
	return s.filter(m.matches)
}

// Categories returns the distinct categories in byte order.
func (s *TodoStore) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]struct{}, len(s.todos))
	for _, t := range s.todos {
		set[t.Category] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

func (s *TodoStore) SortOption() model.SortOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortOption
}

func (s *TodoStore) SetSortOption(option model.SortOption) error {
	if !option.IsValid() {
		return fmt.Errorf("%w: unknown sort option %q", ErrInvalidInput, option)
	}
	s.mu.Lock()
	s.sortOption = option
	s.mu.Unlock()

	s.onChange()
	return nil
}

// Snapshot returns a deep copy of the collection.
func (s *TodoStore) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Export encodes the collection in the snapshot interchange format.
func (s *TodoStore) Export() ([]byte, error) {
	return snapshot.Encode(s.Snapshot())
}

// Import replaces the whole collection with the decoded payload. A payload
// that does not decode leaves the store untouched and returns an error
// wrapping ErrInvalidInput.
func (s *TodoStore) Import(ctx context.Context, data []byte) error {
	snap, err := snapshot.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	err = s.mutate(ctx, func() error {
		s.replace(ctx, snap)
		return nil
	})
	if err == nil {
		s.logger.InfoContext(ctx, "todos imported", "count", len(snap.Todos))
	}
	return err
}

// mutate runs fn under the lock and persists when it succeeds. Listeners are
// notified after the lock is released.
func (s *TodoStore) mutate(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	err := fn()
	if err == nil {
		s.persist(ctx)
	}
	s.mu.Unlock()

	if err == nil {
		s.onChange()
	}
	return err
}

func (s *TodoStore) persist(ctx context.Context) {
	if err := s.storage.Save(ctx, s.snapshotLocked()); err != nil {
		s.logger.ErrorContext(ctx, "failed to save todos",
			"error", err,
			"count", len(s.todos),
		)
	}
}

func (s *TodoStore) snapshotLocked() model.Snapshot {
	snap := model.Snapshot{Todos: s.todos}
	if i := s.indexOf(s.currentID); s.currentID != "" && i >= 0 {
		snap.CurrentlyDoing = &s.todos[i]
	}
	return snap.Clone()
}

// replace installs snap as the collection. A currentlyDoing that names no
// todo in the collection is dropped.
func (s *TodoStore) replace(ctx context.Context, snap model.Snapshot) {
	snap = snap.Clone()
	s.todos = snap.Todos
	if s.todos == nil {
		s.todos = []model.Todo{}
	}

	s.currentID = ""
	if snap.CurrentlyDoing != nil {
		id := snap.CurrentlyDoing.ID
		if s.indexOf(id) >= 0 {
			s.currentID = id
		} else {
			s.logger.WarnContext(ctx, "dropping currently doing reference to unknown todo", "todo_id", id)
		}
	}
}

func (s *TodoStore) filter(keep func(model.Todo) bool) []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	return SortTodos(out, s.sortOption)
}

func (s *TodoStore) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.todos, func(t model.Todo) bool { return t.ID == id })
}
