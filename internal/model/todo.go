package model

import "time"

type TodoStatus string

const (
	TodoStatusInProgress TodoStatus = "in-progress"
	TodoStatusCompleted  TodoStatus = "completed"
	TodoStatusArchived   TodoStatus = "archived"
)

// Statuses lists every status in display order.
func Statuses() []TodoStatus {
	return []TodoStatus{TodoStatusInProgress, TodoStatusCompleted, TodoStatusArchived}
}

func (s TodoStatus) IsValid() bool {
	switch s {
	case TodoStatusInProgress, TodoStatusCompleted, TodoStatusArchived:
		return true
	}
	return false
}

func (s TodoStatus) DisplayName() string {
	switch s {
	case TodoStatusInProgress:
		return "In Progress"
	case TodoStatusCompleted:
		return "Completed"
	case TodoStatusArchived:
		return "Archived"
	default:
		return string(s)
	}
}

type Todo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Status      TodoStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// SetStatus moves the todo to status at time at. CompletedAt is set when
// entering completed and cleared when leaving it.
func (t *Todo) SetStatus(status TodoStatus, at time.Time) {
	previous := t.Status
	t.Status = status
	t.UpdatedAt = at

	if status == TodoStatusCompleted {
		completedAt := at
		t.CompletedAt = &completedAt
	} else if previous == TodoStatusCompleted {
		t.CompletedAt = nil
	}
}

// Clone returns a copy that shares no pointers with t.
func (t Todo) Clone() Todo {
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		t.CompletedAt = &completedAt
	}
	return t
}

// Snapshot is the whole persisted collection: every todo in order plus the
// item currently being worked on, if any.
type Snapshot struct {
	Todos          []Todo `json:"todos"`
	CurrentlyDoing *Todo  `json:"currentlyDoing"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Todos: make([]Todo, len(s.Todos))}
	for i, t := range s.Todos {
		out.Todos[i] = t.Clone()
	}
	if s.CurrentlyDoing != nil {
		current := s.CurrentlyDoing.Clone()
		out.CurrentlyDoing = &current
	}
	return out
}
