package service

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jaekwang-park/todo-tracker/internal/model"
)

// SortTodos returns a sorted copy of todos. Text orderings are
// case-insensitive and locale-aware; status orders by wire token.
// Newest-first puts later insertions first when creation times tie.
func SortTodos(todos []model.Todo, option model.SortOption) []model.Todo {
	out := slices.Clone(todos)

	switch option {
	case model.SortCreatedOldest:
		slices.SortStableFunc(out, func(a, b model.Todo) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case model.SortTitle:
		sortByText(out, func(t model.Todo) string { return t.Title })
	case model.SortCategory:
		sortByText(out, func(t model.Todo) string { return t.Category })
	case model.SortStatus:
		sortByText(out, func(t model.Todo) string { return string(t.Status) })
	default:
		slices.Reverse(out)
		slices.SortStableFunc(out, func(a, b model.Todo) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}

	return out
}

func sortByText(todos []model.Todo, key func(model.Todo) string) {
	c := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(todos, func(a, b model.Todo) int {
		return c.CompareString(key(a), key(b))
	})
}

// matcher reports whether a todo matches a search query under Unicode case
// folding. A matcher is not safe for concurrent use.
type matcher struct {
	fold  cases.Caser
	query string
}

func newMatcher(query string) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.query = m.fold.String(query)
	return m
}

func (m *matcher) matches(t model.Todo) bool {
	for _, field := range []string{t.Title, t.Description, t.Category} {
		if strings.Contains(m.fold.String(field), m.query) {
			return true
		}
	}
	return false
}
