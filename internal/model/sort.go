package model

import "fmt"

type SortOption string

const (
	SortCreatedNewest SortOption = "created-newest"
	SortCreatedOldest SortOption = "created-oldest"
	SortTitle         SortOption = "title"
	SortCategory      SortOption = "category"
	SortStatus        SortOption = "status"
)

func SortOptions() []SortOption {
	return []SortOption{SortCreatedNewest, SortCreatedOldest, SortTitle, SortCategory, SortStatus}
}

func (o SortOption) IsValid() bool {
	switch o {
	case SortCreatedNewest, SortCreatedOldest, SortTitle, SortCategory, SortStatus:
		return true
	}
	return false
}

func (o SortOption) DisplayName() string {
	switch o {
	case SortCreatedNewest:
		return "Newest First"
	case SortCreatedOldest:
		return "Oldest First"
	case SortTitle:
		return "Title"
	case SortCategory:
		return "Category"
	case SortStatus:
		return "Status"
	default:
		return string(o)
	}
}

// ParseSortOption parses a wire token. The empty string yields the default.
func ParseSortOption(s string) (SortOption, error) {
	if s == "" {
		return SortCreatedNewest, nil
	}
	o := SortOption(s)
	if !o.IsValid() {
		return "", fmt.Errorf("unknown sort option %q", s)
	}
	return o, nil
}
