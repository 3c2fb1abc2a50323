package models

import "fmt"

// FilterMode selects which trackers the visible list shows for a date.
// The raw integer value is what gets persisted in settings, so the
// ordering here is part of the storage format.
type FilterMode int

const (
	FilterAll FilterMode = iota
	FilterToday
	FilterCompleted
	FilterUncompleted
)

func (m FilterMode) Valid() bool {
	return m >= FilterAll && m <= FilterUncompleted
}

func (m FilterMode) String() string {
	switch m {
	case FilterAll:
		return "all"
	case FilterToday:
		return "today"
	case FilterCompleted:
		return "completed"
	case FilterUncompleted:
		return "uncompleted"
	default:
		return fmt.Sprintf("FilterMode(%d)", int(m))
	}
}

// ParseFilterMode parses a filter mode name.
func ParseFilterMode(s string) (FilterMode, error) {
	switch s {
	case "all":
		return FilterAll, nil
	case "today":
		return FilterToday, nil
	case "completed":
		return FilterCompleted, nil
	case "uncompleted":
		return FilterUncompleted, nil
	default:
		return 0, fmt.Errorf("invalid filter mode: %q (expected all, today, completed, or uncompleted)", s)
	}
}
