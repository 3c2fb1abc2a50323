// Package format holds display formatting helpers shared by the CLI and TUI.
package format

import "fmt"

// PluralForm is the grammatical-number category of a count.
type PluralForm int

const (
	FormOne PluralForm = iota
	FormFew
	FormMany
)

// DayForm applies the numeral-agreement rule used for the "N days" badge.
// Counts ending 11-19 always take the many form; otherwise a final 1 takes
// one and a final 2-4 takes few. Implemented directly rather than through
// a locale API so the rule is identical everywhere the count is shown.
func DayForm(n int) PluralForm {
	if n < 0 {
		n = -n
	}
	if rem := n % 100; rem >= 11 && rem <= 19 {
		return FormMany
	}
	switch n % 10 {
	case 1:
		return FormOne
	case 2, 3, 4:
		return FormFew
	default:
		return FormMany
	}
}

// Days renders the completion-count badge, e.g. "1 day", "3 days".
func Days(n int) string {
	return DaysWith(n, "day", "days", "days")
}

// DaysWith renders the badge with caller-supplied forms, for languages
// where one, few, and many differ.
func DaysWith(n int, one, few, many string) string {
	switch DayForm(n) {
	case FormOne:
		return fmt.Sprintf("%d %s", n, one)
	case FormFew:
		return fmt.Sprintf("%d %s", n, few)
	default:
		return fmt.Sprintf("%d %s", n, many)
	}
}
