package labeled

import "fmt"

// FilterMode selects how variable-name patterns are matched.
type FilterMode string

const (
	// FilterExact matches names literally. Zero value.
	FilterExact FilterMode = ""
	// FilterLike matches any name containing the pattern as a substring.
	FilterLike FilterMode = "like"
	// FilterRegex matches any name the pattern finds as a regular expression.
	FilterRegex FilterMode = "regex"
)

// ParseFilterMode validates a user-supplied mode string.
func ParseFilterMode(s string) (FilterMode, error) {
	m := FilterMode(s)
	if err := m.Validate(); err != nil {
		return FilterExact, err
	}
	return m, nil
}

// Validate rejects anything but the three defined modes.
func (m FilterMode) Validate() error {
	switch m {
	case FilterExact, FilterLike, FilterRegex:
		return nil
	}
	return fmt.Errorf("%w: got %q", ErrFilterMode, string(m))
}
