package labeled

import "strings"

// FormatSelection renders a display label for one slice of a variable:
// the bare name when no extra dimensions are fixed, otherwise
// "name[label1, label2]" with labels in dims order.
func FormatSelection(name string, dims []string, labels map[string]string) string {
	if len(dims) == 0 {
		return name
	}
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = labels[d]
	}
	return name + "[" + strings.Join(parts, ", ") + "]"
}
