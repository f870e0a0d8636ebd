package labeled

import (
	"fmt"
	"regexp"
	"strings"
)

const negation = "~"

// SelectNames resolves a variable-name selection against one or more
// datasets and returns the names to retain, in a deterministic order.
//
// A nil selection is the "keep everything" sentinel and resolves to nil.
// Entries prefixed with '~' are exclusions, unless the prefixed form is
// itself a variable present in some dataset, in which case it stays a literal
// candidate. Exclusions take over the whole resolution: the result is every
// known variable not excluded, in first-seen dataset order, and any inclusion
// entries are ignored. Without exclusions, FilterLike keeps every known name
// containing some pattern, FilterRegex every name some pattern matches, both
// in first-seen order (a name repeats when several patterns hit it), and
// FilterExact returns the selection as given.
//
// Names that survive resolution but exist in no dataset fail with
// ErrVarNotFound. Non-fatal conditions (dataset variables literally starting
// with '~', exclusions that matched nothing) come back as warning strings.
func SelectNames(names []string, data []*Dataset, mode FilterMode) (selected, warnings []string, err error) {
	if err := mode.Validate(); err != nil {
		return nil, nil, err
	}
	if names == nil {
		return nil, nil, nil
	}

	universal := make([]string, 0, 8)
	known := make(map[string]struct{})
	for _, ds := range data {
		for _, n := range ds.Names() {
			if _, ok := known[n]; !ok {
				known[n] = struct{}{}
				universal = append(universal, n)
			}
		}
	}

	var literalTildes []string
	for _, n := range universal {
		if strings.HasPrefix(n, negation) {
			literalTildes = append(literalTildes, n)
		}
	}
	if len(literalTildes) > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"'~' marks negation in variable selections, but these variables literally start with it: %s; double check that the result keeps every variable you expect",
			strings.Join(literalTildes, ", ")))
	}

	var excluded []string
	for _, n := range names {
		if strings.HasPrefix(n, negation) {
			if _, literal := known[n]; !literal {
				excluded = append(excluded, strings.TrimPrefix(n, negation))
			}
		}
	}

	switch {
	case len(excluded) > 0:
		var notFound []string
		if mode == FilterLike || mode == FilterRegex {
			var expanded []string
			for _, pat := range excluded {
				matches, merr := matchAll(universal, pat, mode)
				if merr != nil {
					return nil, warnings, merr
				}
				if len(matches) == 0 {
					notFound = append(notFound, pat)
				}
				expanded = append(expanded, matches...)
			}
			excluded = expanded
		}
		drop := make(map[string]struct{}, len(excluded))
		for _, e := range excluded {
			if _, ok := known[e]; !ok {
				notFound = append(notFound, e)
			}
			drop[e] = struct{}{}
		}
		if len(notFound) > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"negated entries matched nothing and were ignored: %s", strings.Join(notFound, ", ")))
		}
		selected = make([]string, 0, len(universal))
		for _, n := range universal {
			if _, ok := drop[n]; !ok {
				selected = append(selected, n)
			}
		}

	case mode == FilterLike, mode == FilterRegex:
		var regs []*regexp.Regexp
		if mode == FilterRegex {
			regs = make([]*regexp.Regexp, len(names))
			for i, pat := range names {
				re, rerr := regexp.Compile(pat)
				if rerr != nil {
					return nil, warnings, fmt.Errorf("%w: %q: %v", ErrPattern, pat, rerr)
				}
				regs[i] = re
			}
		}
		// Universal-name-major, pattern-minor: a name repeats once per
		// matching pattern.
		for _, n := range universal {
			for i, pat := range names {
				hit := mode == FilterLike && strings.Contains(n, pat)
				if mode == FilterRegex {
					hit = regs[i].MatchString(n)
				}
				if hit {
					selected = append(selected, n)
				}
			}
		}

	default:
		selected = append([]string(nil), names...)
	}

	var missing []string
	for _, n := range selected {
		if _, ok := known[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return nil, warnings, fmt.Errorf("%w: %s", ErrVarNotFound, strings.Join(missing, ", "))
	}
	return selected, warnings, nil
}

func matchAll(universal []string, pat string, mode FilterMode) ([]string, error) {
	if mode == FilterLike {
		var out []string
		for _, n := range universal {
			if strings.Contains(n, pat) {
				out = append(out, n)
			}
		}
		return out, nil
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrPattern, pat, err)
	}
	var out []string
	for _, n := range universal {
		if re.MatchString(n) {
			out = append(out, n)
		}
	}
	return out, nil
}
