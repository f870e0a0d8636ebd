package inference

import "errors"

var (
	// ErrUnknownGroup reports a group name outside the canonical set.
	ErrUnknownGroup = errors.New("inference: unknown group")

	// ErrGroupSet reports an unrecognized predefined group-set name.
	ErrGroupSet = errors.New(`inference: predefined group sets are "posterior_groups" and "prior_groups"`)

	// ErrFormatName reports an unrecognized key-format name.
	ErrFormatName = errors.New(`inference: naming formats are "brackets", "underscore", and "cds"`)

	// ErrIndexOrigin reports an index origin other than 0 or 1.
	ErrIndexOrigin = errors.New("inference: index origin must be 0 or 1")

	// ErrNoValues reports a raw variable with an empty value buffer.
	ErrNoValues = errors.New("inference: variable has no values")

	// ErrRawShape reports a raw variable whose values do not fit its shape.
	ErrRawShape = errors.New("inference: values do not match the declared shape")
)
