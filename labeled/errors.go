package labeled

import "errors"

var (
	// ErrDimMismatch reports a dims list whose length differs from the shape.
	ErrDimMismatch = errors.New("labeled: dims and shape lengths differ")

	// ErrBadShape reports a non-positive dimension size.
	ErrBadShape = errors.New("labeled: shape entries must be positive")

	// ErrSize reports a data buffer whose length does not match the shape.
	ErrSize = errors.New("labeled: data length does not match shape")

	// ErrCoordLen reports coordinate labels whose count differs from the
	// dimension size.
	ErrCoordLen = errors.New("labeled: coordinate labels do not match dimension size")

	ErrDupDim      = errors.New("labeled: duplicate dimension name")
	ErrDupVar      = errors.New("labeled: duplicate variable name")
	ErrDimConflict = errors.New("labeled: conflicting dimension across variables")

	// ErrUnknownDim reports a dimension name absent from an array.
	ErrUnknownDim = errors.New("labeled: unknown dimension")

	// ErrCoordKey reports selection keys that name no dimension.
	ErrCoordKey = errors.New("labeled: invalid coordinate keys")

	// ErrCoordLabel reports a selection label absent from a dimension.
	ErrCoordLabel = errors.New("labeled: coordinate label not found")

	// ErrVarNotFound reports selected variable names that exist in no dataset.
	ErrVarNotFound = errors.New("labeled: variable names not present in any dataset")

	// ErrFilterMode reports an unrecognized filter mode.
	ErrFilterMode = errors.New(`labeled: filter mode must be "", "like", or "regex"`)

	// ErrPattern reports a selection pattern that does not compile.
	ErrPattern = errors.New("labeled: invalid selection pattern")
)
