package gridscope

import "errors"

var (
	// ErrNilGrid is returned when Analyze receives a nil grid or a grid
	// with no sheets.
	ErrNilGrid = errors.New("gridscope: nil or empty grid")
	// ErrPrimarySheet is returned when the grid's primary sheet cannot be
	// resolved: it names a missing sheet, or it is empty while several
	// sheets are present.
	ErrPrimarySheet = errors.New("gridscope: primary sheet not resolved")
)
