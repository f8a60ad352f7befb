package gridscope

// Options holds the heuristic constants the analysis is tuned by. The zero
// value of any field means "use the default", so callers can override a
// single knob:
//
//	result, err := gridscope.Analyze(grid, gridscope.Options{LayerCeiling: 10})
type Options struct {
	// MaxLeftScanGap is how many columns the row-label scan walks left of
	// a horizontal span. Default 10.
	MaxLeftScanGap int
	// MaxUpScanGap is how many rows the column-label scan walks up from a
	// vertical span. Default 30.
	MaxUpScanGap int
	// LayerCeiling bounds the number of display layers before further
	// linear-shift dominated layers are fused into the last one.
	// Default 7.
	LayerCeiling int
	// DateRunMinCells is the minimum number of date cells in an accepted
	// date run. Default 2.
	DateRunMinCells int
	// DateRunMinDensity is the minimum fraction of date cells over an
	// accepted run's span. Default 0.5.
	DateRunMinDensity float64
	// SectionHeaderCols is how many leading columns are searched for
	// section headers. Default 3.
	SectionHeaderCols int
	// DateHeaderRows is how many top rows are searched for the global
	// date header. Default 5.
	DateHeaderRows int
	// DateHeaderMinCells is the minimum number of date cells a row needs
	// to qualify as the global date header. Default 3.
	DateHeaderMinCells int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxLeftScanGap:     10,
		MaxUpScanGap:       30,
		LayerCeiling:       7,
		DateRunMinCells:    2,
		DateRunMinDensity:  0.5,
		SectionHeaderCols:  3,
		DateHeaderRows:     5,
		DateHeaderMinCells: 3,
	}
}

// getOptions resolves the variadic options argument, filling unset fields
// with their defaults.
func getOptions(opts ...Options) Options {
	options := DefaultOptions()
	if len(opts) == 0 {
		return options
	}
	o := opts[0]
	if o.MaxLeftScanGap > 0 {
		options.MaxLeftScanGap = o.MaxLeftScanGap
	}
	if o.MaxUpScanGap > 0 {
		options.MaxUpScanGap = o.MaxUpScanGap
	}
	if o.LayerCeiling > 0 {
		options.LayerCeiling = o.LayerCeiling
	}
	if o.DateRunMinCells > 0 {
		options.DateRunMinCells = o.DateRunMinCells
	}
	if o.DateRunMinDensity > 0 {
		options.DateRunMinDensity = o.DateRunMinDensity
	}
	if o.SectionHeaderCols > 0 {
		options.SectionHeaderCols = o.SectionHeaderCols
	}
	if o.DateHeaderRows > 0 {
		options.DateHeaderRows = o.DateHeaderRows
	}
	if o.DateHeaderMinCells > 0 {
		options.DateHeaderMinCells = o.DateHeaderMinCells
	}
	return options
}
