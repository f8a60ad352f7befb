package gridscope

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteLayersTable renders the true layering as a tab-delimited table with
// a layer/sheet/address row per node, suitable for diffable snapshots.
func (r *Result) WriteLayersTable(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write([]string{"layer", "sheet", "address"}); err != nil {
		return err
	}
	for i, layer := range r.Layers {
		for _, key := range layer {
			sheet, col, row, ok := splitKey(key)
			if !ok {
				continue
			}
			addr, _ := CoordinatesToCellName(col, row)
			if err := cw.Write([]string{strconv.Itoa(i), sheet, addr}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFramesTable renders the display frames and date patterns as a
// tab-delimited table with a layer/kind/range row per compact range. Date
// patterns appear with kind "date" at layer 0.
func (r *Result) WriteFramesTable(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write([]string{"layer", "kind", "range"}); err != nil {
		return err
	}
	for _, p := range r.DatePatterns {
		if err := cw.Write([]string{"0", "date", p.Range()}); err != nil {
			return err
		}
	}
	for _, frame := range r.Frames {
		layer := strconv.Itoa(frame.Layer)
		for _, rng := range frame.HRanges {
			if err := cw.Write([]string{layer, "horizontal", rng}); err != nil {
				return err
			}
		}
		for _, rng := range frame.VRanges {
			if err := cw.Write([]string{layer, "vertical", rng}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
