package gridscope

import "sort"

// Frame is the compact rectangular-range rendering of one display layer.
// Height-1 rectangles appear in HRanges, width-1 in VRanges, larger
// rectangles and degenerate single cells in both.
type Frame struct {
	Layer   int
	HRanges []string
	VRanges []string
	// Keys are the node keys the frame covers, sorted. The union of the
	// frame's ranges equals exactly this set.
	Keys   []string
	Labels []Label
}

// rect is an axis-aligned cell rectangle on one sheet, 1-based inclusive.
type rect struct {
	sheet  string
	c1, r1 int
	c2, r2 int
}

func (r rect) width() int  { return r.c2 - r.c1 + 1 }
func (r rect) height() int { return r.r2 - r.r1 + 1 }

func (r rect) rangeString() string {
	start := nodeKey(r.sheet, r.c1, r.r1)
	if r.width() == 1 && r.height() == 1 {
		return start
	}
	end, _ := CoordinatesToCellName(r.c2, r.r2)
	return start + ":" + end
}

// compactLayer packs one layer's addresses into rectangles: candidate cells
// are scanned in row-major order per sheet, and each unprocessed cell grows
// the largest rectangle of present, unprocessed cells, preferring the
// taller rectangle on equal area.
func compactLayer(keys []string) []rect {
	type pos struct{ row, col int }
	bySheet := make(map[string]map[pos]bool)
	for _, key := range keys {
		sheet, col, row, ok := splitKey(key)
		if !ok {
			continue
		}
		if bySheet[sheet] == nil {
			bySheet[sheet] = make(map[pos]bool)
		}
		bySheet[sheet][pos{row, col}] = true
	}

	sheets := make([]string, 0, len(bySheet))
	for sheet := range bySheet {
		sheets = append(sheets, sheet)
	}
	sort.Strings(sheets)

	var rects []rect
	for _, sheet := range sheets {
		present := bySheet[sheet]
		order := make([]pos, 0, len(present))
		for p := range present {
			order = append(order, p)
		}
		sort.Slice(order, func(a, b int) bool {
			if order[a].row != order[b].row {
				return order[a].row < order[b].row
			}
			return order[a].col < order[b].col
		})

		free := make(map[pos]bool, len(present))
		for p := range present {
			free[p] = true
		}
		for _, anchor := range order {
			if !free[anchor] {
				continue
			}
			// Widest free strip on the anchor row bounds the search.
			maxW := 0
			for free[pos{anchor.row, anchor.col + maxW}] {
				maxW++
			}
			best := rect{sheet: sheet, c1: anchor.col, r1: anchor.row, c2: anchor.col, r2: anchor.row}
			bestArea := 1
			for w := 1; w <= maxW; w++ {
				h := 0
			grow:
				for {
					for c := 0; c < w; c++ {
						if !free[pos{anchor.row + h, anchor.col + c}] {
							break grow
						}
					}
					h++
				}
				area := w * h
				if area > bestArea || (area == bestArea && h > best.height()) {
					best = rect{sheet: sheet, c1: anchor.col, r1: anchor.row, c2: anchor.col + w - 1, r2: anchor.row + h - 1}
					bestArea = area
				}
			}
			for r := best.r1; r <= best.r2; r++ {
				for c := best.c1; c <= best.c2; c++ {
					delete(free, pos{r, c})
				}
			}
			rects = append(rects, best)
		}
	}
	return rects
}

// buildFrame renders one display layer's rectangles into a frame.
func buildFrame(layer int, keys []string) (Frame, []rect) {
	frame := Frame{Layer: layer, Keys: append([]string(nil), keys...)}
	sort.Strings(frame.Keys)
	rects := compactLayer(keys)
	for _, r := range rects {
		s := r.rangeString()
		switch {
		case r.width() == 1 && r.height() == 1:
			frame.HRanges = append(frame.HRanges, s)
			frame.VRanges = append(frame.VRanges, s)
		case r.height() == 1:
			frame.HRanges = append(frame.HRanges, s)
		case r.width() == 1:
			frame.VRanges = append(frame.VRanges, s)
		default:
			frame.HRanges = append(frame.HRanges, s)
			frame.VRanges = append(frame.VRanges, s)
		}
	}
	return frame, rects
}
