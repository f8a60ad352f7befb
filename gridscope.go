// Package gridscope analyzes one snapshot of a multi-sheet spreadsheet
// grid: it reconstructs the formula reference graph, groups
// mechanically-replicated copies of the same formula, layers the
// computation in forward topological order, compacts each layer into
// minimal rectangular display ranges, and infers human-readable labels for
// each range from the surrounding text.
//
// The engine never evaluates formulas and keeps no state between calls:
// Analyze is a pure function of the grid it receives, so concurrent calls
// with separate snapshots need no synchronization.
package gridscope

import (
	"github.com/tiendc/go-deepcopy"
)

// Result is the complete outcome of one analysis call.
type Result struct {
	// Graph is the raw reference graph with per-node metadata, for callers
	// needing finer inspection than layers and frames.
	Graph *Graph
	// Groups is the final replication partition.
	Groups []Group
	// Layers is the true forward topological layering: expanded node keys,
	// each list sorted. Every node appears in exactly one layer.
	Layers [][]string
	// Frames renders the display layering, which may fuse adjacent
	// linear-shift dominated layers of Layers for presentation.
	Frames []Frame
	// DatePatterns are the detected date runs, all rendered at layer 0.
	DatePatterns []DatePattern
}

// Analyze runs the full dependency-and-labeling analysis over a grid
// snapshot. The grid is deep-copied first, so the caller may keep mutating
// its own structures; everything in the result is derived from the copy.
//
// The only error conditions are a nil or sheetless grid and an unresolvable
// primary sheet. Malformed formulas, circular references and empty cells
// are handled, not reported.
func Analyze(grid *Grid, opts ...Options) (*Result, error) {
	if grid == nil || len(grid.Sheets) == 0 {
		return nil, ErrNilGrid
	}
	options := getOptions(opts...)

	snapshot := &Grid{}
	if err := deepcopy.Copy(snapshot, grid); err != nil {
		return nil, err
	}
	if snapshot.Primary == "" {
		if len(snapshot.Sheets) != 1 {
			return nil, ErrPrimarySheet
		}
		for sheet := range snapshot.Sheets {
			snapshot.Primary = sheet
		}
	}
	if _, ok := snapshot.Sheets[snapshot.Primary]; !ok {
		return nil, ErrPrimarySheet
	}

	graph := buildGraph(snapshot)
	groups, membership := groupNodes(graph)
	layers := buildLayers(graph, membership)
	display := mergeDisplayLayers(layers, graph, options.LayerCeiling)

	index := buildTextIndex(snapshot, graph.DateCells, options)
	frames := make([]Frame, 0, len(display))
	for i, layer := range display {
		frame, rects := buildFrame(i, layer)
		index.labelFrame(&frame, rects, options)
		frames = append(frames, frame)
	}

	return &Result{
		Graph:        graph,
		Groups:       groups,
		Layers:       layers,
		Frames:       frames,
		DatePatterns: detectDatePatterns(snapshot, graph.DateCells, options),
	}, nil
}
