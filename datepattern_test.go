package gridscope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dateGrid() *Grid {
	return NewGrid("Sheet1")
}

func setDate(g *Grid, row, col int) {
	g.Set("Sheet1", row, col, Cell{Value: "x", Display: "2024-01-05", Style: &CellStyle{Date: true}})
}

func TestDateRunToleratesSparseGap(t *testing.T) {
	// Five date cells with one blank gap in the middle: one run, density
	// 5/6.
	grid := dateGrid()
	for _, col := range []int{1, 2, 4, 5, 6} {
		setDate(grid, 1, col)
	}

	g := buildGraph(grid)
	patterns := detectDatePatterns(grid, g.DateCells, DefaultOptions())

	require.Len(t, patterns, 1)
	p := patterns[0]
	assert.True(t, p.Horizontal)
	assert.Equal(t, 1, p.Row)
	assert.Equal(t, 1, p.Col)
	assert.Equal(t, 6, p.Span)
	assert.Equal(t, 5, p.Count)
	assert.Equal(t, "Sheet1!A1:F1", p.Range())
}

func TestDateRunRejectsWideGaps(t *testing.T) {
	// The same five cells each separated by three non-date cells never
	// reach the density floor, so no run is detected.
	grid := dateGrid()
	for i := 0; i < 5; i++ {
		setDate(grid, 1, 1+4*i)
		for j := 1; j <= 3; j++ {
			grid.Set("Sheet1", 1, 1+4*i+j, Cell{Value: "x"})
		}
	}

	g := buildGraph(grid)
	patterns := detectDatePatterns(grid, g.DateCells, DefaultOptions())

	assert.Empty(t, patterns)
}

func TestDateRunVertical(t *testing.T) {
	grid := dateGrid()
	for row := 2; row <= 5; row++ {
		setDate(grid, row, 3)
	}

	g := buildGraph(grid)
	patterns := detectDatePatterns(grid, g.DateCells, DefaultOptions())

	require.Len(t, patterns, 1)
	p := patterns[0]
	assert.False(t, p.Horizontal)
	assert.Equal(t, 4, p.Span)
	assert.Equal(t, 4, p.Count)
	assert.Equal(t, "Sheet1!C2:C5", p.Range())
}

func TestDateRunMinimumCells(t *testing.T) {
	grid := dateGrid()
	setDate(grid, 1, 1)

	g := buildGraph(grid)
	patterns := detectDatePatterns(grid, g.DateCells, DefaultOptions())

	assert.Empty(t, patterns)
}

func TestDateRunClaimsCellsOnce(t *testing.T) {
	// One horizontal run must not re-anchor from its own later cells.
	grid := dateGrid()
	for col := 1; col <= 4; col++ {
		setDate(grid, 1, col)
	}

	g := buildGraph(grid)
	patterns := detectDatePatterns(grid, g.DateCells, DefaultOptions())

	require.Len(t, patterns, 1)
	assert.Equal(t, "Sheet1!A1:D1", patterns[0].Range())
}

func TestDateRunPrefersDenserOrientation(t *testing.T) {
	// A cross: 4 cells down, 2 across. The vertical run is denser from
	// the shared anchor.
	grid := dateGrid()
	for row := 1; row <= 4; row++ {
		setDate(grid, row, 1)
	}
	setDate(grid, 1, 2)

	g := buildGraph(grid)
	patterns := detectDatePatterns(grid, g.DateCells, DefaultOptions())

	// The lone horizontal neighbour cannot form a second run on its own.
	require.Len(t, patterns, 1)
	assert.False(t, patterns[0].Horizontal)
	assert.Equal(t, 4, patterns[0].Count)
	assert.Equal(t, "Sheet1!A1:A4", patterns[0].Range())
}