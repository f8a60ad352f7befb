package gridscope

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeNilGrid(t *testing.T) {
	_, err := Analyze(nil)
	assert.ErrorIs(t, err, ErrNilGrid)

	_, err = Analyze(&Grid{})
	assert.ErrorIs(t, err, ErrNilGrid)
}

func TestAnalyzePrimarySheetErrors(t *testing.T) {
	grid := NewGrid("")
	grid.Set("Alpha", 1, 1, Cell{Value: "1"})
	grid.Set("Beta", 1, 1, Cell{Value: "2"})
	_, err := Analyze(grid)
	assert.ErrorIs(t, err, ErrPrimarySheet)

	grid.Primary = "Gamma"
	_, err = Analyze(grid)
	assert.ErrorIs(t, err, ErrPrimarySheet)
}

func TestNewGridEmptyPrimaryCreatesNoSheet(t *testing.T) {
	grid := NewGrid("")
	assert.Empty(t, grid.Sheets)

	grid.Set("Only", 1, 1, Cell{Value: "1"})
	assert.Len(t, grid.Sheets, 1)
}

func TestAnalyzePrimaryDefaultsForSingleSheet(t *testing.T) {
	grid := NewGrid("")
	grid.Set("Only", 1, 1, Cell{Value: "10"})
	grid.Set("Only", 1, 2, Cell{Value: "=A1*2"})

	result, err := Analyze(grid)
	require.NoError(t, err)
	assert.Contains(t, result.Graph.Nodes, "Only!A1")
	assert.Contains(t, result.Graph.Nodes, "Only!B1")
}

func TestAnalyzeNoFormulas(t *testing.T) {
	grid := NewGrid("Sheet1")
	grid.Set("Sheet1", 1, 1, Cell{Value: "hello"})
	grid.Set("Sheet1", 2, 1, Cell{Value: "42"})

	result, err := Analyze(grid)
	require.NoError(t, err)
	assert.Empty(t, result.Graph.Nodes)
	assert.Empty(t, result.Groups)
	assert.Empty(t, result.Layers)
	assert.Empty(t, result.Frames)
}

func TestAnalyzeLeafAndFormula(t *testing.T) {
	grid := NewGrid("Sheet1")
	grid.Set("Sheet1", 1, 1, Cell{Value: "10"})
	grid.Set("Sheet1", 1, 2, Cell{Value: "=A1*2"})

	result, err := Analyze(grid)
	require.NoError(t, err)

	require.Len(t, result.Layers, 2)
	assert.Equal(t, []string{"Sheet1!A1"}, result.Layers[0])
	assert.Equal(t, []string{"Sheet1!B1"}, result.Layers[1])

	assert.Equal(t, []string{"Sheet1!A1"}, result.Graph.PrecedentsOf("Sheet1!B1"))
	assert.Equal(t, []string{"Sheet1!B1"}, result.Graph.DependentsOf("Sheet1!A1"))
}

func TestAnalyzeReplicatedRowShareGroupAndLayer(t *testing.T) {
	grid := NewGrid("Sheet1")
	grid.Set("Sheet1", 1, 1, Cell{Value: "1"})
	grid.Set("Sheet1", 1, 2, Cell{Value: "2"})
	grid.Set("Sheet1", 1, 3, Cell{Value: "=A1*2"})
	grid.Set("Sheet1", 1, 4, Cell{Value: "=B1*2"})

	result, err := Analyze(grid)
	require.NoError(t, err)

	var replicated *Group
	for i := range result.Groups {
		if len(result.Groups[i].Members) == 2 {
			replicated = &result.Groups[i]
		}
	}
	require.NotNil(t, replicated)
	assert.Equal(t, "Sheet1!C1", replicated.ID)
	assert.Equal(t, []string{"Sheet1!C1", "Sheet1!D1"}, replicated.Members)

	require.Len(t, result.Layers, 2)
	assert.Equal(t, []string{"Sheet1!C1", "Sheet1!D1"}, result.Layers[1])
}

func TestAnalyzeCircularPairTerminates(t *testing.T) {
	grid := NewGrid("Sheet1")
	grid.Set("Sheet1", 1, 1, Cell{Value: "=B1"})
	grid.Set("Sheet1", 1, 2, Cell{Value: "=A1"})

	result, err := Analyze(grid)
	require.NoError(t, err)

	require.Len(t, result.Layers, 1)
	assert.Equal(t, []string{"Sheet1!A1", "Sheet1!B1"}, result.Layers[0])
}

func TestAnalyzeFramesCoverDisplayedNodes(t *testing.T) {
	grid := NewGrid("Sheet1")
	grid.Set("Sheet1", 1, 1, Cell{Value: "5"})
	for row := 2; row <= 6; row++ {
		grid.Set("Sheet1", row, 1, Cell{Value: fmt.Sprintf("=A%d+1", row-1)})
	}
	grid.Set("Sheet1", 1, 3, Cell{Value: "=SUM(A1:A6)"})

	result, err := Analyze(grid)
	require.NoError(t, err)

	layered := make(map[string]bool)
	for _, layer := range result.Layers {
		for _, key := range layer {
			assert.False(t, layered[key], "node %s in two layers", key)
			layered[key] = true
		}
	}
	framed := make(map[string]bool)
	for _, frame := range result.Frames {
		for _, key := range frame.Keys {
			framed[key] = true
		}
	}
	assert.Equal(t, layered, framed)
	assert.Len(t, layered, len(result.Graph.Nodes))
}

func TestAnalyzeLayerCeilingOption(t *testing.T) {
	grid := NewGrid("Sheet1")
	grid.Set("Sheet1", 1, 1, Cell{Value: "1"})
	for row := 2; row <= 12; row++ {
		grid.Set("Sheet1", row, 1, Cell{Value: fmt.Sprintf("=A%d+1", row-1)})
	}

	result, err := Analyze(grid)
	require.NoError(t, err)
	assert.Len(t, result.Layers, 12)
	assert.LessOrEqual(t, len(result.Frames), DefaultOptions().LayerCeiling)

	result, err = Analyze(grid, Options{LayerCeiling: 3})
	require.NoError(t, err)
	assert.Len(t, result.Layers, 12)
	assert.LessOrEqual(t, len(result.Frames), 3)
}

func TestAnalyzeLeavesInputUntouched(t *testing.T) {
	grid := NewGrid("Sheet1")
	grid.Set("Sheet1", 1, 1, Cell{Value: "10"})
	grid.Set("Sheet1", 1, 2, Cell{Value: "=A1*2"})

	result, err := Analyze(grid)
	require.NoError(t, err)

	grid.Set("Sheet1", 2, 1, Cell{Value: "=B1*3"})
	assert.Len(t, result.Graph.Nodes, 2)
	assert.NotContains(t, result.Graph.Nodes, "Sheet1!A2")
}

func TestAnalyzeDatePatternsInResult(t *testing.T) {
	grid := NewGrid("Sheet1")
	grid.Set("Sheet1", 1, 1, Cell{Value: "2024-01-31", Style: &CellStyle{Date: true}})
	grid.Set("Sheet1", 1, 2, Cell{Value: "2024-02-29", Style: &CellStyle{Date: true}})
	grid.Set("Sheet1", 1, 3, Cell{Value: "2024-03-31", Style: &CellStyle{Date: true}})
	grid.Set("Sheet1", 2, 1, Cell{Value: "7"})
	grid.Set("Sheet1", 2, 2, Cell{Value: "=A2*2"})

	result, err := Analyze(grid)
	require.NoError(t, err)

	require.Len(t, result.DatePatterns, 1)
	p := result.DatePatterns[0]
	assert.True(t, p.Horizontal)
	assert.Equal(t, 3, p.Count)
	assert.Equal(t, "Sheet1!A1:C1", p.Range())
}
