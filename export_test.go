package gridscope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLayersTable(t *testing.T) {
	grid := NewGrid("Sheet1")
	grid.Set("Sheet1", 1, 1, Cell{Value: "10"})
	grid.Set("Sheet1", 1, 2, Cell{Value: "=A1*2"})

	result, err := Analyze(grid)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, result.WriteLayersTable(&buf))
	assert.Equal(t,
		"layer\tsheet\taddress\n"+
			"0\tSheet1\tA1\n"+
			"1\tSheet1\tB1\n",
		buf.String())
}

func TestWriteFramesTable(t *testing.T) {
	grid := NewGrid("Sheet1")
	grid.Set("Sheet1", 1, 1, Cell{Value: "10"})
	grid.Set("Sheet1", 1, 2, Cell{Value: "=A1*2"})
	grid.Set("Sheet1", 3, 1, Cell{Value: "2024-01-31", Style: &CellStyle{Date: true}})
	grid.Set("Sheet1", 3, 2, Cell{Value: "2024-02-29", Style: &CellStyle{Date: true}})
	grid.Set("Sheet1", 3, 3, Cell{Value: "2024-03-31", Style: &CellStyle{Date: true}})

	result, err := Analyze(grid)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, result.WriteFramesTable(&buf))
	assert.Equal(t,
		"layer\tkind\trange\n"+
			"0\tdate\tSheet1!A3:C3\n"+
			"0\thorizontal\tSheet1!A1\n"+
			"0\tvertical\tSheet1!A1\n"+
			"1\thorizontal\tSheet1!B1\n"+
			"1\tvertical\tSheet1!B1\n",
		buf.String())
}
