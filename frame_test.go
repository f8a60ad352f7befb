package gridscope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expandRange converts a frame range string back into node keys, for
// coverage assertions.
func expandRange(t *testing.T, rng string) []string {
	t.Helper()
	start, endAddr := rng, ""
	if i := strings.Index(rng, ":"); i >= 0 {
		start, endAddr = rng[:i], rng[i+1:]
	}
	sheet, c1, r1, ok := splitKey(start)
	require.True(t, ok, rng)
	c2, r2 := c1, r1
	if endAddr != "" {
		var err error
		c2, r2, err = CellNameToCoordinates(endAddr)
		require.NoError(t, err)
	}
	var keys []string
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			keys = append(keys, nodeKey(sheet, c, r))
		}
	}
	return keys
}

// frameCoverage unions all of a frame's ranges into a key set.
func frameCoverage(t *testing.T, frame Frame) map[string]bool {
	t.Helper()
	covered := make(map[string]bool)
	for _, rng := range frame.HRanges {
		for _, key := range expandRange(t, rng) {
			covered[key] = true
		}
	}
	for _, rng := range frame.VRanges {
		for _, key := range expandRange(t, rng) {
			covered[key] = true
		}
	}
	return covered
}

func TestCompactLayerFullRectangle(t *testing.T) {
	keys := []string{
		"Sheet1!B2", "Sheet1!C2", "Sheet1!D2",
		"Sheet1!B3", "Sheet1!C3", "Sheet1!D3",
	}
	frame, rects := buildFrame(0, keys)

	require.Len(t, rects, 1)
	assert.Equal(t, []string{"Sheet1!B2:D3"}, frame.HRanges)
	assert.Equal(t, []string{"Sheet1!B2:D3"}, frame.VRanges)
}

func TestCompactLayerRowAndColumn(t *testing.T) {
	frame, _ := buildFrame(0, []string{"Sheet1!A1", "Sheet1!B1", "Sheet1!C1"})
	assert.Equal(t, []string{"Sheet1!A1:C1"}, frame.HRanges)
	assert.Empty(t, frame.VRanges)

	frame, _ = buildFrame(0, []string{"Sheet1!E2", "Sheet1!E3", "Sheet1!E4"})
	assert.Empty(t, frame.HRanges)
	assert.Equal(t, []string{"Sheet1!E2:E4"}, frame.VRanges)
}

func TestCompactLayerSingletonInBothLists(t *testing.T) {
	frame, _ := buildFrame(0, []string{"Sheet1!D7"})
	assert.Equal(t, []string{"Sheet1!D7"}, frame.HRanges)
	assert.Equal(t, []string{"Sheet1!D7"}, frame.VRanges)
}

func TestCompactLayerTieBreakPrefersHeight(t *testing.T) {
	// An L of three cells: the 1x2 vertical strip wins the tie against
	// the 2x1 horizontal one.
	frame, rects := buildFrame(0, []string{"Sheet1!A1", "Sheet1!A2", "Sheet1!B1"})

	require.Len(t, rects, 2)
	// The leftover single cell lands in both lists.
	assert.Equal(t, []string{"Sheet1!A1:A2", "Sheet1!B1"}, frame.VRanges)
	assert.Equal(t, []string{"Sheet1!B1"}, frame.HRanges)
}

func TestCompactLayerCoversExactly(t *testing.T) {
	keys := []string{
		"Sheet1!A1", "Sheet1!B1", "Sheet1!C1",
		"Sheet1!A2", "Sheet1!B2",
		"Sheet1!D4",
		"Sheet2!A1", "Sheet2!A2",
	}
	frame, _ := buildFrame(3, keys)
	assert.Equal(t, 3, frame.Layer)

	covered := frameCoverage(t, frame)
	assert.Len(t, covered, len(keys))
	for _, key := range keys {
		assert.True(t, covered[key], key)
	}
}

func TestCompactLayerMultiSheet(t *testing.T) {
	frame, rects := buildFrame(0, []string{"Data!B2", "Main!B2"})
	require.Len(t, rects, 2)
	assert.Equal(t, "Data", rects[0].sheet)
	assert.Equal(t, "Main", rects[1].sheet)
	assert.Len(t, frame.HRanges, 2)
}
