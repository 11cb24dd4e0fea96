package motorsink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleSubmitInvokesPrintf(t *testing.T) {
	var lines []string
	c := NewConsole(func(format string, args ...interface{}) {
		lines = append(lines, format)
	})

	require.NoError(t, c.Submit(Segment{MoveID: "m-1", Region: "body", Index: 0, Velocity: 3000}))
	assert.Equal(t, 1, c.SegmentCount())
	assert.Len(t, lines, 1)
	assert.True(t, c.HasSpace())
}

func TestRecorderTracksSegmentsAndPosition(t *testing.T) {
	r := NewRecorder(0)
	require.NoError(t, r.Submit(Segment{MoveID: "m-1", Steps: map[int]int64{0: 100}}))
	require.NoError(t, r.Submit(Segment{MoveID: "m-1", Steps: map[int]int64{0: 200}}))

	assert.Len(t, r.Segments(), 2)
	assert.Equal(t, int64(200), r.Position(0))
}

func TestRecorderCapacityBacksOff(t *testing.T) {
	r := NewRecorder(1)
	assert.True(t, r.HasSpace())

	require.NoError(t, r.Submit(Segment{MoveID: "m-1"}))
	assert.False(t, r.HasSpace())
}

func TestRecorderResetClearsState(t *testing.T) {
	r := NewRecorder(0)
	require.NoError(t, r.Submit(Segment{MoveID: "m-1", Steps: map[int]int64{0: 5}}))
	r.Reset()

	assert.Empty(t, r.Segments())
	assert.Equal(t, int64(0), r.Position(0))
}
