package arcgen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ehrlich-b/motionctl/internal/config"
	"github.com/ehrlich-b/motionctl/internal/ring"
)

func quarterCircleBuffer() (*ring.MoveBuffer, [config.NumAxes]float64) {
	var start [config.NumAxes]float64
	start[config.AxisX] = 10
	start[config.AxisY] = 0

	mb := &ring.MoveBuffer{
		ArcCenter: [2]float64{-10, 0},
		ArcRadius: 10,
		ArcCCW:    true,
		ArcPlaneA: config.AxisX,
		ArcPlaneB: config.AxisY,
	}
	mb.Target[config.AxisX] = 0
	mb.Target[config.AxisY] = 10
	return mb, start
}

func TestNewRunnerComputesQuarterSweep(t *testing.T) {
	mb, start := quarterCircleBuffer()
	r := New(mb, start)

	assert.InDelta(t, math.Pi/2, r.TotalAngle(), 1e-6)
}

func TestAdvanceReachesEndpoint(t *testing.T) {
	mb, start := quarterCircleBuffer()
	r := New(mb, start)

	circumferenceQuarter := r.radius * math.Pi / 2
	a, b, _ := r.Advance(circumferenceQuarter)

	assert.InDelta(t, 0, a, 1e-6)
	assert.InDelta(t, 10, b, 1e-6)
	assert.True(t, r.Done())
}

func TestAdvanceIsIncremental(t *testing.T) {
	mb, start := quarterCircleBuffer()
	r := New(mb, start)

	quarterLen := r.radius * math.Pi / 2
	r.Advance(quarterLen / 2)
	assert.False(t, r.Done())

	r.Advance(quarterLen / 2)
	assert.True(t, r.Done())
}

func TestHelicalAxisInterpolatesLinearly(t *testing.T) {
	mb, start := quarterCircleBuffer()
	mb.Target[config.AxisZ] = 4
	start[config.AxisZ] = 0

	r := New(mb, start)
	axis, ok := r.HelicalAxis()
	assert.True(t, ok)
	assert.Equal(t, config.AxisZ, axis)

	quarterLen := r.radius * math.Pi / 2
	_, _, helical := r.Advance(quarterLen)
	assert.InDelta(t, 4, helical, 1e-6)
}

func TestNoHelicalAxisWhenPlanarOnly(t *testing.T) {
	mb, start := quarterCircleBuffer()
	r := New(mb, start)
	_, ok := r.HelicalAxis()
	assert.False(t, ok)
}
