package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehrlich-b/motionctl/internal/config"
	"github.com/ehrlich-b/motionctl/internal/ring"
)

func testConfig() config.MachineConfig {
	cfg := config.Default()
	for _, axis := range []config.Axis{config.AxisX, config.AxisY, config.AxisZ} {
		cfg.Axes[axis] = config.AxisConfig{
			Mode:        config.AxisModeStandard,
			VelocityMax: 6000,
			JerkMax:     5_000_000,
			TravelMax:   300,
		}
	}
	return cfg
}

func TestLineRejectsZeroLength(t *testing.T) {
	buf := ring.New(8)
	p := New(buf, testConfig(), nil)

	_, err := p.Line([config.NumAxes]float64{}, 1000)
	assert.Error(t, err)
}

func TestLineCommitsAndDecomposes(t *testing.T) {
	buf := ring.New(8)
	p := New(buf, testConfig(), nil)

	var target [config.NumAxes]float64
	target[config.AxisX] = 100

	id, err := p.Line(target, 3000)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	mb := buf.At(0)
	require.NotNil(t, mb)
	assert.Equal(t, 100.0, mb.Length)
	assert.Greater(t, mb.Head.Segments+mb.Body.Segments+mb.Tail.Segments, 0)
}

func TestLineRejectsWhenBufferFull(t *testing.T) {
	buf := ring.New(1)
	p := New(buf, testConfig(), nil)

	var target [config.NumAxes]float64
	target[config.AxisX] = 10
	_, err := p.Line(target, 1000)
	require.NoError(t, err)

	target[config.AxisX] = 20
	_, err = p.Line(target, 1000)
	assert.Error(t, err)
}

func TestCollinearJunctionCarriesVelocity(t *testing.T) {
	buf := ring.New(8)
	p := New(buf, testConfig(), nil)

	var t1 [config.NumAxes]float64
	t1[config.AxisX] = 100
	_, err := p.Line(t1, 3000)
	require.NoError(t, err)

	var t2 [config.NumAxes]float64
	t2[config.AxisX] = 200
	_, err = p.Line(t2, 3000)
	require.NoError(t, err)

	first := buf.At(1)
	require.NotNil(t, first)
	assert.Greater(t, first.Tail.Velocity.Exit, 0.0)
}

func TestReversalJunctionForcesStop(t *testing.T) {
	buf := ring.New(8)
	p := New(buf, testConfig(), nil)

	var t1 [config.NumAxes]float64
	t1[config.AxisX] = 100
	_, err := p.Line(t1, 3000)
	require.NoError(t, err)

	var t2 [config.NumAxes]float64
	t2[config.AxisX] = 0
	_, err = p.Line(t2, 3000)
	require.NoError(t, err)

	first := buf.At(1)
	require.NotNil(t, first)
	assert.InDelta(t, 0, first.Tail.Velocity.Exit, 1e-6)
}

func TestDwellCommitsZeroMotion(t *testing.T) {
	buf := ring.New(8)
	p := New(buf, testConfig(), nil)

	id, err := p.Dwell(1.5)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	mb := buf.At(0)
	require.NotNil(t, mb)
	assert.Equal(t, ring.MoveKindDwell, mb.Kind)
	assert.Equal(t, 1.5, mb.DwellSeconds)
}

func TestSetPositionResetsChainWithoutMotion(t *testing.T) {
	buf := ring.New(8)
	p := New(buf, testConfig(), nil)

	var target [config.NumAxes]float64
	target[config.AxisX] = 42
	_, err := p.SetPosition(target)
	require.NoError(t, err)

	assert.Equal(t, 42.0, p.Position()[config.AxisX])
	assert.False(t, p.lastHasMove)
}

func TestQueuedControlMovesRoundTrip(t *testing.T) {
	buf := ring.New(8)
	p := New(buf, testConfig(), nil)

	_, err := p.QueuedStop()
	require.NoError(t, err)
	_, err = p.QueuedStart()
	require.NoError(t, err)
	_, err = p.QueuedEnd()
	require.NoError(t, err)

	assert.Equal(t, ring.MoveKindQueuedStop, buf.At(2).Kind)
	assert.Equal(t, ring.MoveKindQueuedStart, buf.At(1).Kind)
	assert.Equal(t, ring.MoveKindQueuedEnd, buf.At(0).Kind)
}

func TestCheckFreeMirrorsRingCapacity(t *testing.T) {
	buf := ring.New(2)
	p := New(buf, testConfig(), nil)

	assert.True(t, p.CheckFree(2))
	assert.False(t, p.CheckFree(3))
}
