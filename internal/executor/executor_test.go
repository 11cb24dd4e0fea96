package executor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehrlich-b/motionctl/internal/config"
	"github.com/ehrlich-b/motionctl/internal/motorsink"
	"github.com/ehrlich-b/motionctl/internal/planner"
	"github.com/ehrlich-b/motionctl/internal/ring"
)

func testConfig() config.MachineConfig {
	cfg := config.Default()
	for _, axis := range []config.Axis{config.AxisX, config.AxisY, config.AxisZ} {
		cfg.Axes[axis] = config.AxisConfig{Mode: config.AxisModeStandard, VelocityMax: 6000, JerkMax: 5_000_000, TravelMax: 300}
	}
	cfg.Motors = []config.MotorConfig{
		{AxisIndex: config.AxisX, StepAngleDeg: 1.8, TravelPerRev: 8, Microsteps: 16},
	}
	return cfg
}

func TestDispatchIdleWhenEmpty(t *testing.T) {
	buf := ring.New(4)
	cfg := testConfig()
	ex := New(buf, cfg, motorsink.NewRecorder(0), nil)

	assert.ErrorIs(t, ex.Dispatch(), ErrIdle)
}

func TestDispatchLineRunsToCompletion(t *testing.T) {
	buf := ring.New(4)
	cfg := testConfig()
	p := planner.New(buf, cfg, nil)

	var target [config.NumAxes]float64
	target[config.AxisX] = 50
	_, err := p.Line(target, 3000)
	require.NoError(t, err)

	rec := motorsink.NewRecorder(0)
	ex := New(buf, cfg, rec, nil)

	for i := 0; i < 10000; i++ {
		err := ex.Dispatch()
		if errors.Is(err, ErrIdle) {
			break
		}
		require.NoError(t, err)
	}

	assert.InDelta(t, 50.0, ex.Position()[config.AxisX], 1e-6)
	assert.NotEmpty(t, rec.Segments())
}

func TestDispatchYieldsEagainWhenSinkFull(t *testing.T) {
	buf := ring.New(4)
	cfg := testConfig()
	p := planner.New(buf, cfg, nil)

	var target [config.NumAxes]float64
	target[config.AxisX] = 50
	_, err := p.Line(target, 3000)
	require.NoError(t, err)

	rec := motorsink.NewRecorder(1)
	ex := New(buf, cfg, rec, nil)

	require.NoError(t, ex.Dispatch())
	assert.ErrorIs(t, ex.Dispatch(), ErrEagain)
}

func TestDispatchDwellAdvancesAndReleases(t *testing.T) {
	buf := ring.New(4)
	cfg := testConfig()
	p := planner.New(buf, cfg, nil)

	_, err := p.Dwell(0.01)
	require.NoError(t, err)

	rec := motorsink.NewRecorder(0)
	ex := New(buf, cfg, rec, nil)

	require.NoError(t, ex.Dispatch())
	assert.False(t, buf.IsBusy())
	assert.Len(t, rec.Segments(), 1)
}

func TestDispatchSetPositionUpdatesWithoutSegment(t *testing.T) {
	buf := ring.New(4)
	cfg := testConfig()
	p := planner.New(buf, cfg, nil)

	var target [config.NumAxes]float64
	target[config.AxisX] = 123
	_, err := p.SetPosition(target)
	require.NoError(t, err)

	rec := motorsink.NewRecorder(0)
	ex := New(buf, cfg, rec, nil)

	require.NoError(t, ex.Dispatch())
	assert.Equal(t, 123.0, ex.Position()[config.AxisX])
	assert.Empty(t, rec.Segments())
}
