package kinematics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ehrlich-b/motionctl/internal/config"
)

func TestAxisContributionLinear(t *testing.T) {
	axisCfg := config.AxisConfig{Mode: config.AxisModeStandard}
	assert.Equal(t, 5.0, AxisContribution(config.AxisX, axisCfg, 5.0))
}

func TestAxisContributionRadiusRotary(t *testing.T) {
	axisCfg := config.AxisConfig{Mode: config.AxisModeRadius, Radius: 10}
	got := AxisContribution(config.AxisA, axisCfg, 90)
	want := math.Pi / 2 * 10
	assert.InDelta(t, want, got, 1e-9)
}

func TestAxisContributionNonRadiusRotaryIgnoresRadius(t *testing.T) {
	axisCfg := config.AxisConfig{Mode: config.AxisModeStandard, Radius: 10}
	assert.Equal(t, 45.0, AxisContribution(config.AxisA, axisCfg, 45))
}

func TestLengthPureXY(t *testing.T) {
	cfg := config.Default()
	cfg.Axes[config.AxisX] = config.AxisConfig{Mode: config.AxisModeStandard}
	cfg.Axes[config.AxisY] = config.AxisConfig{Mode: config.AxisModeStandard}

	var delta [config.NumAxes]float64
	delta[config.AxisX] = 3
	delta[config.AxisY] = 4

	assert.Equal(t, 5.0, Length(cfg, delta))
}

func TestUnitVectorZeroLength(t *testing.T) {
	var delta [config.NumAxes]float64
	delta[config.AxisX] = 1
	u := UnitVector(delta, 0)
	assert.Equal(t, [config.NumAxes]float64{}, u)
}

func TestStepsForDeltaReversedPolarity(t *testing.T) {
	m := config.MotorConfig{StepAngleDeg: 1.8, TravelPerRev: 8, Microsteps: 16, Polarity: config.PolarityReversed}
	got := StepsForDelta(m, 1.0)
	assert.Negative(t, got)
}

func TestAngularJerkEstimateCollinear(t *testing.T) {
	u := [config.NumAxes]float64{}
	u[config.AxisX] = 1
	assert.InDelta(t, 0.0, AngularJerkEstimate(u, u), 1e-9)
}

func TestAngularJerkEstimateReversal(t *testing.T) {
	a := [config.NumAxes]float64{}
	a[config.AxisX] = 1
	b := [config.NumAxes]float64{}
	b[config.AxisX] = -1
	assert.InDelta(t, 1.0, AngularJerkEstimate(a, b), 1e-9)
}

func TestAngularJerkEstimateNinetyDegreeCorner(t *testing.T) {
	a := [config.NumAxes]float64{}
	a[config.AxisX] = 1
	b := [config.NumAxes]float64{}
	b[config.AxisY] = 1
	assert.InDelta(t, math.Sqrt2/2, AngularJerkEstimate(a, b), 1e-9)
}

func TestMotorStepsAbsoluteSkipsUnmapped(t *testing.T) {
	cfg := config.Default()
	cfg.Motors = []config.MotorConfig{
		{AxisIndex: config.AxisX, StepAngleDeg: 1.8, TravelPerRev: 8, Microsteps: 16},
		{AxisIndex: config.NumAxes, StepAngleDeg: 1.8, TravelPerRev: 8, Microsteps: 16},
	}

	var target [config.NumAxes]float64
	target[config.AxisX] = 10

	steps := MotorStepsAbsolute(cfg, target)
	assert.Len(t, steps, 1)
	assert.NotZero(t, steps[0])
}
