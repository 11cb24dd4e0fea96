package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegionTimeZeroWhenVelocitiesEqual(t *testing.T) {
	assert.Equal(t, 0.0, regionTime(1000, 1000, 500_000))
}

func TestRegionTimeSymmetric(t *testing.T) {
	assert.Equal(t, regionTime(0, 1000, 500_000), regionTime(1000, 0, 500_000))
}

func TestRegionLengthAverageVelocity(t *testing.T) {
	got := regionLength(0, 100, 2)
	assert.Equal(t, 100.0, got)
}

func TestSolveHTPeakVelocityConvergesWithinBracket(t *testing.T) {
	peak, _, converged := solveHTPeakVelocity(0, 0, 3000, 500_000, 1, 100)
	assert.True(t, converged)
	assert.GreaterOrEqual(t, peak, 0.0)
	assert.LessOrEqual(t, peak, 3000.0)
}

func TestSolveHTPeakVelocityShortMoveStaysLow(t *testing.T) {
	peak, _, converged := solveHTPeakVelocity(0, 0, 10000, 500_000, 0.001, 100)
	assert.True(t, converged)
	assert.Less(t, peak, 100.0)
}
