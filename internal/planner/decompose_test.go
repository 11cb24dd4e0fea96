package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehrlich-b/motionctl/internal/config"
	"github.com/ehrlich-b/motionctl/internal/ring"
)

func TestDecomposeLongMoveReachesCruise(t *testing.T) {
	cfg := testConfig()
	mb := &ring.MoveBuffer{Length: 1000, FeedrateRequested: 3000, VelocityMax: 6000}

	err := decomposeRegions(mb, 0, 0, cfg, 500_000)
	require.NoError(t, err)
	assert.Greater(t, mb.Body.Length, 0.0)
	assert.Equal(t, 3000.0, mb.Body.Velocity.Cruise)
}

func TestDecomposeShortMoveSkipsBody(t *testing.T) {
	cfg := testConfig()
	mb := &ring.MoveBuffer{Length: 0.05, FeedrateRequested: 3000, VelocityMax: 6000}

	err := decomposeRegions(mb, 0, 0, cfg, 500_000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, mb.Body.Length)
}

func TestDecomposeConservesLength(t *testing.T) {
	cfg := testConfig()
	mb := &ring.MoveBuffer{Length: 50, FeedrateRequested: 3000, VelocityMax: 6000}

	require.NoError(t, decomposeRegions(mb, 0, 0, cfg, 500_000))
	total := mb.Head.Length + mb.Body.Length + mb.Tail.Length
	assert.InDelta(t, 50.0, total, 1e-6)
}

func TestFoldShortRegionsMergesHeadIntoBody(t *testing.T) {
	cfg := config.Default()
	mb := &ring.MoveBuffer{}
	mb.Head = ring.Region{Length: 0.001, Segments: 1}
	mb.Body = ring.Region{Length: 10, Segments: 1}

	foldShortRegions(mb, cfg)
	assert.Equal(t, 0.0, mb.Head.Length)
	assert.InDelta(t, 10.001, mb.Body.Length, 1e-9)
}
