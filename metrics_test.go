package motionctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMetricsStartsAtZero(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, uint64(0), m.MovesQueued.Load())
	assert.Equal(t, uint64(0), m.SegmentsDispatched.Load())
}

func TestNewMetricsCollectorWrapsInstance(t *testing.T) {
	m := NewMetrics()
	m.RecordMoveQueued()
	c := NewMetricsCollector(m)
	assert.NotNil(t, c)
}
