package motionctl

import "github.com/ehrlich-b/motionctl/internal/telemetry"

// Metrics is a re-export of internal/telemetry's counter type, matching
// the teacher's pattern of exposing metrics at the package boundary while
// keeping the implementation internal.
type Metrics = telemetry.Metrics

// NewMetrics creates a fresh Metrics instance. Controllers created via New
// already own one, reachable through Controller.Metrics(); this is for
// callers that want to track a Metrics instance independently of a
// Controller (e.g. aggregating across several).
func NewMetrics() *Metrics { return telemetry.NewMetrics() }

// MetricsCollector is a re-export of the Prometheus collector wrapping a
// Metrics instance.
type MetricsCollector = telemetry.Collector

// NewMetricsCollector wraps m for registration with a prometheus.Registry.
func NewMetricsCollector(m *Metrics) *MetricsCollector { return telemetry.NewCollector(m) }
