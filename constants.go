package motionctl

import "github.com/ehrlich-b/motionctl/internal/config"

// Re-exported defaults, mirroring the teacher's re-export of its internal
// constants package at the public API boundary.
const (
	// DefaultRingCapacity is the default number of MoveBuffer slots (a
	// typical machine queues 8-48; every Line/Arc/Dwell checks HaveFree(1)
	// for its single slot before reserving it).
	DefaultRingCapacity = config.DefaultRingCapacity

	// DefaultMinLineLength is MIN_LINE_LENGTH in mm.
	DefaultMinLineLength = config.DefaultMinLineLength

	// DefaultMinSegmentLen is the arc chording threshold in mm.
	DefaultMinSegmentLen = config.DefaultMinSegmentLen

	// DefaultMinSegmentTimeMicros bounds how finely an accel/decel region
	// is sliced into segments.
	DefaultMinSegmentTimeMicros = config.DefaultMinSegmentTimeMicros

	// DefaultAngularJerkLower/Upper are the continuous/exact-path/exact-stop
	// downgrade thresholds on the angular jerk estimator.
	DefaultAngularJerkLower = config.DefaultAngularJerkLower
	DefaultAngularJerkUpper = config.DefaultAngularJerkUpper

	// SegmentDurationMicros is the fixed per-segment duration target
	// (~10ms) spec.md's dispatch loop slices regions into.
	SegmentDurationMicros = config.SegmentDurationMicros

	// VelocityEpsilon is a relative velocity-equality tolerance (spec.md
	// section 9); the planner and executor do not read it.
	VelocityEpsilon = config.VelocityEpsilon

	// HTIterationCap bounds the HT-only region split solver.
	HTIterationCap = config.HTIterationCap

	// BackplanIterationCap is an iteration cap for the backward replan walk;
	// the walk does not read it (it visits each queued move once).
	BackplanIterationCap = config.BackplanIterationCap
)
