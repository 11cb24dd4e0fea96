package planner

import (
	"math"

	"github.com/ehrlich-b/motionctl/internal/config"
	"github.com/ehrlich-b/motionctl/internal/ring"
)

// decomposeRegions fills in a buffer's Head/Body/Tail regions given its
// already-frozen entry and exit velocities. It tries, in order: the full
// head+body+tail (HBT) trapezoid, then a head+tail-only (HT) split when the
// move is too short to reach cruise, folding a region below MinSegmentLen
// into its neighbor.
func decomposeRegions(mb *ring.MoveBuffer, entryV, exitV float64, cfg config.MachineConfig, jerk float64) error {
	cruiseV := math.Min(mb.FeedrateRequested, mb.VelocityMax)
	if cruiseV < math.Max(entryV, exitV) {
		cruiseV = math.Max(entryV, exitV)
	}

	accelLen := regionLengthForVelocities(entryV, cruiseV, jerk)
	decelLen := regionLengthForVelocities(cruiseV, exitV, jerk)

	if accelLen+decelLen <= mb.Length+1e-9 {
		mb.Head = makeRegion(entryV, cruiseV, cruiseV, jerk, accelLen, cfg)
		mb.Tail = makeRegion(cruiseV, cruiseV, exitV, jerk, decelLen, cfg)
		mb.Body = makeRegion(cruiseV, cruiseV, cruiseV, 0, mb.Length-accelLen-decelLen, cfg)
		foldShortRegions(mb, cfg)
		return nil
	}

	peak, _, converged := solveHTPeakVelocity(entryV, exitV, cruiseV, jerk, mb.Length, config.HTIterationCap)

	headLen := regionLengthForVelocities(entryV, peak, jerk)
	tailLen := regionLengthForVelocities(peak, exitV, jerk)

	// Rescale to exactly match the move's length; the iterative solver only
	// guarantees convergence to within its tolerance.
	if sum := headLen + tailLen; sum > 0 {
		scale := mb.Length / sum
		headLen *= scale
		tailLen *= scale
	}

	mb.Head = makeRegion(entryV, peak, peak, jerk, headLen, cfg)
	mb.Tail = makeRegion(peak, peak, exitV, jerk, tailLen, cfg)
	mb.Body = makeRegion(peak, peak, peak, 0, 0, cfg)

	foldShortRegions(mb, cfg)

	if !converged {
		return ErrIterationNonConvergent(mb.ID)
	}
	return nil
}

// makeRegion builds a ring.Region, computing its segment count from
// cfg.MinSegmentTimeMicros (DefaultMinSegmentTimeMicros when unset).
func makeRegion(entry, cruise, exit, jerk, length float64, cfg config.MachineConfig) ring.Region {
	var r ring.Region
	r.Length = length
	r.Velocity.Entry = entry
	r.Velocity.Cruise = cruise
	r.Velocity.Exit = exit
	r.Jerk = jerk
	r.Time = regionTime(entry, exit, jerk)
	if length > 0 && cruise == entry && cruise == exit {
		// Constant-velocity body: time = length / cruise (cruise in mm/min).
		if cruise > 0 {
			r.Time = length / cruise
		}
	}
	if r.Time <= 0 {
		r.Segments = 0
		return r
	}
	segMicros := float64(cfg.MinSegmentTimeMicros)
	if segMicros <= 0 {
		segMicros = config.DefaultMinSegmentTimeMicros
	}
	totalMicros := r.Time * 60_000_000
	r.Segments = int(math.Ceil(totalMicros / segMicros))
	if r.Segments < 1 {
		r.Segments = 1
	}
	return r
}

// foldShortRegions merges any region shorter than MinSegmentLen into an
// adjacent region that has segments (the body if it has any, otherwise the
// opposite ramp) rather than propagating it to the executor, matching
// spec.md's "folded into the next region silently" behavior for
// ErrCodeRegionTooShort.
func foldShortRegions(mb *ring.MoveBuffer, cfg config.MachineConfig) {
	minLen := cfg.MinSegmentLen
	if minLen <= 0 {
		minLen = config.DefaultMinSegmentLen
	}

	if mb.Head.Length > 0 && mb.Head.Length < minLen && (mb.Body.Segments > 0 || mb.Tail.Segments > 0) {
		if mb.Body.Segments > 0 {
			mb.Body.Length += mb.Head.Length
		} else {
			mb.Tail.Length += mb.Head.Length
		}
		mb.Head = ring.Region{}
	}
	if mb.Tail.Length > 0 && mb.Tail.Length < minLen && (mb.Body.Segments > 0 || mb.Head.Segments > 0) {
		if mb.Body.Segments > 0 {
			mb.Body.Length += mb.Tail.Length
		} else {
			mb.Head.Length += mb.Tail.Length
		}
		mb.Tail = ring.Region{}
	}
	if mb.Body.Length > 0 && mb.Body.Length < minLen && (mb.Head.Segments > 0 || mb.Tail.Segments > 0) {
		if mb.Tail.Segments > 0 {
			mb.Tail.Length += mb.Body.Length
		} else {
			mb.Head.Length += mb.Body.Length
		}
		mb.Body = ring.Region{}
	}
}
