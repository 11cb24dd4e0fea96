package planner

import (
	"math"

	"github.com/ehrlich-b/motionctl/internal/config"
	"github.com/ehrlich-b/motionctl/internal/kinematics"
	"github.com/ehrlich-b/motionctl/internal/ring"
)

// replan re-optimizes every StateQueued and StatePending buffer's entry/exit
// velocities and region decomposition after a new move is committed. It
// walks backward from the newest commit toward the run cursor (the running
// buffer is excluded; pending buffers are replanned again on every commit),
// then forward-applies the result so each buffer's entry velocity matches
// its predecessor's exit velocity.
//
// This is a simplified single backward pass over the classic two-pass
// look-ahead planner: the exit velocity chosen at each junction already
// accounts for both neighbors' cruise ceilings, so a separate forward
// "accel-limited" correction pass is unnecessary for the jerk model used
// here (see DESIGN.md decision 4).
func (p *Planner) replan() {
	bufs := p.collectQueued()
	if len(bufs) == 0 {
		return
	}

	n := len(bufs)
	exit := make([]float64, n)
	exit[n-1] = 0 // last queued move comes to rest unless superseded later

	for i := n - 2; i >= 0; i-- {
		junction := junctionVelocity(bufs[i], bufs[i+1])
		ceilA := bufs[i].VelocityMax
		ceilB := bufs[i+1].VelocityMax
		v := math.Min(junction, math.Min(ceilA, ceilB))
		exit[i] = v
	}

	entry := make([]float64, n)
	entry[0] = p.chainEntryVelocity()
	for i := 1; i < n; i++ {
		entry[i] = exit[i-1]
	}

	var lastErr error
	for i, mb := range bufs {
		jerk := p.axisJerk(mb.Unit)
		if mb.Kind != ring.MoveKindLine && mb.Kind != ring.MoveKindArc {
			mb.Head, mb.Body, mb.Tail = ring.Region{}, ring.Region{}, ring.Region{}
			mb.JunctionVelocity = 0
			mb.ExitVelocityLimit = 0
			mb.State = ring.StatePending
			continue
		}
		mb.JunctionVelocity = entry[i]
		mb.ExitVelocityLimit = exit[i]
		if err := decomposeRegions(mb, entry[i], exit[i], p.cfg, jerk); err != nil {
			lastErr = err
		}
		mb.State = ring.StatePending
	}
	if lastErr != nil {
		p.log.WithError(lastErr).Warn("replan: region solver did not fully converge for one or more moves")
	}
}

// chainEntryVelocity returns the entry velocity the oldest queued move
// should assume: the exit velocity of whatever the executor is currently
// running, or 0 if nothing is running.
func (p *Planner) chainEntryVelocity() float64 {
	run := p.buf.CurrentRun()
	if run == nil || run.Exec == ring.ExecStateNew {
		return 0
	}
	return run.Tail.Velocity.Exit
}

// collectQueued returns every StateQueued/StatePending buffer from oldest
// to newest, stopping at the run cursor.
func (p *Planner) collectQueued() []*ring.MoveBuffer {
	depth := p.buf.QueueDepth()
	out := make([]*ring.MoveBuffer, 0, depth)
	for offset := depth - 1; offset >= 0; offset-- {
		mb := p.buf.At(offset)
		if mb == nil {
			continue
		}
		out = append(out, mb)
	}
	return out
}

// junctionVelocity computes the maximum velocity that can be carried
// through the junction between two consecutive moves, capped by the lower
// of the two moves' requested feedrates and velocity ceilings, following
// spec.md's path-mode selection:
// collinear junctions (angular jerk below the lower threshold) carry full
// velocity, near-reversal junctions (above the upper threshold) force a
// full stop, and the band between scales linearly.
func junctionVelocity(a, b *ring.MoveBuffer) float64 {
	if a.Kind != ring.MoveKindLine && a.Kind != ring.MoveKindArc {
		return 0
	}
	if b.Kind != ring.MoveKindLine && b.Kind != ring.MoveKindArc {
		return 0
	}

	aj := kinematics.AngularJerkEstimate(a.Unit, b.Unit)
	ceiling := math.Min(math.Min(a.FeedrateRequested, a.VelocityMax), math.Min(b.FeedrateRequested, b.VelocityMax))

	lower, upper := config.DefaultAngularJerkLower, config.DefaultAngularJerkUpper

	switch {
	case aj <= lower:
		return ceiling
	case aj >= upper:
		return 0
	default:
		frac := 1 - (aj-lower)/(upper-lower)
		return ceiling * frac
	}
}
