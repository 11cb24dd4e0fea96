// Package motionctl provides a jerk-limited motion planner and trajectory
// executor for a 3-6 axis Cartesian machine.
package motionctl

import (
	"github.com/ehrlich-b/motionctl/internal/config"
	"github.com/ehrlich-b/motionctl/internal/executor"
	"github.com/ehrlich-b/motionctl/internal/logging"
	"github.com/ehrlich-b/motionctl/internal/motorsink"
	"github.com/ehrlich-b/motionctl/internal/planner"
	"github.com/ehrlich-b/motionctl/internal/ring"
	"github.com/ehrlich-b/motionctl/internal/telemetry"
)

// Controller is the public entry point: it owns the ring, the planner
// (producer), and the executor (consumer), and exposes the ingress and
// dispatch operations spec.md names. Both halves run on whatever goroutine
// the caller drives them from — neither blocks, matching the teacher's
// single-threaded cooperative ioLoop model.
type Controller struct {
	cfg     config.MachineConfig
	ring    *ring.Buffer
	planner *planner.Planner
	exec    *executor.Executor
	metrics *telemetry.Metrics
	log     *logging.Logger
}

// Option configures a Controller at construction time.
type Option func(*controllerOptions)

type controllerOptions struct {
	sink   motorsink.Sink
	logger *logging.Logger
}

// WithSink overrides the default Console motor sink.
func WithSink(sink motorsink.Sink) Option {
	return func(o *controllerOptions) { o.sink = sink }
}

// WithLogger overrides the default logger.
func WithLogger(logger *logging.Logger) Option {
	return func(o *controllerOptions) { o.logger = logger }
}

// New builds a Controller over the given machine configuration.
func New(cfg config.MachineConfig, opts ...Option) *Controller {
	o := &controllerOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.Default()
	}
	if o.sink == nil {
		o.sink = motorsink.NewConsole(nil)
	}

	buf := ring.New(cfg.RingCapacity)
	return &Controller{
		cfg:     cfg,
		ring:    buf,
		planner: planner.New(buf, cfg, o.logger),
		exec:    executor.New(buf, cfg, o.sink, o.logger),
		metrics: telemetry.NewMetrics(),
		log:     o.logger,
	}
}

// Metrics returns the controller's telemetry counters.
func (c *Controller) Metrics() *telemetry.Metrics { return c.metrics }

// CheckFree reports whether n ring slots are currently free; callers
// should check this before a Line/Arc call whose rejection they want to
// avoid rather than handle as an error.
func (c *Controller) CheckFree(n int) bool { return c.planner.CheckFree(n) }

// IsBusy reports whether the executor has work in flight or queued.
func (c *Controller) IsBusy() bool { return c.planner.IsBusy() }

// Position returns the executor's live absolute position (distinct from
// the planner's look-ahead position, which may be further along the
// queued path).
func (c *Controller) Position() [config.NumAxes]float64 { return c.exec.Position() }

// Line enqueues a straight-line move to an absolute target at the given
// feedrate (mm/min).
func (c *Controller) Line(target [config.NumAxes]float64, feedrate float64) (string, error) {
	id, err := c.planner.Line(target, feedrate)
	if err != nil {
		c.metrics.RecordMoveRejected()
		return "", WrapError("LINE", err)
	}
	c.metrics.RecordMoveQueued()
	c.metrics.RecordQueueDepth(uint32(c.ring.QueueDepth()))
	return id, nil
}

// Arc enqueues a circular (or helical) arc move.
func (c *Controller) Arc(target [config.NumAxes]float64, center [2]float64, planeA, planeB config.Axis, ccw bool, turns int, feedrate float64) (string, error) {
	id, err := c.planner.Arc(target, center, planeA, planeB, ccw, turns, feedrate)
	if err != nil {
		c.metrics.RecordMoveRejected()
		return "", WrapError("ARC", err)
	}
	c.metrics.RecordMoveQueued()
	c.metrics.RecordQueueDepth(uint32(c.ring.QueueDepth()))
	return id, nil
}

// Dwell enqueues a motionless pause of the given duration in seconds.
func (c *Controller) Dwell(seconds float64) (string, error) {
	id, err := c.planner.Dwell(seconds)
	if err != nil {
		c.metrics.RecordMoveRejected()
		return "", WrapError("DWELL", err)
	}
	c.metrics.RecordMoveQueued()
	return id, nil
}

// QueuedStop enqueues a synchronized program stop barrier.
func (c *Controller) QueuedStop() (string, error) {
	id, err := c.planner.QueuedStop()
	return id, wrapErrorOrNil("QUEUED_STOP", err)
}

// QueuedStart enqueues a synchronized program start barrier.
func (c *Controller) QueuedStart() (string, error) {
	id, err := c.planner.QueuedStart()
	return id, wrapErrorOrNil("QUEUED_START", err)
}

// QueuedEnd enqueues a synchronized program end barrier.
func (c *Controller) QueuedEnd() (string, error) {
	id, err := c.planner.QueuedEnd()
	return id, wrapErrorOrNil("QUEUED_END", err)
}

// SetPosition resets absolute position without commanding motion.
func (c *Controller) SetPosition(target [config.NumAxes]float64) (string, error) {
	id, err := c.planner.SetPosition(target)
	return id, wrapErrorOrNil("SET_POSITION", err)
}

// Dispatch advances the executor by one segment. Callers typically loop on
// this until it returns executor.ErrIdle or executor.ErrEagain.
func (c *Controller) Dispatch() error {
	err := c.exec.Dispatch()
	if err == nil {
		c.metrics.RecordSegment()
	}
	return err
}

// wrapErrorOrNil wraps a non-nil error with motionctl context, and returns
// a true nil error interface (not a nil *Error boxed in a non-nil
// interface) when err is nil.
func wrapErrorOrNil(op string, err error) error {
	if err == nil {
		return nil
	}
	return WrapError(op, err)
}
