// Package config holds the machine configuration consulted read-only at
// motion time: per-axis limits, per-motor step mapping, and the planner's
// global scalars. It also provides a YAML loader for CLI/test use; the
// core planner and executor never read a file themselves.
package config

import (
	"io"
	"math"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Default global scalars (spec.md section 6's config table).
const (
	DefaultRingCapacity = 16

	DefaultMinLineLength = 0.01 // mm

	DefaultMinSegmentLen = 0.5 // mm, arc chording threshold

	DefaultMinSegmentTimeMicros = 10_000 // 10ms

	DefaultAngularJerkLower = 0.15
	// DefaultAngularJerkUpper sits above the 90-degree-corner estimate
	// (sqrt(2)/2 ~= 0.707, spec.md S4) so a square corner downgrades to the
	// reduced-velocity exact-path band rather than a full exact-stop; only
	// junctions closer to a full reversal (estimator -> 1) force a stop.
	DefaultAngularJerkUpper = 0.85

	SegmentDurationMicros = 10_000

	VelocityEpsilon = 1e-6

	HTIterationCap        = 100
	BackplanIterationCap  = 20
)

// Axis identifies one of the (up to six) machine axes, in a fixed order.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisA
	AxisB
	AxisC
	NumAxes
)

func (a Axis) String() string {
	names := [NumAxes]string{"X", "Y", "Z", "A", "B", "C"}
	if a < 0 || int(a) >= len(names) {
		return "?"
	}
	return names[a]
}

// IsRotary reports whether an axis index names one of the rotary axes
// (A, B, C) rather than a linear one (X, Y, Z).
func (a Axis) IsRotary() bool { return a >= AxisA }

// AxisMode selects how an axis participates in motion planning.
type AxisMode int

const (
	AxisModeDisabled AxisMode = iota
	AxisModeStandard
	AxisModeInhibited
	AxisModeRadius
	AxisModeSlaved
)

// AxisConfig is immutable during motion (spec.md section 3).
type AxisConfig struct {
	FeedrateMax       float64 `yaml:"feedrate_max"`
	VelocityMax       float64 `yaml:"velocity_max"`
	TravelMin         float64 `yaml:"travel_min"`
	TravelMax         float64 `yaml:"travel_max"`
	JerkMax           float64 `yaml:"jerk_max"`
	JunctionDeviation float64 `yaml:"junction_deviation"`
	Radius            float64 `yaml:"radius"`
	Mode              AxisMode `yaml:"mode"`
	SlavedTo          []Axis   `yaml:"slaved_to,omitempty"`
}

// MotorPolarity flips the sign applied to a motor's computed step deltas.
type MotorPolarity int

const (
	PolarityNormal MotorPolarity = iota
	PolarityReversed
)

// MotorConfig describes one stepper and its mapping onto an axis.
type MotorConfig struct {
	AxisIndex    Axis          `yaml:"axis"`
	StepAngleDeg float64       `yaml:"step_angle_deg"`
	TravelPerRev float64       `yaml:"travel_per_rev"`
	Microsteps   int           `yaml:"microsteps"`
	Polarity     MotorPolarity `yaml:"polarity"`
	PowerMode    string        `yaml:"power_mode,omitempty"`
}

// StepsPerUnit is the derived value from spec.md section 3:
// 360 / (step_angle / microsteps) / travel_per_rev.
func (m MotorConfig) StepsPerUnit() float64 {
	if m.StepAngleDeg == 0 || m.TravelPerRev == 0 {
		return 0
	}
	microsteps := m.Microsteps
	if microsteps == 0 {
		microsteps = 1
	}
	return 360.0 / (m.StepAngleDeg / float64(microsteps)) / m.TravelPerRev
}

// PolaritySign returns +1 for normal polarity and -1 for reversed.
func (m MotorConfig) PolaritySign() float64 {
	if m.Polarity == PolarityReversed {
		return -1
	}
	return 1
}

// MachineConfig aggregates everything the planner, executor, and
// kinematics layer consult read-only at motion time.
type MachineConfig struct {
	Axes   [NumAxes]AxisConfig `yaml:"axes"`
	Motors []MotorConfig       `yaml:"motors"`

	RingCapacity         int     `yaml:"ring_capacity"`
	MinLineLength        float64 `yaml:"min_line_length"`
	MinSegmentLen        float64 `yaml:"min_segment_len"`
	MinSegmentTimeMicros int64   `yaml:"min_segment_time_us"`
	AngularJerkLower     float64 `yaml:"angular_jerk_lower"`
	AngularJerkUpper     float64 `yaml:"angular_jerk_upper"`
	MaxLinearJerk        float64 `yaml:"max_linear_jerk"`
	EnableAcceleration   bool    `yaml:"enable_acceleration"`
}

// Default returns a MachineConfig with every global scalar set to its
// spec.md-recommended default and no axes/motors configured.
func Default() MachineConfig {
	return MachineConfig{
		RingCapacity:         DefaultRingCapacity,
		MinLineLength:        DefaultMinLineLength,
		MinSegmentLen:        DefaultMinSegmentLen,
		MinSegmentTimeMicros: DefaultMinSegmentTimeMicros,
		AngularJerkLower:     DefaultAngularJerkLower,
		AngularJerkUpper:     DefaultAngularJerkUpper,
		EnableAcceleration:   true,
	}
}

// LinearJerkDiv2 and LinearJerkCbrt are the planner-global scalars derived
// from an axis's jerk_max (spec.md section 3): jerk_max/2 and
// jerk_max^(1/3), recomputed whenever config changes.
func LinearJerkDiv2(jerkMax float64) float64 { return jerkMax / 2 }
func LinearJerkCbrt(jerkMax float64) float64 { return math.Cbrt(jerkMax) }

// Load parses a MachineConfig from YAML, applying Default() for any zero
// global scalar left unset by the document.
func Load(r io.Reader) (MachineConfig, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return MachineConfig{}, err
	}
	if cfg.RingCapacity == 0 {
		cfg.RingCapacity = DefaultRingCapacity
	}
	if cfg.MinLineLength == 0 {
		cfg.MinLineLength = DefaultMinLineLength
	}
	if cfg.MinSegmentLen == 0 {
		cfg.MinSegmentLen = DefaultMinSegmentLen
	}
	if cfg.MinSegmentTimeMicros == 0 {
		cfg.MinSegmentTimeMicros = DefaultMinSegmentTimeMicros
	}
	if cfg.AngularJerkLower == 0 {
		cfg.AngularJerkLower = DefaultAngularJerkLower
	}
	if cfg.AngularJerkUpper == 0 {
		cfg.AngularJerkUpper = DefaultAngularJerkUpper
	}
	return cfg, Validate(cfg)
}

// Validate aggregates every axis/motor configuration problem into one
// multierr error instead of failing on the first.
func Validate(cfg MachineConfig) error {
	var errs error
	for i, ax := range cfg.Axes {
		if ax.Mode == AxisModeDisabled {
			continue
		}
		if ax.JerkMax <= 0 {
			errs = multierr.Append(errs, NewValidationError(Axis(i), "jerk_max must be positive"))
		}
		if ax.VelocityMax <= 0 {
			errs = multierr.Append(errs, NewValidationError(Axis(i), "velocity_max must be positive"))
		}
		if ax.TravelMax < ax.TravelMin {
			errs = multierr.Append(errs, NewValidationError(Axis(i), "travel_max must be >= travel_min"))
		}
	}
	for i, m := range cfg.Motors {
		switch m.Microsteps {
		case 1, 2, 4, 8:
		default:
			errs = multierr.Append(errs, NewMotorValidationError(i, "microsteps must be one of 1, 2, 4, 8"))
		}
	}
	return errs
}
