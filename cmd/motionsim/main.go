// Command motionsim drives a motionctl.Controller from a line-oriented
// move script and prints the dispatched segment trace, replacing the
// teacher's single flag-parsed memory-disk CLI with an urfave/cli/v2
// command that loads a YAML machine config and a move script file.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ehrlich-b/motionctl"
	"github.com/ehrlich-b/motionctl/internal/config"
	"github.com/ehrlich-b/motionctl/internal/logging"
)

func main() {
	app := &cli.App{
		Name:  "motionsim",
		Usage: "replay a move script through a jerk-limited motion planner",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a machine config YAML file"},
			&cli.StringFlag{Name: "script", Aliases: []string{"s"}, Required: true, Usage: "path to a move script"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logConfig := logging.DefaultConfig()
	if c.Bool("verbose") {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	scriptFile, err := os.Open(c.String("script"))
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer scriptFile.Close()

	ctl := motionctl.New(cfg, motionctl.WithLogger(logger))

	if err := replayScript(ctl, scriptFile); err != nil {
		return err
	}

	dispatched, err := motionctl.RunToIdle(ctl, 10_000_000)
	if err != nil && !motionctl.IsIdle(err) {
		return fmt.Errorf("dispatch: %w", err)
	}

	m := ctl.Metrics()
	logger.Info("simulation complete",
		"segments_dispatched", dispatched,
		"moves_queued", m.MovesQueued.Load(),
		"moves_rejected", m.MovesRejected.Load(),
	)
	return nil
}

func loadConfig(path string) (config.MachineConfig, error) {
	if path == "" {
		return defaultSimConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return config.MachineConfig{}, err
	}
	defer f.Close()
	return config.Load(f)
}

// defaultSimConfig provides a ready-to-run 3-axis machine so motionsim
// works out of the box without a config file.
func defaultSimConfig() config.MachineConfig {
	cfg := config.Default()
	for _, axis := range []config.Axis{config.AxisX, config.AxisY, config.AxisZ} {
		cfg.Axes[axis] = config.AxisConfig{
			Mode:        config.AxisModeStandard,
			VelocityMax: 6000,
			JerkMax:     5_000_000,
			TravelMax:   300,
		}
	}
	cfg.Motors = []config.MotorConfig{
		{AxisIndex: config.AxisX, StepAngleDeg: 1.8, TravelPerRev: 8, Microsteps: 16},
		{AxisIndex: config.AxisY, StepAngleDeg: 1.8, TravelPerRev: 8, Microsteps: 16},
		{AxisIndex: config.AxisZ, StepAngleDeg: 1.8, TravelPerRev: 4, Microsteps: 16},
	}
	return cfg
}

// replayScript parses and enqueues one move per non-blank, non-comment
// line. Supported verbs: LINE x y z feed | DWELL seconds; any other verb,
// ARC included, is rejected as unrecognized.
func replayScript(ctl *motionctl.Controller, f *os.File) error {
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		verb := strings.ToUpper(fields[0])

		switch verb {
		case "LINE":
			target, feed, err := parseLine(fields[1:])
			if err != nil {
				return fmt.Errorf("parsing LINE: %w", err)
			}
			if _, err := ctl.Line(target, feed); err != nil {
				return err
			}
		case "DWELL":
			if len(fields) < 2 {
				return fmt.Errorf("DWELL requires a duration")
			}
			secs, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return fmt.Errorf("parsing DWELL duration: %w", err)
			}
			if _, err := ctl.Dwell(secs); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unrecognized move verb %q", verb)
		}

		for !ctl.CheckFree(1) {
			if err := ctl.Dispatch(); err != nil && !motionctl.IsEagain(err) && !motionctl.IsIdle(err) {
				return err
			}
		}
	}
	return scanner.Err()
}

// parseLine parses "LINE x y z feed", e.g. "LINE 10 20 0 3000".
func parseLine(args []string) ([config.NumAxes]float64, float64, error) {
	var target [config.NumAxes]float64
	if len(args) < 4 {
		return target, 0, fmt.Errorf("expected 4 fields, got %d", len(args))
	}
	for i, axis := range []config.Axis{config.AxisX, config.AxisY, config.AxisZ} {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return target, 0, err
		}
		target[axis] = v
	}
	feed, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return target, 0, err
	}
	return target, feed, nil
}
