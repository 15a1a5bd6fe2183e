// Package simulation steps an ecosystem through many generations, either
// unattended or one confirmed generation at a time.
package simulation

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/ecosim/ecology"
)

// ErrNoEcosystem is returned when a driver is handed a nil ecosystem.
var ErrNoEcosystem = errors.New("no ecosystem exists")

// Outcome is the terminal state of one driver invocation.
type Outcome int

const (
	OutcomeRunning Outcome = iota
	OutcomeCompleted
	OutcomeCollapsed
	OutcomeStopped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeCompleted:
		return "completed"
	case OutcomeCollapsed:
		return "collapsed"
	case OutcomeStopped:
		return "stopped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result summarises a driver invocation.
type Result struct {
	Outcome     Outcome
	Requested   int // generation budget
	Generations int // generations actually stepped
	Last        ecology.GenerationReport
}

// Observer receives every generation a driver steps, including skipped
// generations of an empty ecosystem.
type Observer interface {
	ObserveGeneration(report ecology.GenerationReport)
}

// RunObserver is an Observer that tracks runs. SimulateWrapper calls StartRun
// once per session, after the session's ecosystem is prepared.
type RunObserver interface {
	Observer
	StartRun()
}

// Options configures the drivers. The zero value is usable.
type Options struct {
	Observer Observer
	Logger   *slog.Logger

	now func() time.Time // clock for GenerationReport.Elapsed; time.Now when nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// step runs one generation and returns the outcome it leads to.
func (o Options) step(eco *ecology.Ecosystem, res *Result) Outcome {
	now := o.now
	if now == nil {
		now = time.Now
	}
	start := now()
	report := eco.RunGeneration()
	report.Elapsed = now().Sub(start)
	res.Generations++
	res.Last = report
	if o.Observer != nil {
		o.Observer.ObserveGeneration(report)
	}

	if eco.Resources() <= 0 {
		o.logger().Info("ecosystem ran out of resources", "generations", res.Generations)
		return OutcomeCollapsed
	}
	if res.Generations >= res.Requested {
		return OutcomeCompleted
	}
	return OutcomeRunning
}

func checkArgs(eco *ecology.Ecosystem, generations int) error {
	if eco == nil {
		return ErrNoEcosystem
	}
	if generations < 1 {
		return fmt.Errorf("%w: generations must be >= 1, got %d", ecology.ErrInvalidArgument, generations)
	}
	return nil
}

// Simulate runs up to generations generations without interaction. It stops
// early after the first generation that leaves the ecosystem without resources.
func Simulate(eco *ecology.Ecosystem, generations int, opts Options) (Result, error) {
	if err := checkArgs(eco, generations); err != nil {
		return Result{}, err
	}

	res := Result{Outcome: OutcomeRunning, Requested: generations}
	for res.Outcome == OutcomeRunning {
		res.Outcome = opts.step(eco, &res)
	}

	opts.logger().Debug("simulation finished",
		"outcome", res.Outcome.String(),
		"generations", res.Generations,
		"resources", eco.Resources(),
	)
	return res, nil
}

// SimulateInteractive behaves like Simulate but asks confirm before every
// generation. A declined prompt stops the run with OutcomeStopped; an invalid
// answer asks again for the same generation.
func SimulateInteractive(eco *ecology.Ecosystem, generations int, confirm Confirmer, opts Options) (Result, error) {
	if err := checkArgs(eco, generations); err != nil {
		return Result{}, err
	}
	if confirm == nil {
		return Result{}, errors.New("simulation: nil confirmer")
	}

	res := Result{Outcome: OutcomeRunning, Requested: generations}
	for res.Outcome == OutcomeRunning {
		decision, err := confirm.Confirm(res.Generations + 1)
		if err != nil {
			res.Outcome = OutcomeStopped
			return res, fmt.Errorf("confirming generation %d: %w", res.Generations+1, err)
		}

		switch decision {
		case DecisionProceed:
			res.Outcome = opts.step(eco, &res)
		case DecisionDecline:
			res.Outcome = OutcomeStopped
		default:
			opts.logger().Debug("invalid confirmation, asking again", "generation", res.Generations+1)
		}
	}

	opts.logger().Debug("interactive simulation finished",
		"outcome", res.Outcome.String(),
		"generations", res.Generations,
		"resources", eco.Resources(),
	)
	return res, nil
}
