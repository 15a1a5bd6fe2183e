package simulation

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/ecosim/ecology"
)

// Mode selects what a wrapper session mutates.
type Mode int

const (
	ModePermanent Mode = iota // the caller's ecosystem
	ModeSafe                  // a deep copy; the caller's ecosystem is untouched
)

func (m Mode) String() string {
	if m == ModeSafe {
		return "safe"
	}
	return "permanent"
}

// Action is one step of a wrapper session.
type Action int

const (
	ActionExit Action = iota
	ActionBatch
	ActionInteractive
)

// Controller drives a wrapper session.
type Controller interface {
	ChooseMode() (Mode, error)
	// NextAction returns the next action and, for batch or interactive runs,
	// the number of generations to simulate.
	NextAction() (Action, int, error)
	// ShowResult is called after every run with the ecosystem it mutated.
	ShowResult(res Result, eco *ecology.Ecosystem)
}

// Prepare returns the ecosystem a session in mode should mutate.
func Prepare(eco *ecology.Ecosystem, mode Mode) *ecology.Ecosystem {
	if mode == ModeSafe {
		return eco.Clone()
	}
	return eco
}

// SimulateWrapper lets ctrl pick permanent or safe mode, then runs batch or
// interactive simulations on the chosen ecosystem until ctrl exits. Every run
// reuses the same, now mutated, ecosystem. It returns the ecosystem that was
// simulated: eco itself in permanent mode, the copy in safe mode.
func SimulateWrapper(eco *ecology.Ecosystem, ctrl Controller, confirm Confirmer, opts Options) (*ecology.Ecosystem, error) {
	if eco == nil {
		return nil, ErrNoEcosystem
	}
	if ctrl == nil {
		return nil, errors.New("simulation: nil controller")
	}

	mode, err := ctrl.ChooseMode()
	if err != nil {
		return nil, fmt.Errorf("choosing mode: %w", err)
	}
	sim := Prepare(eco, mode)
	if ro, ok := opts.Observer.(RunObserver); ok {
		ro.StartRun()
	}
	opts.logger().Debug("simulation session started", "mode", mode.String())

	for {
		action, generations, err := ctrl.NextAction()
		if err != nil {
			return sim, fmt.Errorf("choosing action: %w", err)
		}

		var res Result
		switch action {
		case ActionExit:
			return sim, nil
		case ActionBatch:
			res, err = Simulate(sim, generations, opts)
		case ActionInteractive:
			res, err = SimulateInteractive(sim, generations, confirm, opts)
		default:
			return sim, fmt.Errorf("simulation: unknown action %d", action)
		}
		if err != nil {
			return sim, err
		}
		ctrl.ShowResult(res, sim)
	}
}
