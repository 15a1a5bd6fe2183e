package simulation

import "strings"

// Decision is the answer to a per-generation confirmation prompt.
type Decision int

const (
	DecisionInvalid Decision = iota
	DecisionProceed
	DecisionDecline
)

// Confirmer is asked before each interactive generation. generation is the
// 1-based number of the generation about to run.
type Confirmer interface {
	Confirm(generation int) (Decision, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(generation int) (Decision, error)

func (f ConfirmFunc) Confirm(generation int) (Decision, error) { return f(generation) }

// ParseDecision maps a [Y]/n answer: empty or "y" proceeds, "n" declines,
// anything else is invalid. Surrounding space and case are ignored.
func ParseDecision(answer string) Decision {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "y":
		return DecisionProceed
	case "n":
		return DecisionDecline
	default:
		return DecisionInvalid
	}
}
