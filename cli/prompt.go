// Package cli is the interactive console front end: menus, validated prompts
// and table rendering around the ecology core.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pthm-cable/ecosim/simulation"
)

// ErrInputClosed is returned by every prompt once input is exhausted.
var ErrInputClosed = errors.New("input closed")

// Prompter reads validated answers, re-prompting until one is acceptable.
type Prompter struct {
	in   *bufio.Reader
	out  io.Writer
	echo bool // write answers back, for input that is not a terminal
}

// NewPrompter reads from in and writes prompts and messages to out.
func NewPrompter(in io.Reader, out io.Writer, echo bool) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, echo: echo}
}

// Printf writes to the prompter's output.
func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Println writes a line to the prompter's output.
func (p *Prompter) Println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

// Line shows prompt and returns the next input line without its line ending.
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading input: %w", err)
		}
		if line == "" {
			fmt.Fprintln(p.out)
			return "", ErrInputClosed
		}
	}
	line = strings.TrimRight(line, "\r\n")
	if p.echo {
		fmt.Fprintln(p.out, line)
	}
	return line, nil
}

// IntPrompt describes a bounded integer question.
type IntPrompt struct {
	Prompt     string
	RangeError string // shown when the value is outside [Min, Max]
	ParseError string // shown when the answer is not an integer
	Min, Max   int64

	Default    int64 // returned for an empty answer when HasDefault is set
	HasDefault bool
}

// AtLeast returns an IntPrompt with only a lower bound.
func AtLeast(min int64, prompt, rangeErr, parseErr string) IntPrompt {
	return IntPrompt{Prompt: prompt, RangeError: rangeErr, ParseError: parseErr, Min: min, Max: math.MaxInt64}
}

// Int asks q until the answer is an integer in range.
func (p *Prompter) Int(q IntPrompt) (int64, error) {
	for {
		line, err := p.Line(q.Prompt)
		if err != nil {
			return 0, err
		}
		line = strings.TrimSpace(line)
		if line == "" && q.HasDefault {
			return q.Default, nil
		}
		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			p.Println(q.ParseError)
			continue
		}
		if v < q.Min || v > q.Max {
			p.Println(q.RangeError)
			continue
		}
		return v, nil
	}
}

// FloatPrompt describes a bounded real-number question.
type FloatPrompt struct {
	Prompt     string
	RangeError string
	ParseError string
	Min, Max   float64
}

// Float asks q until the answer is a finite number in range.
func (p *Prompter) Float(q FloatPrompt) (float64, error) {
	for {
		line, err := p.Line(q.Prompt)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			p.Println(q.ParseError)
			continue
		}
		if v < q.Min || v > q.Max {
			p.Println(q.RangeError)
			continue
		}
		return v, nil
	}
}

// Decision asks a [Y]/n question once. Invalid answers are reported and
// returned as simulation.DecisionInvalid.
func (p *Prompter) Decision(prompt string) (simulation.Decision, error) {
	line, err := p.Line(prompt)
	if err != nil {
		return simulation.DecisionInvalid, err
	}
	d := simulation.ParseDecision(line)
	if d == simulation.DecisionInvalid {
		p.Println("Invalid choice. Please type 'Y' or 'n'.")
	}
	return d, nil
}

// Name asks for a non-blank name and has the user confirm it.
func (p *Prompter) Name(prompt string) (string, error) {
	for {
		line, err := p.Line(prompt)
		if err != nil {
			return "", err
		}
		name := strings.TrimSpace(line)
		if name == "" {
			p.Println("Wrong Input. Blank space is not allowed.")
			continue
		}

		confirmed, err := p.confirm(fmt.Sprintf("You entered '%s'. Proceed? [Y]/n: ", name))
		if err != nil {
			return "", err
		}
		if confirmed {
			p.Println()
			return name, nil
		}
		p.Println("Okay, let's try again.")
		p.Println()
	}
}

// confirm repeats prompt until it gets a yes or a no.
func (p *Prompter) confirm(prompt string) (bool, error) {
	for {
		d, err := p.Decision(prompt)
		if err != nil {
			return false, err
		}
		switch d {
		case simulation.DecisionProceed:
			return true, nil
		case simulation.DecisionDecline:
			return false, nil
		}
	}
}
