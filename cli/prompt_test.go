package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pthm-cable/ecosim/simulation"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrompter(strings.NewReader(input), &out, false), &out
}

func TestPrompterInt(t *testing.T) {
	p, out := newTestPrompter("abc\n0\n11\n 5 \n")
	got, err := p.Int(IntPrompt{Prompt: "> ", RangeError: "RANGE", ParseError: "PARSE", Min: 1, Max: 10})
	if err != nil {
		t.Fatalf("Int: %v", err)
	}
	if got != 5 {
		t.Errorf("Int = %d, want 5", got)
	}
	if n := strings.Count(out.String(), "PARSE"); n != 1 {
		t.Errorf("parse errors shown %d times, want 1", n)
	}
	if n := strings.Count(out.String(), "RANGE"); n != 2 {
		t.Errorf("range errors shown %d times, want 2", n)
	}
	if n := strings.Count(out.String(), "> "); n != 4 {
		t.Errorf("prompt shown %d times, want 4", n)
	}
}

func TestPrompterIntDefault(t *testing.T) {
	p, _ := newTestPrompter("\n")
	got, err := p.Int(IntPrompt{Min: 1, Max: 100, Default: 10, HasDefault: true})
	if err != nil || got != 10 {
		t.Errorf("Int = %d, %v; want default 10", got, err)
	}
}

func TestPrompterIntWithoutTrailingNewline(t *testing.T) {
	p, _ := newTestPrompter("7")
	got, err := p.Int(AtLeast(1, "", "", ""))
	if err != nil || got != 7 {
		t.Errorf("Int = %d, %v; want 7", got, err)
	}
}

func TestPrompterFloat(t *testing.T) {
	p, out := newTestPrompter("NaN\ninf\n-1\n1e400\n0.25\n")
	got, err := p.Float(FloatPrompt{RangeError: "RANGE", ParseError: "PARSE", Min: 0, Max: 1})
	if err != nil {
		t.Fatalf("Float: %v", err)
	}
	if got != 0.25 {
		t.Errorf("Float = %v, want 0.25", got)
	}
	if n := strings.Count(out.String(), "PARSE"); n != 3 {
		t.Errorf("parse errors shown %d times, want 3 (NaN, inf, overflow)", n)
	}
	if n := strings.Count(out.String(), "RANGE"); n != 1 {
		t.Errorf("range errors shown %d times, want 1", n)
	}
}

func TestPrompterName(t *testing.T) {
	p, out := newTestPrompter("   \nLion\nmaybe\nn\n  Tiger  \n\n")
	got, err := p.Name("name? ")
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if got != "Tiger" {
		t.Errorf("Name = %q, want Tiger", got)
	}
	for _, want := range []string{
		"Blank space is not allowed",
		"You entered 'Lion'. Proceed? [Y]/n: ",
		"Invalid choice. Please type 'Y' or 'n'.",
		"Okay, let's try again.",
		"You entered 'Tiger'.",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPrompterDecision(t *testing.T) {
	p, _ := newTestPrompter("Y\nn\nwhat\n")
	want := []simulation.Decision{simulation.DecisionProceed, simulation.DecisionDecline, simulation.DecisionInvalid}
	for i, w := range want {
		got, err := p.Decision("? ")
		if err != nil {
			t.Fatalf("Decision %d: %v", i, err)
		}
		if got != w {
			t.Errorf("Decision %d = %v, want %v", i, got, w)
		}
	}
}

func TestPrompterInputClosed(t *testing.T) {
	p, _ := newTestPrompter("abc\n")
	if _, err := p.Int(AtLeast(0, "", "", "")); !errors.Is(err, ErrInputClosed) {
		t.Errorf("Int error = %v, want ErrInputClosed", err)
	}
	if _, err := p.Name(""); !errors.Is(err, ErrInputClosed) {
		t.Errorf("Name error = %v, want ErrInputClosed", err)
	}
	if _, err := p.Decision(""); !errors.Is(err, ErrInputClosed) {
		t.Errorf("Decision error = %v, want ErrInputClosed", err)
	}
}

func TestPrompterEcho(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("42\r\n"), &out, true)
	if _, err := p.Int(AtLeast(0, "n: ", "", "")); err != nil {
		t.Fatal(err)
	}
	if out.String() != "n: 42\n" {
		t.Errorf("output = %q, want prompt followed by echoed answer", out.String())
	}
}
