package cli

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/ecology"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

// collapsingSpecies exhausts 100 resources on its third generation.
func collapsingSpecies() []*ecology.Species {
	s, _ := ecology.NewSpecies("Hare", 10, 1, 0)
	return []*ecology.Species{s}
}

func mustEcosystem(t *testing.T, species []*ecology.Species) *ecology.Ecosystem {
	t.Helper()
	eco, err := ecology.NewEcosystem(100, 0, species,
		ecology.WithRand(ecology.NewRand(1)), ecology.WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	return eco
}

func thrivingEcosystem(t *testing.T) *ecology.Ecosystem {
	t.Helper()
	s, _ := ecology.NewSpecies("Moss", 1, 1, 0)
	eco, err := ecology.NewEcosystem(1000, 0.5, []*ecology.Species{s},
		ecology.WithRand(ecology.NewRand(1)), ecology.WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	return eco
}

func catalogEcosystem(t *testing.T) *ecology.Ecosystem {
	t.Helper()
	eco, err := BuildEcosystem(testConfig(t), ecology.NewRand(1), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	return eco
}

type countingObserver struct{ n int }

func (o *countingObserver) ObserveGeneration(ecology.GenerationReport) { o.n++ }

func runApp(t *testing.T, eco *ecology.Ecosystem, input string, obs *countingObserver) (*App, string) {
	t.Helper()
	var out bytes.Buffer
	opts := AppOptions{Config: testConfig(t), Logger: quietLogger(), Rand: ecology.NewRand(1)}
	if obs != nil {
		opts.Observer = obs
	}
	app := NewApp(eco, strings.NewReader(input), &out, opts)
	if err := app.Run(); err != nil {
		t.Fatalf("Run: %v\n%s", err, out.String())
	}
	return app, out.String()
}

func TestAppExit(t *testing.T) {
	_, out := runApp(t, nil, "10\n", nil)
	if !strings.Contains(out, "Welcome to Ecosystem") || !strings.Contains(out, "Exiting...") {
		t.Errorf("output:\n%s", out)
	}
}

func TestAppExitsOnEOF(t *testing.T) {
	_, out := runApp(t, nil, "", nil)
	if !strings.Contains(out, "Exiting...") {
		t.Errorf("output:\n%s", out)
	}
}

func TestAppRequiresEcosystem(t *testing.T) {
	for _, choice := range []string{"2", "3", "4", "5", "6", "7", "8", "9"} {
		_, out := runApp(t, nil, choice+"\n10\n", nil)
		if !strings.Contains(out, "No ecosystem exists yet! Create one first.") {
			t.Errorf("option %s did not report a missing ecosystem:\n%s", choice, out)
		}
	}
}

func TestAppMenuRejectsBadChoice(t *testing.T) {
	_, out := runApp(t, nil, "x\n11\n10\n", nil)
	if !strings.Contains(out, "Invalid input. Please enter a number between 1 and 10.") {
		t.Error("missing parse message")
	}
	if !strings.Contains(out, "Choice out of range.") {
		t.Error("missing range message")
	}
}

func TestAppCreateEcosystem(t *testing.T) {
	app, out := runApp(t, nil, "1\n0\n500\n0\n0.3\n2\n10\n", nil)
	eco := app.Ecosystem()
	if eco == nil {
		t.Fatal("no ecosystem created")
	}
	if eco.Resources() != 500 || eco.GrowthRate() != 0.3 || eco.Len() != 0 {
		t.Errorf("ecosystem = %d/%v/%d species", eco.Resources(), eco.GrowthRate(), eco.Len())
	}
	for _, want := range []string{
		"Resources have to be at least 1.",
		"Growth rate must be greater than 0!",
		"NEW ECOSYSTEM",
		"Ecosystem has 500 resources and 0.3 growth rate but no Species exist yet!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestAppAddSpecies(t *testing.T) {
	eco := mustEcosystem(t, nil)
	input := strings.Join([]string{
		"3",
		"Hare", "", "10", "0.5", "0.2",
		"hare", "y",
		"exit", "",
		"10",
	}, "\n") + "\n"

	_, out := runApp(t, eco, input, nil)
	if eco.Len() != 1 {
		t.Fatalf("species = %v, want [Hare]", eco.Names())
	}
	s, _ := eco.SearchSpecies("Hare")
	if s.Population() != 10 || s.GrowthRate() != 0.5 || s.MutationRate() != 0.2 {
		t.Errorf("Hare = %+v", s.Row())
	}
	if !strings.Contains(out, "Hare added to the Ecosystem") {
		t.Error("missing added message")
	}
	if !strings.Contains(out, "hare already exists in the ecosystem.") {
		t.Error("case-insensitive duplicate not rejected")
	}
}

func TestAppSearchSpecies(t *testing.T) {
	input := "4\nLion\n\nElefant\n\nexit\n\n10\n"
	_, out := runApp(t, catalogEcosystem(t), input, nil)
	for _, want := range []string{
		"Lion exists in the Ecosystem:",
		"Species Name: Lion",
		"Sorry but Elefant doesn't currently live in the Ecosystem.",
		"Did you mean: Elephant?",
		"Returning to main menu.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestAppUpdateSpecies(t *testing.T) {
	eco := catalogEcosystem(t)
	_, out := runApp(t, eco, "5\n1\n7\n0.5\n1\n6\n10\n", nil)

	lion, _ := eco.SearchSpecies("Lion")
	if lion.Population() != 7 || lion.GrowthRate() != 0.5 || lion.MutationRate() != 1 {
		t.Errorf("Lion = %+v", lion.Row())
	}
	if !strings.Contains(out, "Updated species information:") {
		t.Error("missing update confirmation")
	}
}

func TestAppRemoveSpecies(t *testing.T) {
	eco := catalogEcosystem(t)
	_, out := runApp(t, eco, "6\n2\n5\n10\n", nil)

	if _, ok := eco.SearchSpecies("Zebra"); ok {
		t.Error("Zebra still present")
	}
	if eco.Len() != 4 {
		t.Errorf("Len() = %d, want 4", eco.Len())
	}
	if !strings.Contains(out, "Zebra successfully removed from the Ecosystem!") {
		t.Error("missing removal message")
	}
	// The second listing has four species and exit at 5.
	if !strings.Contains(out, "(or 5 to exit)") {
		t.Error("list not renumbered after removal")
	}
}

func TestAppShowAllSpecies(t *testing.T) {
	_, out := runApp(t, catalogEcosystem(t), "7\n10\n", nil)
	for _, name := range []string{"Lion", "Zebra", "Elephant", "Wolf", "Giraffe"} {
		if !strings.Contains(out, name) {
			t.Errorf("table missing %s", name)
		}
	}
}

func TestAppUpdateResources(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		resources int64
		growth    float64
		want      string
	}{
		{"add", "8\n1\n50\n10\n", 150, 0, "resources successfully updated to 150"},
		{"remove", "8\n2\n40\n10\n", 60, 0, "resources successfully updated to 60"},
		{"remove too many", "8\n2\n5000\n10\n", 100, 0, "Cannot remove 5000 resources: only 100 available."},
		{"negative amount", "8\n1\n-5\n0\n10\n", 100, 0, "Resources must be positive or 0."},
		{"growth rate", "8\n3\n0.5\n10\n", 100, 0.5, "growth rate successfully updated to 0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eco := mustEcosystem(t, collapsingSpecies())
			_, out := runApp(t, eco, tt.input, nil)
			if eco.Resources() != tt.resources || eco.GrowthRate() != tt.growth {
				t.Errorf("resources/growth = %d/%v, want %d/%v", eco.Resources(), eco.GrowthRate(), tt.resources, tt.growth)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestAppSimulateBatchPermanent(t *testing.T) {
	eco := mustEcosystem(t, collapsingSpecies())
	obs := &countingObserver{}
	_, out := runApp(t, eco, "9\n1\n1\n5\n3\n10\n", obs)

	if eco.Resources() != 0 || eco.Generation() != 3 {
		t.Errorf("ecosystem = %d resources after %d generations, want 0 after 3", eco.Resources(), eco.Generation())
	}
	if obs.n != 3 {
		t.Errorf("observer saw %d generations, want 3", obs.n)
	}
	for _, want := range []string{
		"Running simulation on the REAL ecosystem.",
		"--- Running Generation 3 ---",
		"Ecosystem ran out of Resources after 3 Generations",
		"Returning to main menu",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestAppSimulateInteractiveSafe(t *testing.T) {
	eco := thrivingEcosystem(t)
	input := "9\n2\n2\n3\n\nmaybe\ny\nn\n3\n10\n"
	_, out := runApp(t, eco, input, nil)

	if eco.Generation() != 0 || eco.Resources() != 1000 {
		t.Errorf("original changed: generation %d, resources %d", eco.Generation(), eco.Resources())
	}
	for _, want := range []string{
		"Running simulation on a COPY",
		"Current Generation: 1. Proceed? [Y]/n: ",
		"Invalid choice. Please type 'Y' or 'n'.",
		"Current Generation: 3. Proceed? [Y]/n: ",
		"Stopped at 2 Generations:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestAppSimulateDefaultGenerations(t *testing.T) {
	eco := thrivingEcosystem(t)
	obs := &countingObserver{}
	runApp(t, eco, "9\n1\n1\n\n3\n10\n", obs)

	if eco.Generation() != 10 || obs.n != 10 {
		t.Errorf("ran %d generations (observed %d), want the configured 10", eco.Generation(), obs.n)
	}
}

func TestAppSimulateRepeatedRunsContinue(t *testing.T) {
	eco := thrivingEcosystem(t)
	runApp(t, eco, "9\n1\n1\n2\n1\n3\n3\n10\n", nil)
	if eco.Generation() != 5 {
		t.Errorf("Generation() = %d, want 5 across both runs", eco.Generation())
	}
}

func TestBuildEcosystem(t *testing.T) {
	cfg := testConfig(t)
	eco, err := BuildEcosystem(cfg, ecology.NewRand(1), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if eco.Len() != 5 || eco.Resources() != 1000 || eco.GrowthRate() != 0.2 {
		t.Errorf("ecosystem = %s", eco)
	}

	cfg.Ecosystem.SeedCatalog = false
	eco, err = BuildEcosystem(cfg, nil, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if eco.Len() != 0 {
		t.Errorf("unseeded ecosystem has %d species", eco.Len())
	}
}

func TestBuildCatalogRejectsDuplicates(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog = append(cfg.Catalog, cfg.Catalog[0])
	if _, err := BuildCatalog(cfg); !errors.Is(err, ecology.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}
