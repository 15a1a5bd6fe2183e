package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/ecology"
	"github.com/pthm-cable/ecosim/simulation"
)

const minRate = 1e-16 // smallest accepted positive rate

const mainMenu = `
=========================
           MENU
=========================
1. Create new Ecosystem
2. Print Ecosystem Information
3. Add New Genus
4. Search Genus
5. Update Genus
6. Remove Genus
7. Show All Species
8. Update Resources
9. Simulate Generations
10. Exit
`

// App is the interactive menu. It drives simulation sessions as their
// simulation.Controller and simulation.Confirmer.
type App struct {
	eco      *ecology.Ecosystem
	p        *Prompter
	out      io.Writer
	cfg      *config.Config
	logger   *slog.Logger
	rng      ecology.Rand
	observer simulation.Observer
}

// AppOptions configures NewApp.
type AppOptions struct {
	Config   *config.Config
	Logger   *slog.Logger
	Rand     ecology.Rand
	Observer simulation.Observer // receives every simulated generation
	Echo     bool
}

// NewApp creates an app managing eco, which may be nil.
func NewApp(eco *ecology.Ecosystem, in io.Reader, out io.Writer, opts AppOptions) *App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Config == nil {
		opts.Config = config.Cfg()
	}
	if opts.Rand == nil {
		opts.Rand = ecology.NewRand(opts.Config.Simulation.Seed)
	}
	return &App{
		eco:      eco,
		p:        NewPrompter(in, out, opts.Echo),
		out:      out,
		cfg:      opts.Config,
		logger:   opts.Logger,
		rng:      opts.Rand,
		observer: opts.Observer,
	}
}

// Ecosystem returns the ecosystem the app currently manages.
func (a *App) Ecosystem() *ecology.Ecosystem { return a.eco }

// Run shows the main menu until the user exits or input ends.
func (a *App) Run() error {
	a.p.Println("\nWelcome to Ecosystem:")
	for {
		a.p.Printf("%s\n", mainMenu)
		choice, err := a.p.Int(IntPrompt{
			Prompt:     "Please choose an option (1-10): ",
			RangeError: "Choice out of range. Please choose a number between 1 and 10.",
			ParseError: "Invalid input. Please enter a number between 1 and 10.",
			Min:        1, Max: 10,
		})
		if err == nil {
			if choice == 10 {
				a.p.Println("Exiting...")
				return nil
			}
			err = a.dispatch(choice)
		}
		if errors.Is(err, ErrInputClosed) {
			a.p.Println("Exiting...")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) dispatch(choice int64) error {
	if choice == 1 {
		return a.createEcosystem()
	}
	if a.eco == nil {
		a.p.Println("\nNo ecosystem exists yet! Create one first.")
		return nil
	}

	switch choice {
	case 2:
		a.p.Println()
		RenderSummary(a.out, a.eco)
	case 3:
		return a.addSpecies()
	case 4:
		return a.searchSpecies()
	case 5:
		return a.updateSpecies()
	case 6:
		return a.removeSpecies()
	case 7:
		a.p.Println("\nCurrent State for each Genus that lives in the Ecosystem:")
		return RenderTable(a.out, a.eco.Table())
	case 8:
		return a.updateResources()
	case 9:
		return a.simulate()
	}
	return nil
}

func (a *App) createEcosystem() error {
	resources, err := a.p.Int(AtLeast(1,
		"\nPlease enter starting resources for the ecosystem: ",
		"Resources have to be at least 1.",
		"Wrong input. Please enter an integer greater or equal to 1."))
	if err != nil {
		return err
	}
	growth, err := a.p.Float(a.positiveRate("Please Enter Ecosystem's Growth rate: "))
	if err != nil {
		return err
	}

	eco, err := ecology.NewEcosystem(resources, growth, nil,
		ecology.WithRand(a.rng), ecology.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.eco = eco
	a.StartRun()
	a.logger.Debug("ecosystem created", "resources", resources, "growth_rate", growth)

	a.p.Println("\n               --- POOF ----")
	a.p.Println("       ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	a.p.Println("               NEW ECOSYSTEM")
	a.p.Println("       ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	a.p.Printf("\nNew ecosystem with starting resources %d and %v growth rate created!\n\n", eco.Resources(), eco.GrowthRate())
	return nil
}

func (a *App) positiveRate(prompt string) FloatPrompt {
	return FloatPrompt{
		Prompt:     prompt,
		RangeError: "Growth rate must be greater than 0!",
		ParseError: "Invalid input. Please enter a real number greater than 0.",
		Min:        minRate, Max: math.MaxFloat64,
	}
}

func mutationRate(prompt string) FloatPrompt {
	return FloatPrompt{
		Prompt:     prompt,
		RangeError: "Mutation rate must be between 0 and 1!",
		ParseError: "Invalid input. Please enter a number between 0 and 1.",
		Min:        0, Max: 1,
	}
}

func population(prompt string) IntPrompt {
	return AtLeast(1, prompt,
		"Population must be at least 1!",
		"Invalid input. Please enter an integer greater than 0.")
}

func isExit(name string) bool {
	return strings.EqualFold(name, "exit")
}

func (a *App) hasSpeciesFold(name string) bool {
	for _, n := range a.eco.Names() {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

func (a *App) addSpecies() error {
	for {
		name, err := a.p.Name("\nPlease enter genus' name (first letter capital is preferred) or type 'exit' to return: ")
		if err != nil {
			return err
		}
		if isExit(name) {
			a.p.Println("Returning to main menu")
			return nil
		}
		if a.hasSpeciesFold(name) {
			a.p.Printf("%s already exists in the ecosystem. Please choose a different name.\n\n", name)
			continue
		}

		pop, err := a.p.Int(population(fmt.Sprintf("Please Enter %s's Population: ", name)))
		if err != nil {
			return err
		}
		growth, err := a.p.Float(a.positiveRate(fmt.Sprintf("Please Enter %s's Growth rate: ", name)))
		if err != nil {
			return err
		}
		mutation, err := a.p.Float(mutationRate(fmt.Sprintf("Please Enter %s's mutation rate (0-1): ", name)))
		if err != nil {
			return err
		}

		s, err := ecology.NewSpecies(name, pop, growth, mutation)
		if err != nil {
			a.p.Printf("Could not create %s: %v\n", name, err)
			continue
		}
		if a.eco.AddSpecies(s) {
			a.p.Printf("%s added to the Ecosystem\n", name)
		}
	}
}

func (a *App) searchSpecies() error {
	for {
		a.p.Println()
		name, err := a.p.Name("Please enter genus' name you wish to search (or type 'exit' to stop): ")
		if err != nil {
			return err
		}
		if isExit(name) {
			a.p.Println("Returning to main menu.")
			return nil
		}

		if s, ok := a.eco.SearchSpecies(name); ok {
			a.p.Printf("%s exists in the Ecosystem:\n\n%s\n", s.Name(), s.Info())
			continue
		}
		a.p.Printf("Sorry but %s doesn't currently live in the Ecosystem.\n", name)
		if suggestions := a.eco.Suggest(name, a.cfg.Search.MaxSuggestions); len(suggestions) > 0 {
			a.p.Printf("Did you mean: %s?\n", strings.Join(suggestions, ", "))
		}
	}
}

// pickSpecies shows a numbered species list and returns the chosen name, or
// "" when the user picks the trailing exit entry.
func (a *App) pickSpecies(verb string) (string, error) {
	names := a.eco.Names()
	n := int64(len(names))

	a.p.Println("\n-----------------------------")
	a.p.Println("        Species List")
	a.p.Println("-----------------------------")
	a.p.Println()
	for i, name := range names {
		a.p.Printf("%d. %s\n", i+1, name)
	}
	a.p.Printf("%d. Exit\n\n", n+1)

	choice, err := a.p.Int(IntPrompt{
		Prompt:     fmt.Sprintf("Please enter the number (from 1 to %d) of the genus you wish to %s (or %d to exit): ", n, verb, n+1),
		RangeError: fmt.Sprintf("Please choose an integer from 1 to %d", n+1),
		ParseError: fmt.Sprintf("Wrong Input. Please choose an integer from 1 to %d", n+1),
		Min:        1, Max: n + 1,
	})
	if err != nil {
		return "", err
	}
	if choice == n+1 {
		return "", nil
	}
	return names[choice-1], nil
}

func (a *App) updateSpecies() error {
	for {
		name, err := a.pickSpecies("update")
		if err != nil {
			return err
		}
		if name == "" {
			a.p.Println("Returning to main menu.")
			return nil
		}

		pop, err := a.p.Int(population(fmt.Sprintf("Please Enter %s's new Population: ", name)))
		if err != nil {
			return err
		}
		growth, err := a.p.Float(a.positiveRate(fmt.Sprintf("Please Enter %s's new Growth rate: ", name)))
		if err != nil {
			return err
		}
		mutation, err := a.p.Float(mutationRate(fmt.Sprintf("Please Enter %s's new mutation rate (0-1): ", name)))
		if err != nil {
			return err
		}

		if _, err := a.eco.UpdateSpecies(name, pop, growth, mutation); err != nil {
			a.p.Printf("Could not update %s: %v\n", name, err)
			continue
		}
		s, _ := a.eco.SearchSpecies(name)
		a.p.Printf("\nUpdated species information:\n\n%s\n\n", s.Info())
	}
}

func (a *App) removeSpecies() error {
	for {
		name, err := a.pickSpecies("remove")
		if err != nil {
			return err
		}
		if name == "" {
			a.p.Println("Returning to main menu.")
			return nil
		}
		if a.eco.RemoveSpecies(name) {
			a.p.Printf("%s successfully removed from the Ecosystem!\n", name)
		}
	}
}

func (a *App) updateResources() error {
	a.p.Println()
	a.p.Println("1. Add resources")
	a.p.Println("2. Remove resources")
	a.p.Println("3. Update Ecosystem's growth rate")
	a.p.Println()

	choice, err := a.p.Int(IntPrompt{
		Prompt:     "Please choose one of the above (Enter 1, 2 or 3): ",
		RangeError: "Out of range. Please enter one of the options above.",
		ParseError: "Wrong Input. Please enter one of the options above.",
		Min:        1, Max: 3,
	})
	if err != nil {
		return err
	}

	if choice == 3 {
		rate, err := a.p.Float(FloatPrompt{
			Prompt:     "Enter new growth rate: ",
			RangeError: "Growth Rate must be positive.",
			ParseError: "Invalid input. Please enter a positive real number.",
			Min:        0, Max: math.MaxFloat64,
		})
		if err != nil {
			return err
		}
		if err := a.eco.UpdateGrowthRate(rate); err != nil {
			a.p.Printf("Could not update growth rate: %v\n", err)
			return nil
		}
		a.p.Printf("\nEcosystem's growth rate successfully updated to %v!\n", a.eco.GrowthRate())
		return nil
	}

	amount, err := a.p.Int(AtLeast(0, "Enter the amount: ",
		"Resources must be positive or 0.",
		"Invalid input. Please enter a positive integer or 0."))
	if err != nil {
		return err
	}
	if choice == 2 {
		amount = -amount
	}
	if err := a.eco.UpdateResources(amount); err != nil {
		a.p.Printf("Cannot remove %d resources: only %d available.\n", -amount, a.eco.Resources())
		return nil
	}
	a.p.Printf("\nEcosystem's resources successfully updated to %d!\n", a.eco.Resources())
	return nil
}

func (a *App) simulate() error {
	opts := simulation.Options{Observer: a, Logger: a.logger}
	_, err := simulation.SimulateWrapper(a.eco, a, a, opts)
	return err
}

// ObserveGeneration prints each generation and forwards it to the configured
// observer.
func (a *App) ObserveGeneration(r ecology.GenerationReport) {
	RenderGeneration(a.out, r)
	if a.observer != nil {
		a.observer.ObserveGeneration(r)
	}
}

// StartRun tells the configured observer that a new run begins, when it
// tracks runs.
func (a *App) StartRun() {
	if ro, ok := a.observer.(simulation.RunObserver); ok {
		ro.StartRun()
	}
}

// ChooseMode asks whether to simulate the real ecosystem or a copy.
func (a *App) ChooseMode() (simulation.Mode, error) {
	a.p.Println("\nSimulation Mode:")
	a.p.Println("1. Permanent simulation (affects real ecosystem)")
	a.p.Println("2. Safe test simulation (works on a copy)")

	mode, err := a.p.Int(IntPrompt{
		Prompt:     "Choose mode (1 or 2): ",
		RangeError: "Please enter 1 or 2.",
		ParseError: "Invalid input.",
		Min:        1, Max: 2,
	})
	if err != nil {
		return simulation.ModePermanent, err
	}
	if mode == 1 {
		a.p.Println("\n-> Running simulation on the REAL ecosystem.")
		return simulation.ModePermanent, nil
	}
	a.p.Println("\n-> Running simulation on a COPY (original stays unchanged).")
	return simulation.ModeSafe, nil
}

// NextAction shows the simulation menu.
func (a *App) NextAction() (simulation.Action, int, error) {
	a.p.Println("\n---- Simulation ----")
	a.p.Println("1. Simulate")
	a.p.Println("2. Simulate with Interactions")
	a.p.Println("3. Exit")
	a.p.Println()

	choice, err := a.p.Int(IntPrompt{
		Prompt:     "Please enter one of the options above: ",
		RangeError: "Choice out of range. Please choose 1, 2 or 3.",
		ParseError: "Invalid Input. Please choose 1, 2 or 3.",
		Min:        1, Max: 3,
	})
	if err != nil {
		return simulation.ActionExit, 0, err
	}
	if choice == 3 {
		a.p.Println("Returning to main menu")
		return simulation.ActionExit, 0, nil
	}

	a.p.Println()
	n, err := a.p.Int(IntPrompt{
		Prompt:     fmt.Sprintf("How many generations would you like to simulate? [%d]: ", a.cfg.Simulation.DefaultGenerations),
		RangeError: "Number of generations must be at least 1.",
		ParseError: "Invalid Input. Please enter an integer >= 1.",
		Min:        1, Max: math.MaxInt32,
		Default:    int64(a.cfg.Simulation.DefaultGenerations),
		HasDefault: true,
	})
	if err != nil {
		return simulation.ActionExit, 0, err
	}

	if choice == 1 {
		return simulation.ActionBatch, int(n), nil
	}
	return simulation.ActionInteractive, int(n), nil
}

// Confirm asks before each interactive generation.
func (a *App) Confirm(generation int) (simulation.Decision, error) {
	return a.p.Decision(fmt.Sprintf("\nCurrent Generation: %d. Proceed? [Y]/n: ", generation))
}

// ShowResult prints where a simulation run ended.
func (a *App) ShowResult(res simulation.Result, eco *ecology.Ecosystem) {
	RenderResult(a.out, res, eco)
}
