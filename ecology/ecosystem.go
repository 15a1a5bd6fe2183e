package ecology

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
)

// Ecosystem owns a resource pool and an ordered list of uniquely named species.
// It is not safe for concurrent use.
type Ecosystem struct {
	resources  int64
	growthRate float64
	species    []*Species
	generation int

	rng    Rand
	logger *slog.Logger
}

// Option configures an Ecosystem.
type Option func(*Ecosystem)

// WithRand sets the random source used for mutation.
func WithRand(r Rand) Option {
	return func(e *Ecosystem) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Ecosystem) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEcosystem creates an ecosystem seeded with species, kept in the given order.
// The ecosystem takes ownership of the species; pass clones if the caller keeps them.
func NewEcosystem(resources int64, growthRate float64, species []*Species, opts ...Option) (*Ecosystem, error) {
	if resources < 0 {
		return nil, fmt.Errorf("%w: resources must be >= 0, got %d", ErrInvalidArgument, resources)
	}
	if !(growthRate >= 0) || math.IsInf(growthRate, 1) {
		return nil, fmt.Errorf("%w: growth rate must be >= 0, got %v", ErrInvalidArgument, growthRate)
	}

	e := &Ecosystem{
		resources:  resources,
		growthRate: growthRate,
		species:    make([]*Species, 0, len(species)),
		logger:     slog.Default(),
	}
	for _, s := range species {
		if s == nil {
			return nil, fmt.Errorf("%w: nil species", ErrInvalidArgument)
		}
		if e.indexOf(s.name) >= 0 {
			return nil, fmt.Errorf("%w: duplicate species %q", ErrInvalidArgument, s.name)
		}
		e.species = append(e.species, s)
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewRand(0)
	}
	return e, nil
}

func (e *Ecosystem) Resources() int64    { return e.resources }
func (e *Ecosystem) GrowthRate() float64 { return e.growthRate }

// Generation returns the number of generations applied so far.
func (e *Ecosystem) Generation() int { return e.generation }

// Len returns the number of species.
func (e *Ecosystem) Len() int { return len(e.species) }

// Names returns species names in list order.
func (e *Ecosystem) Names() []string {
	names := make([]string, len(e.species))
	for i, s := range e.species {
		names[i] = s.name
	}
	return names
}

// TotalPopulation sums all populations.
func (e *Ecosystem) TotalPopulation() int64 {
	var total int64
	for _, s := range e.species {
		total = addSat(total, s.population)
	}
	return total
}

func (e *Ecosystem) indexOf(name string) int {
	for i, s := range e.species {
		if s.name == name {
			return i
		}
	}
	return -1
}

// AddSpecies appends s unless a species with the same name already lives here.
// It reports whether s was added.
func (e *Ecosystem) AddSpecies(s *Species) bool {
	if s == nil {
		return false
	}
	if e.indexOf(s.name) >= 0 {
		e.logger.Info("species already exists", "species", s.name)
		return false
	}
	e.species = append(e.species, s)
	e.logger.Debug("species added", "species", s.name)
	return true
}

// RemoveSpecies removes the species called name and reports whether it existed.
func (e *Ecosystem) RemoveSpecies(name string) bool {
	i := e.indexOf(name)
	if i < 0 {
		e.logger.Info("species not found", "species", name)
		return false
	}
	e.species = append(e.species[:i], e.species[i+1:]...)
	e.logger.Debug("species removed", "species", name)
	return true
}

// SearchSpecies looks up a species by exact name. The returned species is a copy.
func (e *Ecosystem) SearchSpecies(name string) (*Species, bool) {
	i := e.indexOf(name)
	if i < 0 {
		return nil, false
	}
	return e.species[i].Clone(), true
}

// UpdateSpecies retunes the named species. It returns false when no such species
// exists, and an error wrapping ErrInvalidArgument when the values are rejected.
func (e *Ecosystem) UpdateSpecies(name string, population int64, growthRate, mutationRate float64) (bool, error) {
	i := e.indexOf(name)
	if i < 0 {
		return false, nil
	}
	if err := e.species[i].Retune(population, growthRate, mutationRate); err != nil {
		return true, err
	}
	return true, nil
}

// UpdateResources adds amount (which may be negative) to the pool. The pool is
// left unchanged when the result would be negative.
func (e *Ecosystem) UpdateResources(amount int64) error {
	next := addSat(e.resources, amount)
	if next < 0 {
		return fmt.Errorf("%w: resources cannot become negative (%d %+d)", ErrInvalidArgument, e.resources, amount)
	}
	e.resources = next
	return nil
}

// UpdateGrowthRate replaces the regeneration factor. Zero is allowed.
func (e *Ecosystem) UpdateGrowthRate(rate float64) error {
	if !(rate >= 0) || math.IsInf(rate, 1) {
		return fmt.Errorf("%w: growth rate cannot be negative, got %v", ErrInvalidArgument, rate)
	}
	e.growthRate = rate
	return nil
}

// Table returns a snapshot row per species, in list order.
func (e *Ecosystem) Table() []SpeciesRow {
	rows := make([]SpeciesRow, len(e.species))
	for i, s := range e.species {
		rows[i] = s.Row()
	}
	return rows
}

// Clone returns a deep copy sharing no species with e. The copy draws from the
// same random source.
func (e *Ecosystem) Clone() *Ecosystem {
	c := &Ecosystem{
		resources:  e.resources,
		growthRate: e.growthRate,
		species:    make([]*Species, len(e.species)),
		generation: e.generation,
		rng:        e.rng,
		logger:     e.logger,
	}
	for i, s := range e.species {
		c.species[i] = s.Clone()
	}
	return c
}

// MutationEvent records a mutation that fired during a generation.
type MutationEvent struct {
	Species    string
	Multiplier float64
	GrowthRate float64 // after mutation
}

// GenerationReport describes one call to RunGeneration.
type GenerationReport struct {
	Skipped          bool // no species, nothing simulated
	Generation       int
	Food             FoodAvailability
	PopulationBefore int64
	PopulationAfter  int64
	ResourcesAdded   int64
	Resources        int64
	GrowthRate       float64
	Mutations        []MutationEvent
	Species          []SpeciesRow

	Elapsed time.Duration // wall time of the step, filled in by the simulation driver
}

// Collapsed reports whether the generation left the pool empty.
func (r GenerationReport) Collapsed() bool {
	return !r.Skipped && r.Resources <= 0
}

// RunGeneration advances the ecosystem by one generation:
//
//  1. food is plenty when resources/2 covers the population before the tick;
//  2. every species, in list order, reproduces then mutates;
//  3. regeneration is resources * growthRate * speciesCount, computed on the
//     resources held before consumption;
//  4. resources lose the new total population, gain the regeneration, and are
//     clamped at zero.
//
// An ecosystem without species is left untouched.
func (e *Ecosystem) RunGeneration() GenerationReport {
	if len(e.species) == 0 {
		e.logger.Info("no species in the ecosystem, nothing to simulate")
		return GenerationReport{
			Skipped:    true,
			Generation: e.generation,
			Resources:  e.resources,
			GrowthRate: e.growthRate,
		}
	}

	before := e.TotalPopulation()

	food := FoodScarce
	if float64(e.resources)/2 >= float64(before) {
		food = FoodPlenty
	}

	var mutations []MutationEvent
	for _, s := range e.species {
		s.Reproduce(food)
		if m, fired := s.mutate(e.rng); fired {
			mutations = append(mutations, MutationEvent{Species: s.name, Multiplier: m, GrowthRate: s.growthRate})
			e.logger.Debug("species mutated", "species", s.name, "multiplier", m, "growth_rate", s.growthRate)
		}
	}

	after := e.TotalPopulation()
	added := truncInt(float64(e.resources) * (e.growthRate * float64(len(e.species))))

	e.resources = max(addSat(subSat(e.resources, after), added), 0)
	e.generation++

	report := GenerationReport{
		Generation:       e.generation,
		Food:             food,
		PopulationBefore: before,
		PopulationAfter:  after,
		ResourcesAdded:   added,
		Resources:        e.resources,
		GrowthRate:       e.growthRate,
		Mutations:        mutations,
		Species:          e.Table(),
	}
	e.logger.Debug("generation complete",
		"generation", report.Generation,
		"food", food.String(),
		"population_before", before,
		"population_after", after,
		"resources_added", added,
		"resources", e.resources,
		"mutations", len(mutations),
	)
	return report
}

// String summarises the ecosystem.
func (e *Ecosystem) String() string {
	return fmt.Sprintf("Resources: %d\nGrowth rate: %v\nSpecies: [%s]",
		e.resources, e.growthRate, strings.Join(e.Names(), ", "))
}
