// Package ecology implements the simulation core: species that reproduce and
// mutate, and the ecosystem that steps them generation by generation against a
// shared resource pool.
package ecology

import (
	"fmt"
	"math"
	"strings"
)

// FoodAvailability is the per-generation scarcity signal shared by every species.
type FoodAvailability int

const (
	FoodScarce FoodAvailability = 0
	FoodPlenty FoodAvailability = 1
)

// String returns the name of the food level.
func (f FoodAvailability) String() string {
	if f == FoodPlenty {
		return "plenty"
	}
	return "scarce"
}

// Mutation multipliers, picked with equal probability when a mutation fires.
const (
	MutationAmplify = 1.1
	MutationDampen  = 0.7
)

// scarcityFactor scales the growth rate when food is scarce.
const scarcityFactor = 0.5

// Species is a single population with a scalar growth-rate trait.
// The name is fixed at construction and identifies the species inside an ecosystem.
type Species struct {
	name         string
	population   int64
	growthRate   float64
	mutationRate float64
}

// NewSpecies validates its arguments and creates a species.
func NewSpecies(name string, population int64, growthRate, mutationRate float64) (*Species, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: species name must be a non-empty string", ErrInvalidArgument)
	}
	if err := validateTraits(population, growthRate, mutationRate); err != nil {
		return nil, err
	}
	return &Species{
		name:         name,
		population:   population,
		growthRate:   growthRate,
		mutationRate: mutationRate,
	}, nil
}

func validateTraits(population int64, growthRate, mutationRate float64) error {
	if population <= 0 {
		return fmt.Errorf("%w: population must be > 0, got %d", ErrInvalidArgument, population)
	}
	// Written as !(x > 0) so NaN is rejected too.
	if !(growthRate > 0) || math.IsInf(growthRate, 1) {
		return fmt.Errorf("%w: growth rate must be > 0, got %v", ErrInvalidArgument, growthRate)
	}
	if !(mutationRate >= 0 && mutationRate <= 1) {
		return fmt.Errorf("%w: mutation rate must be between 0 and 1, got %v", ErrInvalidArgument, mutationRate)
	}
	return nil
}

func (s *Species) Name() string          { return s.name }
func (s *Species) Population() int64     { return s.population }
func (s *Species) GrowthRate() float64   { return s.growthRate }
func (s *Species) MutationRate() float64 { return s.mutationRate }

// Reproduce grows the population for one generation and returns the new size.
// Scarce food halves the effective growth rate. The increment is truncated, so
// a small population with a small rate can stay unchanged.
func (s *Species) Reproduce(food FoodAvailability) int64 {
	rate := s.growthRate
	if food != FoodPlenty {
		rate = scarcityFactor * s.growthRate
	}
	s.population = addSat(s.population, truncInt(rate*float64(s.population)))
	return s.population
}

// Mutate runs one mutation trial and returns the (possibly unchanged) growth rate.
func (s *Species) Mutate(r Rand) float64 {
	s.mutate(r)
	return s.growthRate
}

// mutate reports the multiplier applied, or fired=false when the trial missed.
func (s *Species) mutate(r Rand) (multiplier float64, fired bool) {
	if r.Float64() > s.mutationRate {
		return 1, false
	}
	multiplier = MutationAmplify
	if r.IntN(2) == 1 {
		multiplier = MutationDampen
	}
	s.growthRate *= multiplier
	return multiplier, true
}

// Retune overwrites population and both rates after validating them with the
// construction rules. The species is unchanged on error.
func (s *Species) Retune(population int64, growthRate, mutationRate float64) error {
	if err := validateTraits(population, growthRate, mutationRate); err != nil {
		return err
	}
	s.population = population
	s.growthRate = growthRate
	s.mutationRate = mutationRate
	return nil
}

// Clone returns an independent copy.
func (s *Species) Clone() *Species {
	c := *s
	return &c
}

// Row returns the species as a table row.
func (s *Species) Row() SpeciesRow {
	return SpeciesRow{
		Name:         s.name,
		Population:   s.population,
		GrowthRate:   s.growthRate,
		MutationRate: s.mutationRate,
	}
}

// Info returns a multi-line description of the species.
func (s *Species) Info() string {
	return fmt.Sprintf("Species Name: %s\nPopulation: %d\nGrowth rate: %v\nMutation rate: %v",
		s.name, s.population, s.growthRate, s.mutationRate)
}

func (s *Species) String() string {
	return s.name
}

// SpeciesRow is one line of the tabular ecosystem snapshot.
type SpeciesRow struct {
	Name         string  `csv:"name"`
	Population   int64   `csv:"population"`
	GrowthRate   float64 `csv:"growth_rate"`
	MutationRate float64 `csv:"mutation_rate"`
}
