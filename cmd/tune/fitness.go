package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/ecosim/cli"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/ecology"
	"github.com/pthm-cable/ecosim/simulation"
)

// FitnessEvaluator runs batch simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	seeds       []int64
	baseConfig  *config.Config
	logger      *slog.Logger

	mu           sync.Mutex
	lastSurvival float64
	lastQuality  float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		generations: generations,
		seeds:       seeds,
		baseConfig:  baseCfg,
		logger:      slog.New(slog.DiscardHandler),
	}
}

// Last returns mean survival and quality from the most recent evaluation.
func (fe *FitnessEvaluator) Last() (survival, quality float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSurvival, fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survived int     // generations before collapse, or the horizon
	quality  float64 // share of generations with plenty of food
	err      error
}

// plentyCounter counts generations with plenty of food.
type plentyCounter struct {
	total, plenty int
}

func (c *plentyCounter) ObserveGeneration(r ecology.GenerationReport) {
	if r.Skipped {
		return
	}
	c.total++
	if r.Food == ecology.FoodPlenty {
		c.plenty++
	}
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative mean survived generations with up to a 20% bonus for
// generations spent with plenty of food.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Seeds are independent ecosystems; run them in parallel
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var totalSurvival, totalQuality float64
	for _, r := range results {
		if r.err != nil {
			fe.logger.Warn("evaluation failed", "error", r.err)
			return math.Inf(1)
		}
		totalSurvival += float64(r.survived)
		totalQuality += r.quality
	}
	n := float64(len(fe.seeds))
	survival := totalSurvival / n
	quality := totalQuality / n

	fe.mu.Lock()
	fe.lastSurvival = survival
	fe.lastQuality = quality
	fe.mu.Unlock()

	return computeFitness(survival, quality)
}

func computeFitness(survival, quality float64) float64 {
	return -(survival * (1.0 + 0.2*quality))
}

// runSimulation executes a single batch run for one seed.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	eco, err := cli.BuildEcosystem(cfg, ecology.NewRand(seed), fe.logger)
	if err != nil {
		return runResult{err: err}
	}

	counter := &plentyCounter{}
	res, err := simulation.Simulate(eco, fe.generations, simulation.Options{
		Observer: counter,
		Logger:   fe.logger,
	})
	if err != nil {
		return runResult{err: err}
	}

	var quality float64
	if counter.total > 0 {
		quality = float64(counter.plenty) / float64(counter.total)
	}
	return runResult{survived: res.Generations, quality: quality}
}

// copyConfig creates a copy of the base config that tuning may modify.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Catalog = append([]config.SpeciesConfig(nil), fe.baseConfig.Catalog...)
	return &cfg
}
