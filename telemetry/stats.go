package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecosim/ecology"
)

// GenerationStats holds aggregated statistics for one simulated generation.
type GenerationStats struct {
	RunID      string `csv:"run_id"`
	Generation int    `csv:"generation"`
	Food       string `csv:"food"`

	// Population totals around reproduction
	PopulationBefore int64 `csv:"population_before"`
	PopulationAfter  int64 `csv:"population_after"`

	// Resource pool
	ResourcesAdded int64   `csv:"resources_added"`
	Resources      int64   `csv:"resources"`
	EcoGrowthRate  float64 `csv:"eco_growth_rate"`

	SpeciesCount int `csv:"species_count"`
	Mutations    int `csv:"mutations"`

	// Growth rate distribution after mutation
	GrowthMean float64 `csv:"growth_mean"`
	GrowthStd  float64 `csv:"growth_std"`
	GrowthMin  float64 `csv:"growth_min"`
	GrowthMax  float64 `csv:"growth_max"`

	PopulationMedian float64 `csv:"population_median"`
}

// SpeciesRecord is one species' state at the end of a generation.
type SpeciesRecord struct {
	RunID        string  `csv:"run_id"`
	Generation   int     `csv:"generation"`
	Name         string  `csv:"name"`
	Population   int64   `csv:"population"`
	GrowthRate   float64 `csv:"growth_rate"`
	MutationRate float64 `csv:"mutation_rate"`
}

// Distribution summarises a sample of values.
type Distribution struct {
	Mean, Std, Min, Max, Median float64
}

// ComputeDistribution returns the population mean, standard deviation, extremes
// and median of values. An empty sample yields the zero Distribution.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	return Distribution{
		Mean:   mean,
		Std:    std,
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
}

// NewGenerationStats flattens a generation report for logging and CSV output.
func NewGenerationStats(runID string, r ecology.GenerationReport) GenerationStats {
	growth := make([]float64, len(r.Species))
	pops := make([]float64, len(r.Species))
	for i, s := range r.Species {
		growth[i] = s.GrowthRate
		pops[i] = float64(s.Population)
	}
	g := ComputeDistribution(growth)
	p := ComputeDistribution(pops)

	return GenerationStats{
		RunID:            runID,
		Generation:       r.Generation,
		Food:             r.Food.String(),
		PopulationBefore: r.PopulationBefore,
		PopulationAfter:  r.PopulationAfter,
		ResourcesAdded:   r.ResourcesAdded,
		Resources:        r.Resources,
		EcoGrowthRate:    r.GrowthRate,
		SpeciesCount:     len(r.Species),
		Mutations:        len(r.Mutations),
		GrowthMean:       g.Mean,
		GrowthStd:        g.Std,
		GrowthMin:        g.Min,
		GrowthMax:        g.Max,
		PopulationMedian: p.Median,
	}
}

// NewSpeciesRecords returns one record per species in the report.
func NewSpeciesRecords(runID string, r ecology.GenerationReport) []SpeciesRecord {
	records := make([]SpeciesRecord, len(r.Species))
	for i, s := range r.Species {
		records[i] = SpeciesRecord{
			RunID:        runID,
			Generation:   r.Generation,
			Name:         s.Name,
			Population:   s.Population,
			GrowthRate:   s.GrowthRate,
			MutationRate: s.MutationRate,
		}
	}
	return records
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int("generation", s.Generation),
		slog.String("food", s.Food),
		slog.Int64("population_before", s.PopulationBefore),
		slog.Int64("population_after", s.PopulationAfter),
		slog.Int64("resources_added", s.ResourcesAdded),
		slog.Int64("resources", s.Resources),
		slog.Int("species", s.SpeciesCount),
		slog.Int("mutations", s.Mutations),
		slog.Float64("growth_mean", s.GrowthMean),
		slog.Float64("growth_std", s.GrowthStd),
		slog.Float64("population_median", s.PopulationMedian),
	)
}
