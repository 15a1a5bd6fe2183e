package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phases of one recorded generation. PhaseGeneration is the simulation step
// itself, measured by the driver; the rest are the recorder's own work.
const (
	PhaseGeneration = "generation"
	PhaseStats      = "stats"
	PhaseBookmarks  = "bookmarks"
	PhaseOutput     = "output"
)

var phaseOrder = []string{PhaseGeneration, PhaseStats, PhaseBookmarks, PhaseOutput}

const defaultPerfWindow = 32

// PerfSample is the timing of one generation.
type PerfSample struct {
	Total  time.Duration
	Phases map[string]time.Duration
}

// PerfCollector keeps generation timings over a rolling window.
type PerfCollector struct {
	window []PerfSample
	next   int
	filled int

	current    PerfSample
	phase      string
	phaseStart time.Time
	now        func() time.Time
}

// NewPerfCollector averages over the last windowSize generations.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = defaultPerfWindow
	}
	return &PerfCollector{
		window: make([]PerfSample, windowSize),
		now:    time.Now,
	}
}

// Begin opens a sample for a generation that took elapsed to simulate.
func (p *PerfCollector) Begin(elapsed time.Duration) {
	p.current = PerfSample{Phases: make(map[string]time.Duration, len(phaseOrder))}
	p.phase = ""
	if elapsed > 0 {
		p.current.Phases[PhaseGeneration] = elapsed
	}
}

// Phase ends the running phase, if any, and starts timing name.
func (p *PerfCollector) Phase(name string) {
	p.closePhase()
	p.phase = name
}

func (p *PerfCollector) closePhase() {
	now := p.now()
	if p.phase != "" {
		p.current.Phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
}

// End closes the sample and adds it to the window.
func (p *PerfCollector) End() {
	p.closePhase()
	p.phase = ""
	for _, d := range p.current.Phases {
		p.current.Total += d
	}
	p.window[p.next] = p.current
	p.next = (p.next + 1) % len(p.window)
	p.filled = min(p.filled+1, len(p.window))
}

// Reset drops every sample.
func (p *PerfCollector) Reset() {
	clear(p.window)
	p.next, p.filled = 0, 0
	p.phase = ""
}

// PerfStats summarises the window.
type PerfStats struct {
	Samples int

	Mean time.Duration // per generation, all phases
	Min  time.Duration
	Max  time.Duration

	PhaseMean  map[string]time.Duration
	PhaseShare map[string]float64 // percent of Mean

	GenerationsPerSec float64
}

// Stats computes the window summary.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		Samples:    p.filled,
		PhaseMean:  make(map[string]time.Duration),
		PhaseShare: make(map[string]float64),
	}
	if p.filled == 0 {
		return s
	}

	totals := make([]float64, p.filled)
	phaseSums := make(map[string]float64)
	for i, sample := range p.window[:p.filled] {
		totals[i] = float64(sample.Total)
		for phase, d := range sample.Phases {
			phaseSums[phase] += float64(d)
		}
	}

	mean := stat.Mean(totals, nil)
	s.Mean = time.Duration(mean)
	s.Min = time.Duration(floats.Min(totals))
	s.Max = time.Duration(floats.Max(totals))
	for phase, sum := range phaseSums {
		avg := sum / float64(p.filled)
		s.PhaseMean[phase] = time.Duration(avg)
		if mean > 0 {
			s.PhaseShare[phase] = avg / mean * 100
		}
	}
	if mean > 0 {
		s.GenerationsPerSec = float64(time.Second) / mean
	}
	return s
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("samples", s.Samples),
		slog.Int64("mean_us", s.Mean.Microseconds()),
		slog.Int64("max_us", s.Max.Microseconds()),
		slog.Float64("generations_per_sec", s.GenerationsPerSec),
	}
	for _, phase := range phaseOrder {
		if share, ok := s.PhaseShare[phase]; ok && share > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", share))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfRecord is one row of perf.csv.
type PerfRecord struct {
	RunID             string  `csv:"run_id"`
	Generation        int     `csv:"generation"`
	Samples           int     `csv:"samples"`
	MeanUS            int64   `csv:"mean_us"`
	MinUS             int64   `csv:"min_us"`
	MaxUS             int64   `csv:"max_us"`
	GenerationsPerSec float64 `csv:"generations_per_sec"`
	GenerationPct     float64 `csv:"generation_pct"`
	StatsPct          float64 `csv:"stats_pct"`
	BookmarksPct      float64 `csv:"bookmarks_pct"`
	OutputPct         float64 `csv:"output_pct"`
}

// Record flattens s for perf.csv.
func (s PerfStats) Record(runID string, generation int) PerfRecord {
	return PerfRecord{
		RunID:             runID,
		Generation:        generation,
		Samples:           s.Samples,
		MeanUS:            s.Mean.Microseconds(),
		MinUS:             s.Min.Microseconds(),
		MaxUS:             s.Max.Microseconds(),
		GenerationsPerSec: s.GenerationsPerSec,
		GenerationPct:     s.PhaseShare[PhaseGeneration],
		StatsPct:          s.PhaseShare[PhaseStats],
		BookmarksPct:      s.PhaseShare[PhaseBookmarks],
		OutputPct:         s.PhaseShare[PhaseOutput],
	}
}
