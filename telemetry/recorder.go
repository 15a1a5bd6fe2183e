package telemetry

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/ecology"
)

// Recorder turns generation reports into stats, bookmarks and CSV rows. It
// satisfies simulation.Observer. Each run gets its own run ID, bookmark
// history and timing window.
type Recorder struct {
	cfg    config.TelemetryConfig
	out    *OutputManager
	base   *slog.Logger
	perf   *PerfCollector
	window int

	runID       string
	logger      *slog.Logger
	detector    *BookmarkDetector
	generations int
	bookmarks   []Bookmark
	last        GenerationStats
	err         error
}

// NewRecorder creates a recorder and starts its first run. out may be nil to
// disable CSV output.
func NewRecorder(cfg config.TelemetryConfig, out *OutputManager, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{
		cfg:    cfg,
		out:    out,
		base:   logger,
		perf:   NewPerfCollector(cfg.PerfWindow),
		window: max(cfg.PerfWindow, 1),
	}
	r.begin()
	return r
}

func (r *Recorder) begin() {
	r.runID = uuid.NewString()
	r.logger = r.base.With("run_id", r.runID)
	r.detector = NewBookmarkDetector(r.cfg.BookmarkHistorySize, r.cfg.BoomMultiplier)
	r.perf.Reset()
	r.generations = 0
	r.bookmarks = nil
	r.last = GenerationStats{}
}

// StartRun closes the current run and starts a new one. Nothing carries over
// except the first output error.
func (r *Recorder) StartRun() {
	if r.generations > 0 {
		r.summarize()
	}
	r.begin()
	r.logger.Debug("run started")
}

// ObserveGeneration records one generation.
func (r *Recorder) ObserveGeneration(report ecology.GenerationReport) {
	if report.Skipped {
		return
	}

	r.perf.Begin(report.Elapsed)

	r.perf.Phase(PhaseStats)
	stats := NewGenerationStats(r.runID, report)
	r.last = stats
	r.generations++
	if r.cfg.LogStats {
		r.logger.Info("generation", "stats", stats)
	}

	r.perf.Phase(PhaseBookmarks)
	for _, b := range r.detector.Check(report) {
		b.RunID = r.runID
		b.LogBookmark(r.logger)
		r.bookmarks = append(r.bookmarks, b)
		r.keep(r.out.WriteBookmark(b))
	}

	r.perf.Phase(PhaseOutput)
	r.keep(r.out.WriteGeneration(stats))
	r.keep(r.out.WriteSpecies(NewSpeciesRecords(r.runID, report)))

	r.perf.End()

	if r.generations%r.window == 0 {
		r.keep(r.out.WritePerf(r.Perf().Record(r.runID, report.Generation)))
	}
}

// keep logs err and remembers the first one.
func (r *Recorder) keep(err error) {
	if err == nil {
		return
	}
	r.logger.Warn("telemetry output failed", "error", err)
	if r.err == nil {
		r.err = err
	}
}

// RunID returns the identifier stamped on every record of the current run.
func (r *Recorder) RunID() string { return r.runID }

// Generations returns how many generations the current run recorded.
func (r *Recorder) Generations() int { return r.generations }

// Bookmarks returns the bookmarks the current run triggered.
func (r *Recorder) Bookmarks() []Bookmark { return r.bookmarks }

// Last returns the stats of the most recent generation.
func (r *Recorder) Last() GenerationStats { return r.last }

// Perf returns timing statistics over the current window.
func (r *Recorder) Perf() PerfStats { return r.perf.Stats() }

// Err returns the first output error, if any.
func (r *Recorder) Err() error { return r.err }

// Finish logs the summary of the current run and returns the first output
// error.
func (r *Recorder) Finish() error {
	r.summarize()
	return r.err
}

func (r *Recorder) summarize() {
	r.logger.Info("run finished",
		"generations", r.generations,
		"bookmarks", len(r.bookmarks),
		"perf", r.Perf(),
	)
}
