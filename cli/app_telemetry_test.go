package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pthm-cable/ecosim/ecology"
	"github.com/pthm-cable/ecosim/telemetry"
)

func TestAppSafeSessionsRecordSeparateRuns(t *testing.T) {
	dir := t.TempDir()
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t)
	rec := telemetry.NewRecorder(cfg.Telemetry, om, quietLogger())

	var out bytes.Buffer
	session := "9\n2\n1\n3\n3\n"
	app := NewApp(catalogEcosystem(t), strings.NewReader(session+session+"10\n"), &out, AppOptions{
		Config:   cfg,
		Logger:   quietLogger(),
		Rand:     ecology.NewRand(1),
		Observer: rec,
	})
	if err := app.Run(); err != nil {
		t.Fatalf("Run: %v\n%s", err, out.String())
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := telemetry.ReadGenerations(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(rows))
	}

	runs := make(map[string]int)
	seen := make(map[string]bool)
	for _, row := range rows {
		runs[row.RunID]++
		key := row.RunID + "/" + strconv.Itoa(row.Generation)
		if seen[key] {
			t.Errorf("duplicate generation row %s", key)
		}
		seen[key] = true
	}
	if len(runs) != 2 {
		t.Errorf("run IDs = %v, want one per session", runs)
	}
}

type runCounter struct {
	countingObserver
	runs int
}

func (o *runCounter) StartRun() { o.runs++ }

func TestAppCreateEcosystemStartsRun(t *testing.T) {
	obs := &runCounter{}
	var out bytes.Buffer
	app := NewApp(nil, strings.NewReader("1\n500\n0.1\n10\n"), &out, AppOptions{
		Config:   testConfig(t),
		Logger:   quietLogger(),
		Rand:     ecology.NewRand(1),
		Observer: obs,
	})
	if err := app.Run(); err != nil {
		t.Fatalf("Run: %v\n%s", err, out.String())
	}
	if obs.runs != 1 {
		t.Errorf("StartRun called %d times, want 1", obs.runs)
	}
}
