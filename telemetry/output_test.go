package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/ecosim/config"
)

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// A nil manager accepts every write.
	if err := om.WriteGeneration(GenerationStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteBookmark(Bookmark{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir() = %q", om.Dir())
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	first := NewGenerationStats("run-1", sampleReport())
	second := first
	second.Generation = 2
	for _, s := range []GenerationStats{first, second} {
		if err := om.WriteGeneration(s); err != nil {
			t.Fatalf("WriteGeneration: %v", err)
		}
	}
	if err := om.WriteSpecies(NewSpeciesRecords("run-1", sampleReport())); err != nil {
		t.Fatalf("WriteSpecies: %v", err)
	}
	if err := om.WriteBookmark(Bookmark{RunID: "run-1", Type: BookmarkBoom, Generation: 2, Description: "big, loud"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := ReadGenerations(f)
	if err != nil {
		t.Fatalf("ReadGenerations: %v", err)
	}
	if len(got) != 2 || got[0].Generation != 1 || got[1].Generation != 2 {
		t.Fatalf("generations = %+v", got)
	}
	if got[0].PopulationAfter != 318 || got[0].Food != "plenty" {
		t.Errorf("row 0 = %+v", got[0])
	}

	species, err := os.ReadFile(filepath.Join(dir, "species.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(species)), "\n")
	if len(lines) != 6 {
		t.Errorf("species.csv has %d lines, want header + 5", len(lines))
	}
	if !strings.HasPrefix(lines[0], "run_id,generation,name") {
		t.Errorf("species header = %q", lines[0])
	}

	bookmarks, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(bookmarks), `"big, loud"`) {
		t.Errorf("bookmark description not quoted:\n%s", bookmarks)
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}
