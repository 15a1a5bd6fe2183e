package ecology

import (
	"errors"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	want := []SpeciesRow{
		{Name: "Lion", Population: 30, GrowthRate: 1.2, MutationRate: 0.3},
		{Name: "Zebra", Population: 50, GrowthRate: 1.5, MutationRate: 0.1},
		{Name: "Elephant", Population: 15, GrowthRate: 0.8, MutationRate: 0.2},
		{Name: "Wolf", Population: 25, GrowthRate: 1.4, MutationRate: 0.4},
		{Name: "Giraffe", Population: 20, GrowthRate: 1.0, MutationRate: 0.1},
	}

	c := DefaultCatalog()
	if c.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", c.Len(), len(want))
	}
	for i, s := range c.Instantiate() {
		if got := s.Row(); got != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got, want[i])
		}
	}
}

func TestCatalogInstantiateIsIndependent(t *testing.T) {
	c := DefaultCatalog()
	a := c.Instantiate()
	b := c.Instantiate()

	a[0].Reproduce(FoodPlenty)

	if b[0].Population() != 30 {
		t.Errorf("second instance population = %d, want 30", b[0].Population())
	}
	if a[0] == b[0] {
		t.Error("Instantiate returned shared species")
	}
}

func TestNewCatalogRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name  string
		specs []SpeciesSpec
	}{
		{"invalid population", []SpeciesSpec{{Name: "Moss", Population: 0, GrowthRate: 1, MutationRate: 0}}},
		{"blank name", []SpeciesSpec{{Name: " ", Population: 1, GrowthRate: 1, MutationRate: 0}}},
		{"duplicate", []SpeciesSpec{
			{Name: "Moss", Population: 1, GrowthRate: 1, MutationRate: 0},
			{Name: "Moss", Population: 2, GrowthRate: 1, MutationRate: 0},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCatalog(tt.specs); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}
