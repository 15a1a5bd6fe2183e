package ecology

import "fmt"

// SpeciesSpec is the immutable description of a catalog species.
type SpeciesSpec struct {
	Name         string
	Population   int64
	GrowthRate   float64
	MutationRate float64
}

// New builds a fresh species from the spec.
func (s SpeciesSpec) New() (*Species, error) {
	return NewSpecies(s.Name, s.Population, s.GrowthRate, s.MutationRate)
}

// Catalog is a read-only registry of starter species. It never hands out shared
// Species values: every call to Instantiate builds new ones.
type Catalog struct {
	specs []SpeciesSpec
}

// NewCatalog validates specs and builds a catalog. Names must be unique.
func NewCatalog(specs []SpeciesSpec) (*Catalog, error) {
	c := &Catalog{specs: make([]SpeciesSpec, 0, len(specs))}
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if _, err := spec.New(); err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", spec.Name, err)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w: duplicate catalog entry %q", ErrInvalidArgument, spec.Name)
		}
		seen[spec.Name] = true
		c.specs = append(c.specs, spec)
	}
	return c, nil
}

var defaultCatalog = mustCatalog([]SpeciesSpec{
	{Name: "Lion", Population: 30, GrowthRate: 1.2, MutationRate: 0.3},
	{Name: "Zebra", Population: 50, GrowthRate: 1.5, MutationRate: 0.1},
	{Name: "Elephant", Population: 15, GrowthRate: 0.8, MutationRate: 0.2},
	{Name: "Wolf", Population: 25, GrowthRate: 1.4, MutationRate: 0.4},
	{Name: "Giraffe", Population: 20, GrowthRate: 1.0, MutationRate: 0.1},
})

func mustCatalog(specs []SpeciesSpec) *Catalog {
	c, err := NewCatalog(specs)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog returns the built-in five starter species.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.specs) }

// Instantiate builds fresh species for every entry, in catalog order.
func (c *Catalog) Instantiate() []*Species {
	out := make([]*Species, 0, len(c.specs))
	for _, spec := range c.specs {
		// Entries were validated in NewCatalog.
		s, _ := spec.New()
		out = append(out, s)
	}
	return out
}
