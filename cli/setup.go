package cli

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/ecology"
)

// BuildCatalog converts the configured catalog. An empty catalog falls back to
// the built-in one.
func BuildCatalog(cfg *config.Config) (*ecology.Catalog, error) {
	if len(cfg.Catalog) == 0 {
		return ecology.DefaultCatalog(), nil
	}
	specs := make([]ecology.SpeciesSpec, len(cfg.Catalog))
	for i, sc := range cfg.Catalog {
		specs[i] = ecology.SpeciesSpec{
			Name:         sc.Name,
			Population:   sc.Population,
			GrowthRate:   sc.GrowthRate,
			MutationRate: sc.MutationRate,
		}
	}
	cat, err := ecology.NewCatalog(specs)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	return cat, nil
}

// BuildEcosystem creates the startup ecosystem described by cfg.
func BuildEcosystem(cfg *config.Config, rng ecology.Rand, logger *slog.Logger) (*ecology.Ecosystem, error) {
	var species []*ecology.Species
	if cfg.Ecosystem.SeedCatalog {
		cat, err := BuildCatalog(cfg)
		if err != nil {
			return nil, err
		}
		species = cat.Instantiate()
	}

	eco, err := ecology.NewEcosystem(cfg.Ecosystem.Resources, cfg.Ecosystem.GrowthRate, species,
		ecology.WithRand(rng), ecology.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("building ecosystem: %w", err)
	}
	return eco, nil
}
