package usecase

import (
	"context"
	"errors"
	"fmt"

	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/shared/logger"
)

// SeedTarget copies one resource's statics into storage.
type SeedTarget struct {
	Name string
	Seed func(ctx context.Context) (int, error)
}

// NewSeedTarget seeds uc with statics when its collection is empty.
func NewSeedTarget[T model.Entity](uc *ResourceUsecase[T], statics []T) SeedTarget {
	return SeedTarget{
		Name: uc.Resource().Name,
		Seed: func(ctx context.Context) (int, error) {
			return uc.SeedIfEmpty(ctx, statics)
		},
	}
}

// SeedUsecase fills empty collections with the bundled content.
type SeedUsecase struct {
	targets []SeedTarget
	logger  logger.Logger
}

// NewSeedUsecase creates a SeedUsecase.
func NewSeedUsecase(log logger.Logger, targets ...SeedTarget) *SeedUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &SeedUsecase{targets: targets, logger: log.WithComponent("seed")}
}

// Seed runs every target and reports how many documents each inserted.
// Collections that already hold data are left untouched. A failing target
// does not stop the others.
func (uc *SeedUsecase) Seed(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(uc.targets))
	var errs []error
	for _, target := range uc.targets {
		n, err := target.Seed(ctx)
		counts[target.Name] = n
		if err != nil {
			errs = append(errs, fmt.Errorf("seed %s: %w", target.Name, err))
			continue
		}
		if n > 0 {
			uc.logger.Infof("Seeded %d %s", n, target.Name)
		}
	}
	return counts, errors.Join(errs...)
}
