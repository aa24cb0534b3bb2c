package usecase

import (
	"context"
	"sync"

	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/shared/logger"
)

// SiteSection is one collection of the site snapshot.
type SiteSection struct {
	Name   string
	Static []interface{}
	Fetch  func(ctx context.Context) ([]interface{}, error)
}

// NewSiteSection builds a section that lists uc and puts statics ahead of
// the stored documents.
func NewSiteSection[T model.Entity](uc *ResourceUsecase[T], statics []T) SiteSection {
	static := make([]interface{}, 0, len(statics))
	for _, s := range statics {
		static = append(static, s)
	}
	return SiteSection{
		Name:   uc.Resource().Name,
		Static: static,
		Fetch: func(ctx context.Context) ([]interface{}, error) {
			items, err := uc.List(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]interface{}, 0, len(items))
			for _, item := range items {
				out = append(out, item)
			}
			return out, nil
		},
	}
}

// SiteSnapshot is every public collection merged with its fallback content.
type SiteSnapshot struct {
	Collections map[string][]interface{} `json:"collections"`
	// Degraded names the collections that could not be read and were served
	// from static content only.
	Degraded []string `json:"degraded"`
}

// SiteUsecase assembles the data a page load needs in one response.
type SiteUsecase struct {
	sections []SiteSection
	logger   logger.Logger
}

// NewSiteUsecase creates a SiteUsecase over the given sections.
func NewSiteUsecase(log logger.Logger, sections ...SiteSection) *SiteUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &SiteUsecase{sections: sections, logger: log.WithComponent("site")}
}

// Snapshot fetches every section concurrently. A section whose fetch fails
// falls back to its statics; the snapshot as a whole never fails. Statics are
// left out of a section once seeding has stored them.
func (uc *SiteUsecase) Snapshot(ctx context.Context) *SiteSnapshot {
	type result struct {
		stored []interface{}
		err    error
	}
	results := make([]result, len(uc.sections))

	var wg sync.WaitGroup
	for i, section := range uc.sections {
		wg.Add(1)
		go func(i int, section SiteSection) {
			defer wg.Done()
			stored, err := section.Fetch(ctx)
			results[i] = result{stored: stored, err: err}
		}(i, section)
	}
	wg.Wait()

	snapshot := &SiteSnapshot{
		Collections: make(map[string][]interface{}, len(uc.sections)),
		Degraded:    []string{},
	}
	for i, section := range uc.sections {
		stored, err := results[i].stored, results[i].err
		merged := make([]interface{}, 0, len(section.Static)+len(stored))
		switch {
		case err != nil:
			uc.logger.WithContext(ctx).Warnf("Serving static %s only: %v", section.Name, err)
			snapshot.Degraded = append(snapshot.Degraded, section.Name)
			merged = append(merged, section.Static...)
		case hasSeeded(stored):
			// The collection holds its own copy of the statics.
			merged = append(merged, stored...)
		default:
			merged = append(merged, section.Static...)
			merged = append(merged, stored...)
		}
		snapshot.Collections[section.Name] = merged
	}
	return snapshot
}

func hasSeeded(items []interface{}) bool {
	for _, item := range items {
		if e, ok := item.(model.Entity); ok && e.Meta().Seeded {
			return true
		}
	}
	return false
}
