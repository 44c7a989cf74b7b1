package aggregator

import (
	"context"
	"errors"
	"fmt"

	"newshub/internal/core"
	"newshub/internal/repo"
	"newshub/pkg/logger"

	"go.uber.org/zap"
)

var ErrUnknownProvider = errors.New("unknown provider")

// Deps wires the aggregator's collaborators explicitly: the provider set
// is a fixed list handed in at construction, not looked up at runtime.
type Deps struct {
	Articles  *repo.ArticleRepo
	Sources   *repo.SourceRepo
	Providers []core.Provider
}

// Aggregator orchestrates fetch-and-store across providers. Providers run
// sequentially and independently; one provider's failure never stops the
// others.
type Aggregator struct {
	articles  *repo.ArticleRepo
	sources   *repo.SourceRepo
	providers []core.Provider
}

func New(deps Deps) *Aggregator {
	return &Aggregator{
		articles:  deps.Articles,
		sources:   deps.Sources,
		providers: deps.Providers,
	}
}

// AggregateAll runs every registered provider and reports one outcome per
// provider name. Hard failures (missing source registration, persistence
// errors) become failing outcomes here instead of aborting the run.
func (a *Aggregator) AggregateAll(ctx context.Context, filters core.Filters) map[string]core.Outcome {
	results := make(map[string]core.Outcome, len(a.providers))

	for _, provider := range a.providers {
		name := provider.Name()

		outcome, err := a.AggregateFrom(ctx, provider, filters)
		if err != nil {
			results[name] = core.Outcome{Success: false, Error: err.Error()}
			logger.Error("aggregation failed",
				zap.String("provider", name),
				zap.Error(err),
			)
			continue
		}

		results[name] = outcome
		logger.Info("aggregation complete",
			zap.String("provider", name),
			zap.Int("fetched", outcome.Fetched),
			zap.Int("stored", outcome.Stored),
		)
	}

	return results
}

// AggregateFrom runs one provider. A missing source registration is a
// deployment defect and propagates; an inactive source short-circuits to
// a zero-count success without any network call.
func (a *Aggregator) AggregateFrom(ctx context.Context, provider core.Provider, filters core.Filters) (core.Outcome, error) {
	name := provider.Name()

	source, err := a.sources.FindByAPIName(ctx, name)
	if err != nil {
		return core.Outcome{}, err
	}

	if !source.IsActive {
		return core.Outcome{Success: true, Message: "source is inactive"}, nil
	}

	records := provider.Fetch(ctx, filters)
	fetched := len(records)

	stored, err := a.articles.UpsertMany(ctx, a.stampSource(records, source.ID, name))
	if err != nil {
		return core.Outcome{}, fmt.Errorf("store articles for %s: %w", name, err)
	}

	return core.Outcome{Success: true, Fetched: fetched, Stored: stored}, nil
}

// AggregateByName selects a single registered provider. Asking for a name
// that was never registered is a caller error and propagates.
func (a *Aggregator) AggregateByName(ctx context.Context, name string, filters core.Filters) (core.Outcome, error) {
	for _, provider := range a.providers {
		if provider.Name() == name {
			return a.AggregateFrom(ctx, provider, filters)
		}
	}
	return core.Outcome{}, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
}

// ProviderNames lists the registered provider keys in order.
func (a *Aggregator) ProviderNames() []string {
	names := make([]string, 0, len(a.providers))
	for _, provider := range a.providers {
		names = append(names, provider.Name())
	}
	return names
}

// stampSource associates each mapped record with its resolved source and
// drops records that still fail validation — logged, never fatal to the
// batch.
func (a *Aggregator) stampSource(records []core.ArticleRecord, sourceID uint64, provider string) []core.ArticleRecord {
	valid := make([]core.ArticleRecord, 0, len(records))
	for _, rec := range records {
		rec.SourceID = sourceID
		if err := rec.Validate(); err != nil {
			logger.Warn("dropping unmappable record",
				zap.String("provider", provider),
				zap.String("external_id", rec.ExternalID),
				zap.Error(err),
			)
			continue
		}
		valid = append(valid, rec)
	}
	return valid
}
