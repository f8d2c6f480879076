package scoring

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"cryptoradar/internal/analysis"
)

// AssetAnalyzer produces one Analysis per asset. Satisfied by *Analyzer.
type AssetAnalyzer interface {
	Analyze(ctx context.Context, assetID string) (*analysis.Analysis, error)
}

// BatchPolicy controls how a universe of assets is processed: assets are
// analyzed in batches of Size with Concurrency workers per batch and a Delay
// pause between batches to respect provider rate limits.
type BatchPolicy struct {
	Size        int
	Delay       time.Duration
	Concurrency int
}

// DefaultBatchPolicy returns the standard batch policy.
func DefaultBatchPolicy() BatchPolicy {
	return BatchPolicy{
		Size:        10,
		Delay:       2 * time.Second,
		Concurrency: 4,
	}
}

// Ranker analyzes a universe of assets and returns the top movers.
type Ranker struct {
	analyzer AssetAnalyzer
	policy   BatchPolicy
	topN     int
	logger   zerolog.Logger
}

// NewRanker creates a ranker returning the top topN assets.
func NewRanker(analyzer AssetAnalyzer, policy BatchPolicy, topN int, logger zerolog.Logger) *Ranker {
	if policy.Size <= 0 {
		policy.Size = 10
	}
	if policy.Concurrency <= 0 {
		policy.Concurrency = 1
	}
	return &Ranker{
		analyzer: analyzer,
		policy:   policy,
		topN:     topN,
		logger:   logger,
	}
}

// Rank analyzes every asset and returns the topN ranked by the absolute
// predicted change, largest expected move first, with technical score and
// overall score breaking ties. Assets whose analysis fails are logged and
// excluded; they never appear as defaults in the output.
func (r *Ranker) Rank(ctx context.Context, assetIDs []string) ([]*analysis.Analysis, error) {
	var results []*analysis.Analysis

	for start := 0; start < len(assetIDs); start += r.policy.Size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + r.policy.Size
		if end > len(assetIDs) {
			end = len(assetIDs)
		}

		batchStart := time.Now()
		batch := r.analyzeBatch(ctx, assetIDs[start:end])
		results = append(results, batch...)

		r.logger.Info().
			Int("batch_size", end-start).
			Int("succeeded", len(batch)).
			Int("failed", end-start-len(batch)).
			Dur("elapsed", time.Since(batchStart)).
			Msg("batch complete")

		// Enough candidates collected for a stable top-N cut
		if r.topN > 0 && len(results) >= r.topN*3 {
			break
		}

		if end < len(assetIDs) && r.policy.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.policy.Delay):
			}
		}
	}

	SortAnalyses(results)

	if r.topN > 0 && len(results) > r.topN {
		results = results[:r.topN]
	}

	return results, nil
}

// analyzeBatch fans the batch out over the configured number of workers.
func (r *Ranker) analyzeBatch(ctx context.Context, assetIDs []string) []*analysis.Analysis {
	jobs := make(chan string)
	out := make(chan *analysis.Analysis, len(assetIDs))

	var wg sync.WaitGroup
	for w := 0; w < r.policy.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for assetID := range jobs {
				result, err := r.analyzer.Analyze(ctx, assetID)
				if err != nil {
					r.logger.Warn().
						Str("asset", assetID).
						Err(err).
						Msg("analysis failed, excluding asset")
					continue
				}
				out <- result
			}
		}()
	}

	for _, id := range assetIDs {
		jobs <- id
	}
	close(jobs)
	wg.Wait()
	close(out)

	results := make([]*analysis.Analysis, 0, len(assetIDs))
	for result := range out {
		results = append(results, result)
	}

	return results
}

// SortAnalyses orders analyses by absolute predicted change descending,
// breaking ties by technical score then overall score.
func SortAnalyses(results []*analysis.Analysis) {
	sort.SliceStable(results, func(i, j int) bool {
		ai, aj := abs(results[i].PredictedChange), abs(results[j].PredictedChange)
		if ai != aj {
			return ai > aj
		}
		if results[i].TechnicalScore != results[j].TechnicalScore {
			return results[i].TechnicalScore > results[j].TechnicalScore
		}
		return results[i].OverallScore > results[j].OverallScore
	})
}
