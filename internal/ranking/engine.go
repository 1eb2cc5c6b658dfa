package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Engine computes a ranking table from a batch of raw metric records. It is
// a pure function of its input plus configuration: no state survives a run,
// so an Engine is safely re-entrant and re-runnable.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// NewEngine validates the configuration and creates an engine for it.
func NewEngine(cfg Config, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, logger: logger}, nil
}

// Config returns the engine's immutable configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run executes the full pipeline over an immutable input snapshot: window
// extraction, sub-metric calculation, percentile normalization, composite
// scoring, categorization and rank assignment. Configuration errors fail
// before any scoring begins; empty input yields an empty table, not an
// error. Either a slice is complete or it is absent: no partial ranking is
// ever returned.
func (e *Engine) Run(ctx context.Context, records []MetricRecord) (*RankingTable, error) {
	start := time.Now()

	table := &RankingTable{
		Domain:     e.cfg.Domain,
		RunID:      uuid.New().String(),
		RunAt:      start.UTC(),
		WindowDays: e.cfg.WindowDays,
	}

	e.logger.InfoContext(ctx, "starting ranking run",
		"domain", e.cfg.Domain,
		"run_id", table.RunID,
		"records", len(records),
		"window_days", e.cfg.WindowDays,
	)

	windows := ExtractWindows(records, e.cfg.WindowDays)
	if len(windows) == 0 {
		e.logger.WarnContext(ctx, "no usable records, returning empty ranking",
			"domain", e.cfg.Domain,
		)
		return table, nil
	}

	byArea := make(map[string][]Window)
	for _, w := range windows {
		byArea[w.AreaID] = append(byArea[w.AreaID], w)
	}
	areas := sortedAreas(byArea)

	// Direction totality is checked up front so a misconfigured area fails
	// the run before any scoring begins.
	directions := make(map[string]Direction, len(areas))
	for _, area := range areas {
		dir, err := e.cfg.Direction(area)
		if err != nil {
			return nil, fmt.Errorf("direction registry: %w", err)
		}
		directions[area] = dir
	}

	// Sub-metric computation and normalization are independent per area, so
	// areas fan out in parallel and fan back in before composite scoring.
	areaSubs := make([][]SubMetricValue, len(areas))
	g, gctx := errgroup.WithContext(ctx)
	for i, area := range areas {
		i, area := i, area
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			areaSubs[i] = e.computeArea(gctx, area, byArea[area], directions[area])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute area slices: %w", err)
	}

	for _, subs := range areaSubs {
		table.SubMetrics = append(table.SubMetrics, subs...)
	}

	table.Entries = e.composeEntries(windows, table.SubMetrics)
	AssignPositions(table.Entries)

	e.logger.InfoContext(ctx, "ranking run completed",
		"domain", e.cfg.Domain,
		"run_id", table.RunID,
		"entities", len(table.Entries),
		"sub_metrics", len(table.SubMetrics),
		"duration", time.Since(start),
	)

	return table, nil
}

// computeArea calculates the three sub-metric slices of one area and
// normalizes each against its own population. Entities missing the window
// depth for a sub-metric are excluded from that slice, never imputed.
func (e *Engine) computeArea(ctx context.Context, areaID string, windows []Window, dir Direction) []SubMetricValue {
	var subs []SubMetricValue

	for _, kind := range MetricKinds {
		slice := make([]SubMetricValue, 0, len(windows))
		for _, w := range windows {
			raw, scaled, ok := e.subMetric(kind, w)
			if !ok {
				continue
			}
			slice = append(slice, SubMetricValue{
				EntityID:     w.EntityID,
				AreaID:       areaID,
				Kind:         kind,
				RawValue:     raw,
				ScaledValue:  scaled,
				WindowValues: w.Values(),
			})
		}

		if len(slice) == 0 {
			e.logger.InfoContext(ctx, "empty population for slice",
				"domain", e.cfg.Domain,
				"area_id", areaID,
				"metric_kind", kind,
			)
			continue
		}

		// Normalization runs on the scaled magnitude so the whole
		// population sees the same constant; relative order matches the
		// raw values.
		population := make([]float64, len(slice))
		for i, sv := range slice {
			population[i] = sv.ScaledValue
		}
		for i := range slice {
			slice[i].Score = NormalizedScore(slice[i].ScaledValue, population, dir)
		}
		assignSlicePositions(slice)
		subs = append(subs, slice...)
	}

	return subs
}

// subMetric computes one window statistic. The boolean is false when the
// statistic is undefined for the window (rate-of-change without a single
// consecutive-day pair).
func (e *Engine) subMetric(kind MetricKind, w Window) (raw, scaled float64, ok bool) {
	switch kind {
	case KindFill:
		raw = Fill(w)
		return raw, raw, true
	case KindInstability:
		scaled = Instability(w, e.cfg.InstabilityScale)
		return scaled / e.cfg.InstabilityScale, scaled, true
	case KindRateOfChange:
		scaled, ok = RateOfChange(w, e.cfg.RateScale)
		if !ok {
			return 0, 0, false
		}
		return scaled / e.cfg.RateScale, scaled, true
	default:
		return 0, 0, false
	}
}

// entityAreaScores groups normalized sub-metric scores per entity and area.
type entityAreaScores map[string]map[string]map[MetricKind]SubMetricValue

// composeEntries combines the normalized sub-metrics into one final score
// per entity. Weights renormalize over what an entity actually has: a
// missing measurement is never conflated with a poor one. Entities with no
// scorable area are excluded entirely.
func (e *Engine) composeEntries(windows []Window, subs []SubMetricValue) []RankingEntry {
	perEntity := make(entityAreaScores)
	for _, sv := range subs {
		areas, ok := perEntity[sv.EntityID]
		if !ok {
			areas = make(map[string]map[MetricKind]SubMetricValue)
			perEntity[sv.EntityID] = areas
		}
		kinds, ok := areas[sv.AreaID]
		if !ok {
			kinds = make(map[MetricKind]SubMetricValue)
			areas[sv.AreaID] = kinds
		}
		kinds[sv.Kind] = sv
	}

	recordCounts := make(map[string]int)
	for _, w := range windows {
		recordCounts[w.EntityID] += w.Len()
	}

	entries := make([]RankingEntry, 0, len(perEntity))
	for _, entityID := range sortedAreas(perEntity) {
		entry, ok := e.composeEntity(entityID, perEntity[entityID])
		if !ok {
			continue
		}
		entry.Records = recordCounts[entityID]
		entries = append(entries, entry)
	}
	return entries
}

// composeEntity builds one RankingEntry: per-area weighted score over the
// available sub-metrics, then the weighted mean across contributing areas.
func (e *Engine) composeEntity(entityID string, areas map[string]map[MetricKind]SubMetricValue) (RankingEntry, bool) {
	var (
		areaScores []AreaScore
		insights   []areaInsight
	)

	for _, areaID := range sortedAreas(areas) {
		kinds := areas[areaID]
		weightSum := 0.0
		weighted := 0.0
		var used []MetricKind
		for _, kind := range MetricKinds {
			sv, ok := kinds[kind]
			if !ok {
				continue
			}
			insights = append(insights, areaInsight{
				areaID:   areaID,
				areaName: e.cfg.AreaName(areaID),
				kind:     kind,
				raw:      sv.ScaledValue,
				score:    sv.Score,
			})
			w := e.cfg.SubMetricWeights[kind]
			if w <= 0 {
				continue
			}
			weighted += w * sv.Score
			weightSum += w
			used = append(used, kind)
		}
		if weightSum <= 0 {
			continue
		}
		areaScores = append(areaScores, AreaScore{
			AreaID: areaID,
			Score:  weighted / weightSum,
			Kinds:  used,
		})
	}

	if len(areaScores) == 0 {
		return RankingEntry{}, false
	}

	finalScore := 0.0
	weightSum := 0.0
	contributing := make([]string, 0, len(areaScores))
	for _, as := range areaScores {
		w := e.cfg.areaWeight(as.AreaID)
		if w <= 0 {
			continue
		}
		finalScore += w * as.Score
		weightSum += w
		contributing = append(contributing, as.AreaID)
	}
	if weightSum <= 0 {
		return RankingEntry{}, false
	}
	finalScore /= weightSum
	sort.Strings(contributing)

	return RankingEntry{
		EntityID:          entityID,
		FinalScore:        finalScore,
		Category:          Categorize(finalScore, e.cfg.Bands),
		Explanation:       buildExplanation(insights),
		Recommendation:    buildRecommendation(insights),
		ContributingAreas: contributing,
		AreaScores:        areaScores,
	}, true
}
