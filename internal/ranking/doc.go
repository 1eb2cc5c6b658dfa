// Package ranking implements the metric normalization and composite ranking
// engine: it turns raw per-entity daily telemetry into percentile-normalized
// sub-metrics, a weighted composite score, a quality category and a
// deterministic rank ordering, separately per metric domain (CP equipment
// areas, HDD disk units), plus the distributional comparison between two
// finished rankings.
//
// The pipeline per run:
//
//	records -> ExtractWindows -> sub-metrics (fill, instability,
//	rate-of-change) -> percentile normalization per (area, kind) ->
//	composite scoring -> categorization -> rank assignment
//
// The engine operates in full-batch mode over a fixed historical window
// (nominally the last seven daily observations). It performs no I/O: record
// acquisition and result persistence are the caller's concern. Sub-metric
// computation and normalization are independent per area and fan out in
// parallel, joining before composite scoring.
//
// Three properties are load-bearing for consumers:
//
//   - Normalized scores are direction-adjusted: a higher score is always
//     more favorable, regardless of the area's polarity.
//   - Missing measurements are never conflated with poor ones: weights
//     renormalize over what an entity actually reported, and entities with
//     no scorable area are excluded rather than scored zero.
//   - Output is reproducible: identical input and configuration produce an
//     identical table, with ties broken by entity id.
package ranking
