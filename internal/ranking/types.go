package ranking

import (
	"math"
	"time"
)

// Domain identifies an independent metric domain. Rankings are always
// produced per domain; entities from different domains are never mixed.
type Domain string

const (
	// DomainCP covers processing equipment telemetry areas.
	DomainCP Domain = "CP"
	// DomainHDD covers disk unit usage telemetry.
	DomainHDD Domain = "HDD"
)

// Direction is the polarity of a telemetry area: whether lower or higher
// raw values are favorable.
type Direction int

const (
	// LowerBetter means smaller raw values rank higher.
	LowerBetter Direction = iota
	// HigherBetter means larger raw values rank higher.
	HigherBetter
)

// String returns the string representation of the direction
func (d Direction) String() string {
	switch d {
	case LowerBetter:
		return "lower_better"
	case HigherBetter:
		return "higher_better"
	default:
		return "unknown"
	}
}

// MetricKind identifies one of the three window statistics computed per
// (entity, area).
type MetricKind string

const (
	// KindFill is the mean of the observation window ("llenado").
	KindFill MetricKind = "fill"
	// KindInstability is the scaled standard deviation of the window
	// ("inestabilidad").
	KindInstability MetricKind = "instability"
	// KindRateOfChange is the scaled standard deviation of day-over-day
	// differences ("tasa_cambio").
	KindRateOfChange MetricKind = "rate_of_change"
)

// MetricKinds lists all sub-metric kinds in computation order.
var MetricKinds = []MetricKind{KindFill, KindInstability, KindRateOfChange}

// MetricRecord is a single raw daily observation for one (entity, area).
// Identity is (EntityID, AreaID, Date); records are immutable once ingested.
type MetricRecord struct {
	EntityID string    `json:"entity_id"`
	AreaID   string    `json:"area_id"`
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
}

// IsValid checks if the record carries a usable observation
func (r MetricRecord) IsValid() bool {
	return r.EntityID != "" && r.AreaID != "" && !r.Date.IsZero() &&
		!math.IsNaN(r.Value) && !math.IsInf(r.Value, 0)
}

// Window holds the most recent daily records for one (entity, area),
// sorted by date ascending, one record per date, never empty.
type Window struct {
	EntityID string         `json:"entity_id"`
	AreaID   string         `json:"area_id"`
	Records  []MetricRecord `json:"records"`
}

// Len returns the number of observations in the window.
func (w Window) Len() int {
	return len(w.Records)
}

// Values returns the raw observation values in date order.
func (w Window) Values() []float64 {
	values := make([]float64, len(w.Records))
	for i, rec := range w.Records {
		values[i] = rec.Value
	}
	return values
}

// SubMetricValue is one normalized window statistic for an (entity, area)
// pair. RawValue keeps the unscaled magnitude, ScaledValue the magnitude
// after the configured presentation scale factor; downstream consumers get
// both. Score is the direction-adjusted population percentile, so a higher
// score is always more favorable.
type SubMetricValue struct {
	EntityID     string     `json:"entity_id"`
	AreaID       string     `json:"area_id"`
	Kind         MetricKind `json:"metric_kind"`
	RawValue     float64    `json:"raw_value"`
	ScaledValue  float64    `json:"scaled_value"`
	Score        float64    `json:"score"`
	Position     int        `json:"position"`
	WindowValues []float64  `json:"window_values"`
}

// AreaScore is the weighted combination of the sub-metric scores an entity
// produced in one area. Kinds records which sub-metrics actually
// contributed after renormalization.
type AreaScore struct {
	AreaID string       `json:"area_id"`
	Score  float64      `json:"score"`
	Kinds  []MetricKind `json:"metric_kinds"`
}

// RankingEntry is one entity's final row in a ranking table.
type RankingEntry struct {
	Position          int         `json:"position"`
	EntityID          string      `json:"entity_id"`
	FinalScore        float64     `json:"final_score"`
	Category          string      `json:"category"`
	Explanation       string      `json:"explanation"`
	Recommendation    string      `json:"recommendation"`
	ContributingAreas []string    `json:"contributing_areas"`
	AreaScores        []AreaScore `json:"area_scores"`
	Records           int         `json:"records"`
}

// RankingTable is the complete result of one engine run.
type RankingTable struct {
	Domain     Domain           `json:"domain"`
	RunID      string           `json:"run_id"`
	RunAt      time.Time        `json:"run_at"`
	WindowDays int              `json:"window_days"`
	Entries    []RankingEntry   `json:"entries"`
	SubMetrics []SubMetricValue `json:"sub_metrics"`
}

// ScoreStats holds aggregate statistics over the final scores of a ranking.
type ScoreStats struct {
	Count int     `json:"count"`
	Max   float64 `json:"max"`
	Min   float64 `json:"min"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
}

/// Summary condenses a ranking table for reporting: aggregate score
// statistics plus the per-category entity counts.
type Summary struct {
	Domain     Domain         `json:"domain"`
	Stats      ScoreStats     `json:"stats"`
	Categories map[string]int `json:"categories"`
}

// Summarize computes the run summary for the table.
func (t *RankingTable) Summarize() Summary {
	s := Summary{
		Domain:     t.Domain,
		Stats:      computeScoreStats(t.Entries),
		Categories: make(map[string]int, 8),
	}
	for _, e := range t.Entries {
		s.Categories[e.Category]++
	}
	return s
}

// StatDelta is one row of the statistical comparison between two rankings.
type StatDelta struct {
	Metric string  `json:"metric"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Delta  float64 `json:"delta"`
}

/// CategoryCount is one row of the category distribution matrix: how many
// entities of each ranking fall in the category, plus their sum.
type CategoryCount struct {
	Category string `json:"category"`
	Left     int    `json:"left"`
	Right    int    `json:"right"`
	Total    int    `json:"total"`
}

// ComparisonResult is the purely distributional comparison between two
// independently produced rankings. Entities are never aligned across the
// two sides.
type ComparisonResult struct {
	LeftDomain  Domain          `json:"left_domain"`
	RightDomain Domain          `json:"right_domain"`
	Left        ScoreStats      `json:"left"`
	Right       ScoreStats      `json:"right"`
	Stats       []StatDelta     `json:"stats"`
	Categories  []CategoryCount `json:"categories"`
}
