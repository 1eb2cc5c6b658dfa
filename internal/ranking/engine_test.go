package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(directions map[string]Direction) Config {
	cfg := DefaultConfig(DomainCP)
	cfg.Directions = directions
	return cfg
}

func constantRecords(entityID, areaID string, value float64, days int) []MetricRecord {
	records := make([]MetricRecord, 0, days)
	for d := 1; d <= days; d++ {
		records = append(records, rec(entityID, areaID, d, value))
	}
	return records
}

func TestNewEngineConfigErrors(t *testing.T) {
	valid := testConfig(map[string]Direction{"CPLOAD": LowerBetter})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero window", func(c *Config) { c.WindowDays = 0 }},
		{"empty domain", func(c *Config) { c.Domain = "" }},
		{"negative sub-metric weight", func(c *Config) { c.SubMetricWeights[KindFill] = -1 }},
		{"zero weight total", func(c *Config) {
			c.SubMetricWeights = map[MetricKind]float64{KindFill: 0, KindInstability: 0, KindRateOfChange: 0}
		}},
		{"unknown sub-metric kind", func(c *Config) { c.SubMetricWeights["bogus"] = 1 }},
		{"no bands", func(c *Config) { c.Bands = nil }},
		{"unordered bands", func(c *Config) {
			c.Bands = []CategoryBand{{Name: "a", Min: 40}, {Name: "b", Min: 60}, {Name: "c", Min: 0}}
		}},
		{"duplicate band name", func(c *Config) {
			c.Bands = []CategoryBand{{Name: "a", Min: 50}, {Name: "a", Min: 0}}
		}},
		{"lowest band not zero", func(c *Config) {
			c.Bands = []CategoryBand{{Name: "a", Min: 50}, {Name: "b", Min: 10}}
		}},
		{"zero instability scale", func(c *Config) { c.InstabilityScale = 0 }},
		{"negative rate scale", func(c *Config) { c.RateScale = -1 }},
		{"negative area weight", func(c *Config) { c.AreaWeights = map[string]float64{"CPLOAD": -1} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(map[string]Direction{"CPLOAD": LowerBetter})
			cfg.SubMetricWeights = map[MetricKind]float64{
				KindFill: 1.0 / 3.0, KindInstability: 1.0 / 3.0, KindRateOfChange: 1.0 / 3.0,
			}
			tt.mutate(&cfg)
			_, err := NewEngine(cfg, slog.Default())
			assert.Error(t, err)
		})
	}

	t.Run("valid config", func(t *testing.T) {
		_, err := NewEngine(valid, nil)
		assert.NoError(t, err)
	})
}

func TestEngineRunWorkedExample(t *testing.T) {
	// Entities A..E with constant windows [10,20,30,40,50] in one
	// LOWER_BETTER area: fill scores must be [100,75,50,25,0] and the
	// ranking order A,B,C,D,E.
	cfg := testConfig(map[string]Direction{"CPLOAD": LowerBetter})
	engine, err := NewEngine(cfg, slog.Default())
	require.NoError(t, err)

	var records []MetricRecord
	values := map[string]float64{"A": 10, "B": 20, "C": 30, "D": 40, "E": 50}
	for entity, value := range values {
		records = append(records, constantRecords(entity, "CPLOAD", value, 3)...)
	}

	table, err := engine.Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, table.Entries, 5)

	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, entityOrder(table.Entries))

	fillScores := make(map[string]float64)
	for _, sv := range table.SubMetrics {
		if sv.Kind == KindFill {
			fillScores[sv.EntityID] = sv.Score
		}
	}
	assert.InDelta(t, 100, fillScores["A"], 1e-9)
	assert.InDelta(t, 75, fillScores["B"], 1e-9)
	assert.InDelta(t, 50, fillScores["C"], 1e-9)
	assert.InDelta(t, 25, fillScores["D"], 1e-9)
	assert.InDelta(t, 0, fillScores["E"], 1e-9)

	// Constant windows: instability and rate-of-change populations are
	// uniform, everyone scores 100 on both, so the composite is
	// (fill + 100 + 100) / 3.
	assert.InDelta(t, 100, table.Entries[0].FinalScore, 1e-9)
	assert.InDelta(t, (0+200)/3.0, table.Entries[4].FinalScore, 1e-9)
}

func TestEngineRunPositionsAreAPermutation(t *testing.T) {
	cfg := testConfig(map[string]Direction{
		"CPLOAD": LowerBetter,
		"IOLOAD": LowerBetter,
		"MAXMEM": HigherBetter,
	})
	engine, err := NewEngine(cfg, slog.Default())
	require.NoError(t, err)

	var records []MetricRecord
	for i := 1; i <= 9; i++ {
		entity := fmt.Sprintf("EQ%02d", i)
		for d := 1; d <= 7; d++ {
			records = append(records,
				rec(entity, "CPLOAD", d, float64(i*10+d)),
				rec(entity, "IOLOAD", d, float64(100-i*3)),
			)
		}
		if i%2 == 0 {
			records = append(records, rec(entity, "MAXMEM", 1, float64(i)))
		}
	}

	table, err := engine.Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, table.Entries, 9)

	seen := make(map[int]bool)
	for i, e := range table.Entries {
		assert.Equal(t, i+1, e.Position)
		assert.False(t, seen[e.Position])
		seen[e.Position] = true
		assert.GreaterOrEqual(t, e.FinalScore, 0.0)
		assert.LessOrEqual(t, e.FinalScore, 100.0)
		if i > 0 {
			prev := table.Entries[i-1]
			assert.LessOrEqual(t, e.FinalScore, prev.FinalScore)
			if e.FinalScore == prev.FinalScore {
				assert.Greater(t, e.EntityID, prev.EntityID)
			}
		}
	}

	t.Run("category counts sum to entity count", func(t *testing.T) {
		summary := table.Summarize()
		total := 0
		for _, count := range summary.Categories {
			total += count
		}
		assert.Equal(t, len(table.Entries), total)
	})
}

func TestEngineRunRenormalizesMissingSubMetrics(t *testing.T) {
	// EQ-SINGLE has one lone observation: fill is defined, instability is
	// zero by definition, rate-of-change is absent. It must still be
	// ranked, with weights renormalized over the two available
	// sub-metrics.
	cfg := testConfig(map[string]Direction{"CPLOAD": LowerBetter})
	engine, err := NewEngine(cfg, slog.Default())
	require.NoError(t, err)

	records := append(
		constantRecords("EQ-FULL", "CPLOAD", 30, 5),
		rec("EQ-SINGLE", "CPLOAD", 5, 10),
	)

	table, err := engine.Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, table.Entries, 2)

	var single RankingEntry
	for _, e := range table.Entries {
		if e.EntityID == "EQ-SINGLE" {
			single = e
		}
	}
	require.NotZero(t, single.EntityID, "single-sample entity must be ranked")
	require.Len(t, single.AreaScores, 1)
	assert.Equal(t, []MetricKind{KindFill, KindInstability}, single.AreaScores[0].Kinds)

	// Rate-of-change slice only contains the full-window entity.
	for _, sv := range table.SubMetrics {
		if sv.Kind == KindRateOfChange {
			assert.Equal(t, "EQ-FULL", sv.EntityID)
		}
	}
}

func TestEngineRunUnregisteredDirection(t *testing.T) {
	cfg := testConfig(map[string]Direction{"CPLOAD": LowerBetter})
	engine, err := NewEngine(cfg, slog.Default())
	require.NoError(t, err)

	records := constantRecords("EQ01", "TLCONS", 5, 3)
	_, err = engine.Run(context.Background(), records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TLCONS")
}

func TestEngineRunEmptyInput(t *testing.T) {
	cfg := testConfig(map[string]Direction{"CPLOAD": LowerBetter})
	engine, err := NewEngine(cfg, slog.Default())
	require.NoError(t, err)

	table, err := engine.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, table.Entries)
	assert.Empty(t, table.SubMetrics)
	assert.Equal(t, 0, table.Summarize().Stats.Count)
	assert.NotEmpty(t, table.RunID)
}

func TestEngineRunIdempotent(t *testing.T) {
	cfg := testConfig(map[string]Direction{"CPLOAD": LowerBetter, "IOLOAD": HigherBetter})

	var records []MetricRecord
	for i := 1; i <= 6; i++ {
		entity := fmt.Sprintf("EQ%02d", i)
		for d := 1; d <= 7; d++ {
			records = append(records,
				rec(entity, "CPLOAD", d, float64(i)+float64(d)*0.5),
				rec(entity, "IOLOAD", d, float64(7-i)*float64(d)),
			)
		}
	}

	run := func() *RankingTable {
		engine, err := NewEngine(cfg, slog.Default())
		require.NoError(t, err)
		table, err := engine.Run(context.Background(), records)
		require.NoError(t, err)
		return table
	}

	first := run()
	second := run()

	// Run metadata differ; the ranking content must not.
	assert.Equal(t, first.Entries, second.Entries)
	assert.Equal(t, first.SubMetrics, second.SubMetrics)
}

func TestEngineRunAreaWeights(t *testing.T) {
	cfg := testConfig(map[string]Direction{"CPLOAD": LowerBetter, "IOLOAD": LowerBetter})
	cfg.AreaWeights = map[string]float64{"CPLOAD": 1}

	engine, err := NewEngine(cfg, slog.Default())
	require.NoError(t, err)

	// EQ02 only reports on the zero-weight area and must be excluded
	// entirely, not scored as zero.
	records := append(
		constantRecords("EQ01", "CPLOAD", 10, 3),
		constantRecords("EQ02", "IOLOAD", 10, 3)...,
	)

	table, err := engine.Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, table.Entries, 1)
	assert.Equal(t, "EQ01", table.Entries[0].EntityID)
}
