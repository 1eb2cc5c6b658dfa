package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignPositions(t *testing.T) {
	t.Run("orders by score descending", func(t *testing.T) {
		entries := []RankingEntry{
			{EntityID: "EQ02", FinalScore: 40},
			{EntityID: "EQ03", FinalScore: 90},
			{EntityID: "EQ01", FinalScore: 65},
		}
		AssignPositions(entries)

		require.Len(t, entries, 3)
		assert.Equal(t, []string{"EQ03", "EQ01", "EQ02"}, entityOrder(entries))
		for i, e := range entries {
			assert.Equal(t, i+1, e.Position)
		}
	})

	t.Run("ties break by entity id ascending", func(t *testing.T) {
		entries := []RankingEntry{
			{EntityID: "EQ09", FinalScore: 50},
			{EntityID: "EQ01", FinalScore: 50},
			{EntityID: "EQ05", FinalScore: 50},
		}
		AssignPositions(entries)
		assert.Equal(t, []string{"EQ01", "EQ05", "EQ09"}, entityOrder(entries))
	})

	t.Run("positions form a permutation with non-increasing scores", func(t *testing.T) {
		entries := []RankingEntry{
			{EntityID: "A", FinalScore: 12},
			{EntityID: "B", FinalScore: 88},
			{EntityID: "C", FinalScore: 88},
			{EntityID: "D", FinalScore: 3},
			{EntityID: "E", FinalScore: 52},
		}
		AssignPositions(entries)

		seen := make(map[int]bool)
		for i, e := range entries {
			assert.False(t, seen[e.Position], "duplicate position %d", e.Position)
			seen[e.Position] = true
			assert.Equal(t, i+1, e.Position)
			if i > 0 {
				assert.LessOrEqual(t, e.FinalScore, entries[i-1].FinalScore)
			}
		}
		for p := 1; p <= len(entries); p++ {
			assert.True(t, seen[p], "missing position %d", p)
		}
	})
}

func TestAssignSlicePositions(t *testing.T) {
	subs := []SubMetricValue{
		{EntityID: "EQ02", AreaID: "CPLOAD", Kind: KindFill, Score: 25},
		{EntityID: "EQ01", AreaID: "CPLOAD", Kind: KindFill, Score: 100},
		{EntityID: "EQ03", AreaID: "CPLOAD", Kind: KindFill, Score: 25},
	}
	assignSlicePositions(subs)

	assert.Equal(t, "EQ01", subs[0].EntityID)
	assert.Equal(t, 1, subs[0].Position)
	// Tied scores order by entity id.
	assert.Equal(t, "EQ02", subs[1].EntityID)
	assert.Equal(t, "EQ03", subs[2].EntityID)
	assert.Equal(t, 3, subs[2].Position)
}

func entityOrder(entries []RankingEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.EntityID
	}
	return ids
}
