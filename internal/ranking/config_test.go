package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(DomainHDD)
	assert.Equal(t, DomainHDD, cfg.Domain)
	assert.Equal(t, DefaultWindowDays, cfg.WindowDays)
	assert.InDelta(t, 1.0/3.0, cfg.SubMetricWeights[KindFill], 1e-9)
	assert.Equal(t, float64(DefaultInstabilityScale), cfg.InstabilityScale)
	assert.Equal(t, float64(DefaultRateScale), cfg.RateScale)

	cfg.Directions["uso"] = LowerBetter
	require.NoError(t, cfg.Validate())
}

func TestConfigDirection(t *testing.T) {
	cfg := DefaultConfig(DomainCP)
	cfg.Directions = map[string]Direction{"CPLOAD": LowerBetter, "MAXMEM": HigherBetter}

	dir, err := cfg.Direction("CPLOAD")
	require.NoError(t, err)
	assert.Equal(t, LowerBetter, dir)

	dir, err = cfg.Direction("MAXMEM")
	require.NoError(t, err)
	assert.Equal(t, HigherBetter, dir)

	_, err = cfg.Direction("IOLOAD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IOLOAD")
	assert.Contains(t, err.Error(), "CP")
}

func TestConfigAreaName(t *testing.T) {
	cfg := DefaultConfig(DomainCP)
	cfg.AreaNames = map[string]string{"CPLOAD": "Carga del procesador"}

	assert.Equal(t, "Carga del procesador", cfg.AreaName("CPLOAD"))
	assert.Equal(t, "IOLOAD", cfg.AreaName("IOLOAD"))
}

func TestConfigCategoryNames(t *testing.T) {
	cfg := DefaultConfig(DomainCP)
	assert.Equal(t,
		[]string{"Excelente", "Muy Bueno", "Bueno", "Regular", "Necesita Mejora"},
		cfg.CategoryNames())
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "lower_better", LowerBetter.String())
	assert.Equal(t, "higher_better", HigherBetter.String())
	assert.Equal(t, "unknown", Direction(99).String())
}

func TestConfigAreaWeight(t *testing.T) {
	cfg := DefaultConfig(DomainCP)

	t.Run("equal weights when unset", func(t *testing.T) {
		assert.Equal(t, 1.0, cfg.areaWeight("anything"))
	})

	t.Run("explicit weights, absent areas get zero", func(t *testing.T) {
		cfg.AreaWeights = map[string]float64{"CPLOAD": 0.7}
		assert.Equal(t, 0.7, cfg.areaWeight("CPLOAD"))
		assert.Equal(t, 0.0, cfg.areaWeight("IOLOAD"))
	})
}
