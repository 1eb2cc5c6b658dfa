package ranking

import (
	"fmt"
	"sort"
)

// Constants for default values
const (
	// DefaultWindowDays is the nominal observation window (one week of
	// daily records).
	DefaultWindowDays = 7

	// Presentation scale factors. Purely cosmetic: they produce
	// integer-friendly magnitudes for storage and are applied uniformly
	// across a population, so relative order is unaffected.
	DefaultInstabilityScale = 1000
	DefaultRateScale        = 10000
)

// CategoryBand is one quality tier: scores greater than or equal to Min
// (and below the next higher band) map to Name.
type CategoryBand struct {
	Name string  `json:"name" yaml:"name"`
	Min  float64 `json:"min" yaml:"min"`
}

// DefaultBands returns the fixed category vocabulary, highest-first.
func DefaultBands() []CategoryBand {
	return []CategoryBand{
		{Name: "Excelente", Min: 90},
		{Name: "Muy Bueno", Min: 75},
		{Name: "Bueno", Min: 60},
		{Name: "Regular", Min: 40},
		{Name: "Necesita Mejora", Min: 0},
	}
}

// Config is the complete, immutable configuration of one engine run.
// Callers build it once and pass it in; the engine never mutates it and
// holds no state of its own between runs.
type Config struct {
	Domain     Domain `json:"domain"`
	WindowDays int    `json:"window_days"`

	// Directions maps every area that may appear in input data to its
	// polarity. An observed area missing from the map is a configuration
	// error; polarity is never inferred from the data.
	Directions map[string]Direction `json:"directions"`

	// AreaNames maps area identifiers to display names used in
	// explanation text. Missing entries fall back to the identifier.
	AreaNames map[string]string `json:"area_names"`

	// SubMetricWeights weighs the three sub-metrics inside an area score.
	// Missing sub-metrics are renormalized away per entity.
	SubMetricWeights map[MetricKind]float64 `json:"sub_metric_weights"`

	// AreaWeights weighs area scores in the final composite. An empty map
	// means equal weights. Areas absent from a non-empty map get weight 0
	// and never contribute.
	AreaWeights map[string]float64 `json:"area_weights"`

	// Bands is the ordered (highest-first) category vocabulary.
	Bands []CategoryBand `json:"bands"`

	InstabilityScale float64 `json:"instability_scale"`
	RateScale        float64 `json:"rate_scale"`
}

// DefaultConfig returns a configuration with equal weights and the fixed
// category vocabulary. Directions must still be supplied by the caller.
func DefaultConfig(domain Domain) Config {
	return Config{
		Domain:     domain,
		WindowDays: DefaultWindowDays,
		Directions: make(map[string]Direction),
		SubMetricWeights: map[MetricKind]float64{
			KindFill:         1.0 / 3.0,
			KindInstability:  1.0 / 3.0,
			KindRateOfChange: 1.0 / 3.0,
		},
		Bands:            DefaultBands(),
		InstabilityScale: DefaultInstabilityScale,
		RateScale:        DefaultRateScale,
	}
}

// Validate checks the configuration for the fatal errors of a run: window
// depth, weight totals, scale factors and the category bands. Direction
// totality is checked against the actual input at run time.
func (c Config) Validate() error {
	if c.Domain == "" {
		return fmt.Errorf("config: domain must not be empty")
	}
	if c.WindowDays < 1 {
		return fmt.Errorf("config: window days must be at least 1, got %d", c.WindowDays)
	}
	if c.InstabilityScale <= 0 {
		return fmt.Errorf("config: instability scale must be positive, got %g", c.InstabilityScale)
	}
	if c.RateScale <= 0 {
		return fmt.Errorf("config: rate-of-change scale must be positive, got %g", c.RateScale)
	}

	total := 0.0
	for kind, w := range c.SubMetricWeights {
		switch kind {
		case KindFill, KindInstability, KindRateOfChange:
		default:
			return fmt.Errorf("config: unknown sub-metric kind %q in weights", kind)
		}
		if w < 0 {
			return fmt.Errorf("config: sub-metric weight for %s must not be negative, got %g", kind, w)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("config: sub-metric weights must sum to a positive total, got %g", total)
	}

	if len(c.AreaWeights) > 0 {
		total = 0.0
		for area, w := range c.AreaWeights {
			if w < 0 {
				return fmt.Errorf("config: area weight for %s must not be negative, got %g", area, w)
			}
			total += w
		}
		if total <= 0 {
			return fmt.Errorf("config: area weights must sum to a positive total, got %g", total)
		}
	}

	return validateBands(c.Bands)
}

func validateBands(bands []CategoryBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("config: at least one category band is required")
	}
	seen := make(map[string]bool, len(bands))
	for i, band := range bands {
		if band.Name == "" {
			return fmt.Errorf("config: category band %d has no name", i)
		}
		if seen[band.Name] {
			return fmt.Errorf("config: duplicate category band %q", band.Name)
		}
		seen[band.Name] = true
		if band.Min < 0 || band.Min > 100 {
			return fmt.Errorf("config: category band %q threshold %g outside [0,100]", band.Name, band.Min)
		}
		if i > 0 && band.Min >= bands[i-1].Min {
			return fmt.Errorf("config: category bands must be strictly decreasing, %q (%g) not below %q (%g)",
				band.Name, band.Min, bands[i-1].Name, bands[i-1].Min)
		}
	}
	if bands[len(bands)-1].Min != 0 {
		return fmt.Errorf("config: lowest category band must start at 0, got %g", bands[len(bands)-1].Min)
	}
	return nil
}

// Direction resolves the polarity of an area. Unregistered areas are an
// error, never inferred: guessing polarity from the data distribution would
// silently invert meaning when a metric's typical range shifts.
func (c Config) Direction(areaID string) (Direction, error) {
	dir, ok := c.Directions[areaID]
	if !ok {
		return LowerBetter, fmt.Errorf("no direction registered for area %q in domain %s", areaID, c.Domain)
	}
	return dir, nil
}

// AreaName returns the display name for an area, falling back to the id.
func (c Config) AreaName(areaID string) string {
	if name, ok := c.AreaNames[areaID]; ok && name != "" {
		return name
	}
	return areaID
}

// CategoryNames returns the category vocabulary in band order.
func (c Config) CategoryNames() []string {
	names := make([]string, len(c.Bands))
	for i, band := range c.Bands {
		names[i] = band.Name
	}
	return names
}

// areaWeight returns the configured weight of an area, or the equal-weight
// default when no area weights are configured.
func (c Config) areaWeight(areaID string) float64 {
	if len(c.AreaWeights) == 0 {
		return 1
	}
	return c.AreaWeights[areaID]
}

// sortedAreas returns the areas of a map in deterministic order.
func sortedAreas[V any](m map[string]V) []string {
	areas := make([]string, 0, len(m))
	for area := range m {
		areas = append(areas, area)
	}
	sort.Strings(areas)
	return areas
}
