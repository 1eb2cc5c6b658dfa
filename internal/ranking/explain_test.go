package ranking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func insight(areaName string, kind MetricKind, score float64) areaInsight {
	return areaInsight{areaID: areaName, areaName: areaName, kind: kind, raw: 42.5, score: score}
}

func TestExplainInsight(t *testing.T) {
	tests := []struct {
		name     string
		kind     MetricKind
		score    float64
		contains string
	}{
		{"fill excellent", KindFill, 85, "Excelente"},
		{"fill good", KindFill, 65, "Buena"},
		{"fill regular", KindFill, 45, "Regular"},
		{"fill critical", KindFill, 20, "Crítica"},
		{"instability excellent", KindInstability, 90, "Estabilidad en CPLOAD Excelente"},
		{"instability critical", KindInstability, 10, "problemas graves de estabilidad"},
		{"rate predictable", KindRateOfChange, 80, "Predecibles"},
		{"rate stable", KindRateOfChange, 60, "Estables"},
		{"rate variable", KindRateOfChange, 40, "Variables"},
		{"rate chaotic", KindRateOfChange, 39.9, "Caóticos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := explainInsight(insight("CPLOAD", tt.kind, tt.score))
			assert.Contains(t, line, tt.contains)
			assert.Contains(t, line, "pts")
		})
	}
}

func TestBuildExplanation(t *testing.T) {
	insights := []areaInsight{
		insight("Carga del procesador", KindFill, 85),
		insight("Carga del procesador", KindInstability, 30),
	}
	text := buildExplanation(insights)
	parts := strings.Split(text, " | ")
	assert.Len(t, parts, 2)
	assert.Contains(t, parts[0], "Excelente")
	assert.Contains(t, parts[1], "Crítica")
}

func TestBuildRecommendation(t *testing.T) {
	tests := []struct {
		name     string
		insights []areaInsight
		expected string
	}{
		{
			name:     "nothing flagged",
			insights: []areaInsight{insight("Memoria", KindFill, 90)},
			expected: "Mantener estándares actuales de rendimiento",
		},
		{
			name:     "one critical area",
			insights: []areaInsight{insight("Memoria", KindFill, 10)},
			expected: "Intervención inmediata requerida en Memoria",
		},
		{
			name: "one regular area",
			insights: []areaInsight{
				insight("Carga", KindFill, 50),
			},
			expected: "Optimizar rendimiento en Carga",
		},
		{
			name: "multiple critical areas",
			insights: []areaInsight{
				insight("Carga", KindFill, 10),
				insight("Memoria", KindInstability, 20),
			},
			expected: "Intervención inmediata requerida en múltiples áreas: Carga, Memoria",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildRecommendation(tt.insights))
		})
	}

	t.Run("more than three critical areas requests a full review", func(t *testing.T) {
		insights := []areaInsight{
			insight("A1", KindFill, 5),
			insight("A2", KindFill, 5),
			insight("A3", KindFill, 5),
			insight("A4", KindFill, 5),
		}
		text := buildRecommendation(insights)
		assert.Contains(t, text, "Revisión completa del equipo requerida")
		// The area list in the text truncates at three.
		assert.NotContains(t, text, "A4")
	})

	t.Run("critical and regular areas combine", func(t *testing.T) {
		insights := []areaInsight{
			insight("Carga", KindFill, 10),
			insight("Memoria", KindInstability, 50),
		}
		text := buildRecommendation(insights)
		assert.Contains(t, text, "Intervención inmediata requerida en Carga")
		assert.Contains(t, text, "Optimizar rendimiento en Memoria")
	})
}
