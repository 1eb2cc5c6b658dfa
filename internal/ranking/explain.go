package ranking

import (
	"fmt"
	"sort"
	"strings"
)

// Narrative cut-points of the per-area explanations. These are fixed
// presentation thresholds, independent of the category bands of the
// composite score.
const (
	explainExcellent = 80
	explainGood      = 60
	explainRegular   = 40
)

// areaInsight is one (area, sub-metric) observation used to build the
// narrative explanation and recommendations of an entity.
type areaInsight struct {
	areaID   string
	areaName string
	kind     MetricKind
	raw      float64
	score    float64
}

// explainInsight renders one Spanish narrative line for an (area,
// sub-metric) score, phrased per metric kind like the original reports.
func explainInsight(in areaInsight) string {
	switch in.kind {
	case KindFill:
		switch {
		case in.score >= explainExcellent:
			return fmt.Sprintf("**%s Excelente (%.1fpts)**: El equipo mantiene una carga baja de %.1f, lo que indica un rendimiento excepcional.", in.areaName, in.score, in.raw)
		case in.score >= explainGood:
			return fmt.Sprintf("**%s Buena (%.1fpts)**: Con una carga de %.1f, el equipo tiene un rendimiento aceptable.", in.areaName, in.score, in.raw)
		case in.score >= explainRegular:
			return fmt.Sprintf("**%s Regular (%.1fpts)**: La carga de %.1f sugiere que el equipo podría estar experimentando problemas de rendimiento.", in.areaName, in.score, in.raw)
		default:
			return fmt.Sprintf("**%s Crítica (%.1fpts)**: Con una carga alta de %.1f, el equipo está experimentando problemas significativos de rendimiento.", in.areaName, in.score, in.raw)
		}
	case KindInstability:
		switch {
		case in.score >= explainExcellent:
			return fmt.Sprintf("**Estabilidad en %s Excelente (%.1fpts)**: El equipo muestra una variabilidad muy baja (%.1f), indicando un funcionamiento muy estable.", in.areaName, in.score, in.raw)
		case in.score >= explainGood:
			return fmt.Sprintf("**Estabilidad en %s Buena (%.1fpts)**: La variabilidad de %.1f indica un funcionamiento estable con algunas fluctuaciones menores.", in.areaName, in.score, in.raw)
		case in.score >= explainRegular:
			return fmt.Sprintf("**Estabilidad en %s Regular (%.1fpts)**: La variabilidad de %.1f sugiere inestabilidad que puede afectar el rendimiento.", in.areaName, in.score, in.raw)
		default:
			return fmt.Sprintf("**Estabilidad en %s Crítica (%.1fpts)**: La alta variabilidad de %.1f indica problemas graves de estabilidad.", in.areaName, in.score, in.raw)
		}
	case KindRateOfChange:
		switch {
		case in.score >= explainExcellent:
			return fmt.Sprintf("**Cambios en %s Predecibles (%.1fpts)**: Los cambios son muy predecibles (%.1f), indicando un funcionamiento estable.", in.areaName, in.score, in.raw)
		case in.score >= explainGood:
			return fmt.Sprintf("**Cambios en %s Estables (%.1fpts)**: Los cambios son relativamente estables (%.1f).", in.areaName, in.score, in.raw)
		case in.score >= explainRegular:
			return fmt.Sprintf("**Cambios en %s Variables (%.1fpts)**: Los cambios son impredecibles (%.1f), lo que puede afectar el rendimiento.", in.areaName, in.score, in.raw)
		default:
			return fmt.Sprintf("**Cambios en %s Caóticos (%.1fpts)**: Los cambios son muy impredecibles (%.1f), requiriendo atención inmediata.", in.areaName, in.score, in.raw)
		}
	default:
		return ""
	}
}

// buildExplanation joins the narrative lines of all insights, ordered by
// (area, metric kind) so output is reproducible.
func buildExplanation(insights []areaInsight) string {
	lines := make([]string, 0, len(insights))
	for _, in := range insights {
		if line := explainInsight(in); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " | ")
}

// buildRecommendation derives the recommendation text from the sub-metric
// scores directly. The original system re-parsed its own explanation
// strings to find problem areas; matching on scores keeps the same outcome
// without string matching.
func buildRecommendation(insights []areaInsight) string {
	criticalSet := make(map[string]bool)
	regularSet := make(map[string]bool)
	for _, in := range insights {
		switch {
		case in.score < explainRegular:
			criticalSet[in.areaName] = true
		case in.score < explainGood:
			regularSet[in.areaName] = true
		}
	}

	critical := sortedNames(criticalSet)
	regular := sortedNames(regularSet)

	var recs []string
	if len(critical) == 1 {
		recs = append(recs, fmt.Sprintf("Intervención inmediata requerida en %s", critical[0]))
	} else if len(critical) > 1 {
		recs = append(recs, fmt.Sprintf("Intervención inmediata requerida en múltiples áreas: %s", strings.Join(truncate(critical, 3), ", ")))
	}
	if len(regular) == 1 {
		recs = append(recs, fmt.Sprintf("Optimizar rendimiento en %s", regular[0]))
	} else if len(regular) > 1 {
		recs = append(recs, fmt.Sprintf("Optimizar rendimiento en múltiples áreas: %s", strings.Join(truncate(regular, 3), ", ")))
	}

	if len(critical) == 0 && len(regular) == 0 {
		recs = append(recs, "Mantener estándares actuales de rendimiento")
	} else if len(critical) > 3 {
		recs = append(recs, "Revisión completa del equipo requerida")
	}

	return strings.Join(recs, "; ")
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func truncate(names []string, max int) []string {
	if len(names) > max {
		return names[:max]
	}
	return names
}
