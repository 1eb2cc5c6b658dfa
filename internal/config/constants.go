package config

import "fleetrank/internal/ranking"

// envPrefix namespaces every environment override, e.g.
// FLEETRANK_SERVER_PORT or FLEETRANK_LOGGING_LEVEL.
const envPrefix = "FLEETRANK"

// defaultCPDomain returns the standard equipment setup: the nine
// reported load areas, all lower-is-better, with their display names.
func defaultCPDomain() DomainConfig {
	return DomainConfig{
		Directions: map[string]string{
			"PP_NFD": "lower_better",
			"IOLOAD": "lower_better",
			"totmem": "lower_better",
			"CUMOVR": "lower_better",
			"OMOVRN": "lower_better",
			"TLCONS": "lower_better",
			"OMLDAV": "lower_better",
			"CPLOAD": "lower_better",
			"MAXMEM": "lower_better",
		},
		AreaNames: map[string]string{
			"PP_NFD": "Archivos no encontrados",
			"IOLOAD": "Carga de entrada/salida",
			"totmem": "Memoria total utilizada",
			"CUMOVR": "Sobrecarga acumulativa",
			"OMOVRN": "Overhead de memoria",
			"TLCONS": "Tiempo de respuesta de consola",
			"OMLDAV": "Carga promedio de memoria",
			"CPLOAD": "Carga del procesador",
			"MAXMEM": "Memoria máxima utilizada",
		},
		SubMetricWeights: map[string]float64{
			string(ranking.KindFill):         0.4,
			string(ranking.KindInstability):  0.3,
			string(ranking.KindRateOfChange): 0.3,
		},
	}
}

// defaultHDDDomain returns the standard disk setup. Units are reported
// per drive; deployments with other drive letters list them in YAML.
func defaultHDDDomain() DomainConfig {
	return DomainConfig{
		Directions: map[string]string{
			"C:": "lower_better",
			"D:": "lower_better",
			"E:": "lower_better",
		},
		AreaNames: map[string]string{
			"C:": "Unidad C",
			"D:": "Unidad D",
			"E:": "Unidad E",
		},
		SubMetricWeights: map[string]float64{
			string(ranking.KindFill):         0.4,
			string(ranking.KindInstability):  0.4,
			string(ranking.KindRateOfChange): 0.2,
		},
	}
}
