package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"fleetrank/internal/ranking"
)

// WriteWorkbook saves one or more ranking tables, plus an optional
// comparison, into a single Excel workbook with one sheet per domain.
func WriteWorkbook(tables []*ranking.RankingTable, comparison *ranking.ComparisonResult, outputPath string) error {
	if len(tables) == 0 {
		return fmt.Errorf("no ranking tables to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, table := range tables {
		sheet := sheetNameFor(table.Domain)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename sheet for %s: %w", table.Domain, err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("create sheet for %s: %w", table.Domain, err)
			}
		}
		if err := writeRankingSheet(f, sheet, table); err != nil {
			return err
		}
	}

	if comparison != nil {
		if err := writeComparisonSheet(f, *comparison); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRankingSheet(f *excelize.File, sheet string, table *ranking.RankingTable) error {
	header := []any{"Posición", "Equipo", "Puntaje", "Categoría", "Explicación", "Recomendación", "Áreas", "Registros"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	if style, err := headerStyle(f); err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(header), 1)
		f.SetCellStyle(sheet, "A1", endCell, style)
	}

	for i, entry := range table.Entries {
		row := []any{
			entry.Position,
			entry.EntityID,
			entry.FinalScore,
			entry.Category,
			entry.Explanation,
			entry.Recommendation,
			strings.Join(entry.ContributingAreas, ", "),
			entry.Records,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	meta := i18nMetaRow(table)
	if err := setRow(f, sheet, len(table.Entries)+3, meta); err != nil {
		return err
	}

	f.SetColWidth(sheet, "B", "B", 18)
	f.SetColWidth(sheet, "E", "F", 60)
	return nil
}

func writeComparisonSheet(f *excelize.File, result ranking.ComparisonResult) error {
	const sheet = "Comparación"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create comparison sheet: %w", err)
	}

	header := []any{"Métrica", string(result.LeftDomain), string(result.RightDomain), "Diferencia"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	row := 2
	for _, stat := range result.Stats {
		if err := setRow(f, sheet, row, []any{stat.Metric, stat.Left, stat.Right, stat.Delta}); err != nil {
			return err
		}
		row++
	}

	row++ // blank separator
	if err := setRow(f, sheet, row, []any{"Categoría", string(result.LeftDomain), string(result.RightDomain), "Total"}); err != nil {
		return err
	}
	row++
	for _, cat := range result.Categories {
		if err := setRow(f, sheet, row, []any{cat.Category, cat.Left, cat.Right, cat.Total}); err != nil {
			return err
		}
		row++
	}

	if style, err := headerStyle(f); err == nil {
		f.SetCellStyle(sheet, "A1", "D1", style)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name for row %d col %d: %w", row, col+1, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s on %s: %w", cell, sheet, err)
		}
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
}

func sheetNameFor(domain ranking.Domain) string {
	switch domain {
	case ranking.DomainCP:
		return "Ranking CP"
	case ranking.DomainHDD:
		return "Ranking HDD"
	default:
		return "Ranking " + string(domain)
	}
}

func i18nMetaRow(table *ranking.RankingTable) []any {
	return []any{
		"Generado",
		table.RunAt.Format(time.RFC3339),
		"Ventana (días)",
		table.WindowDays,
		"Ejecución",
		table.RunID,
	}
}
