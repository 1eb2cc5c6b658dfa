package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fleetrank/internal/ranking"
)

// Column layout of a composite ranking CSV. Kept as a var so readers and
// writers share one definition.
var rankingHeader = []string{
	"Position",
	"Entity_ID",
	"Final_Score",
	"Category",
	"Explanation",
	"Recommendation",
	"Contributing_Areas",
	"Records",
	"Domain",
	"Run_ID",
	"Run_At",
}

var subMetricHeader = []string{
	"Area_ID",
	"Entity_ID",
	"Metric_Kind",
	"Position",
	"Raw_Value",
	"Scaled_Value",
	"Normalized_Value",
	"Window_Values",
	"Run_At",
}

// WriteRankingCSV saves the composite rows of a ranking table. List-valued
// fields (contributing areas) are serialized as JSON arrays inside the
// cell, so reading them back never requires evaluating free text.
func WriteRankingCSV(table *ranking.RankingTable, outputPath string) error {
	writer, file, err := openCSV(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()
	defer writer.Flush()

	if err := writer.Write(rankingHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, entry := range table.Entries {
		areas, err := marshalList(entry.ContributingAreas)
		if err != nil {
			return fmt.Errorf("encode contributing areas for %s: %w", entry.EntityID, err)
		}
		row := []string{
			strconv.Itoa(entry.Position),
			entry.EntityID,
			formatFloat(entry.FinalScore, 4),
			entry.Category,
			entry.Explanation,
			entry.Recommendation,
			areas,
			strconv.Itoa(entry.Records),
			string(table.Domain),
			table.RunID,
			table.RunAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write CSV record for %s: %w", entry.EntityID, err)
		}
	}

	return nil
}

// WriteSubMetricsCSV saves the per-slice ranking rows: one row per
// (area, entity, metric kind), carrying both the raw and the scaled
// magnitude plus the raw window values.
func WriteSubMetricsCSV(table *ranking.RankingTable, outputPath string) error {
	writer, file, err := openCSV(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()
	defer writer.Flush()

	if err := writer.Write(subMetricHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, sv := range table.SubMetrics {
		values, err := marshalList(sv.WindowValues)
		if err != nil {
			return fmt.Errorf("encode window values for %s/%s: %w", sv.AreaID, sv.EntityID, err)
		}
		row := []string{
			sv.AreaID,
			sv.EntityID,
			string(sv.Kind),
			strconv.Itoa(sv.Position),
			formatFloat(sv.RawValue, 6),
			formatFloat(sv.ScaledValue, 4),
			formatFloat(sv.Score, 4),
			values,
			table.RunAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write CSV record for %s/%s: %w", sv.AreaID, sv.EntityID, err)
		}
	}

	return nil
}

// WriteComparisonCSV saves the statistical delta table and the category
// count matrix of a comparison as two CSV files.
func WriteComparisonCSV(result ranking.ComparisonResult, statsPath, matrixPath string) error {
	writer, file, err := openCSV(statsPath)
	if err != nil {
		return err
	}
	header := []string{"Metric", string(result.LeftDomain), string(result.RightDomain), "Delta"}
	if err := writer.Write(header); err != nil {
		file.Close()
		return fmt.Errorf("write stats header: %w", err)
	}
	for _, row := range result.Stats {
		record := []string{row.Metric, formatFloat(row.Left, 2), formatFloat(row.Right, 2), formatFloat(row.Delta, 2)}
		if err := writer.Write(record); err != nil {
			file.Close()
			return fmt.Errorf("write stats row %s: %w", row.Metric, err)
		}
	}
	writer.Flush()
	if err := file.Close(); err != nil {
		return fmt.Errorf("close stats file: %w", err)
	}

	writer, file, err = openCSV(matrixPath)
	if err != nil {
		return err
	}
	defer file.Close()
	defer writer.Flush()

	header = []string{"Category", string(result.LeftDomain), string(result.RightDomain), "Total"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write matrix header: %w", err)
	}
	for _, row := range result.Categories {
		record := []string{row.Category, strconv.Itoa(row.Left), strconv.Itoa(row.Right), strconv.Itoa(row.Total)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write matrix row %s: %w", row.Category, err)
		}
	}

	return nil
}

// ReadRankingCSV loads a previously exported composite ranking, so a
// stored ranking can be compared against a fresh run.
func ReadRankingCSV(path string) (*ranking.RankingTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ranking CSV: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ranking CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty ranking CSV")
	}
	if !isRankingHeader(rows[0]) {
		return nil, fmt.Errorf("unexpected header in ranking CSV: %v", rows[0])
	}

	table := &ranking.RankingTable{}
	for i, row := range rows[1:] {
		if len(row) < len(rankingHeader) {
			return nil, fmt.Errorf("ranking CSV row %d: expected %d columns, got %d", i+2, len(rankingHeader), len(row))
		}

		position, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("ranking CSV row %d: parse position: %w", i+2, err)
		}
		score, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("ranking CSV row %d: parse final score: %w", i+2, err)
		}
		areas, err := unmarshalStringList(row[6])
		if err != nil {
			return nil, fmt.Errorf("ranking CSV row %d: parse contributing areas: %w", i+2, err)
		}
		records, err := strconv.Atoi(row[7])
		if err != nil {
			return nil, fmt.Errorf("ranking CSV row %d: parse record count: %w", i+2, err)
		}

		table.Domain = ranking.Domain(row[8])
		table.RunID = row[9]
		if runAt, err := time.Parse(time.RFC3339, row[10]); err == nil {
			table.RunAt = runAt
		}

		table.Entries = append(table.Entries, ranking.RankingEntry{
			Position:          position,
			EntityID:          row[1],
			FinalScore:        score,
			Category:          row[3],
			Explanation:       row[4],
			Recommendation:    row[5],
			ContributingAreas: areas,
			Records:           records,
		})
	}

	return table, nil
}

func openCSV(outputPath string) (*csv.Writer, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create CSV file: %w", err)
	}
	return csv.NewWriter(file), file, nil
}

// marshalList encodes a list-valued field as a JSON array for storage in a
// single CSV cell.
func marshalList(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshalStringList decodes a JSON array cell. Free-text cells are
// rejected rather than guessed at.
func unmarshalStringList(cell string) ([]string, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(cell), &list); err != nil {
		return nil, fmt.Errorf("not a JSON string array: %w", err)
	}
	return list, nil
}

func isRankingHeader(row []string) bool {
	if len(row) != len(rankingHeader) {
		return false
	}
	for i, cell := range row {
		if cell != rankingHeader[i] {
			return false
		}
	}
	return true
}

func formatFloat(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}
