// Package ingest loads raw metric records from tabular files. It sits at
// the external boundary: the ranking engine itself never touches a file or
// a connection.
package ingest

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fleetrank/internal/ranking"
)

// LoadRecords loads metric records from a single CSV file.
// Expected CSV format: EntityID,AreaID,Date,Value with an optional header.
func LoadRecords(csvPath string) ([]ranking.MetricRecord, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV records: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("empty CSV file")
	}

	var dataStart int
	if isHeaderRow(rows[0]) {
		dataStart = 1
	}

	if len(rows) <= dataStart {
		return nil, fmt.Errorf("CSV file contains only header")
	}

	var records []ranking.MetricRecord
	for i := dataStart; i < len(rows); i++ {
		rec, err := parseRecordRow(rows[i], i+1)
		if err != nil {
			// Skip malformed rows but keep the batch.
			slog.Warn("failed to parse CSV record",
				"file", filepath.Base(csvPath),
				"line", i+1,
				"error", err,
			)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// parseRecordRow parses a single CSV row into a MetricRecord.
func parseRecordRow(row []string, lineNum int) (ranking.MetricRecord, error) {
	if len(row) < 4 {
		return ranking.MetricRecord{}, fmt.Errorf("insufficient columns in record (line %d): expected at least 4, got %d", lineNum, len(row))
	}

	entityID := strings.TrimSpace(row[0])
	if entityID == "" {
		return ranking.MetricRecord{}, fmt.Errorf("empty entity id (line %d)", lineNum)
	}

	areaID := strings.TrimSpace(row[1])
	if areaID == "" {
		return ranking.MetricRecord{}, fmt.Errorf("empty area id (line %d)", lineNum)
	}

	date, err := parseDate(strings.TrimSpace(row[2]))
	if err != nil {
		return ranking.MetricRecord{}, fmt.Errorf("parse date (line %d): %w", lineNum, err)
	}

	value, err := parseFloat(row[3], "value", lineNum)
	if err != nil {
		return ranking.MetricRecord{}, err
	}

	return ranking.MetricRecord{
		EntityID: entityID,
		AreaID:   areaID,
		Date:     date,
		Value:    value,
	}, nil
}

// parseDate attempts to parse date strings in multiple formats
func parseDate(dateStr string) (time.Time, error) {
	dateFormats := []string{
		"2006-01-02",          // ISO format
		"2006/01/02",          // Alternative ISO
		"02/01/2006",          // European format
		"2006-01-02 15:04:05", // With time
		time.RFC3339,
	}

	for _, format := range dateFormats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// parseFloat safely parses a float64 value from string
func parseFloat(str, fieldName string, lineNum int) (float64, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, fmt.Errorf("empty %s (line %d)", fieldName, lineNum)
	}

	value, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s (line %d): %w", fieldName, lineNum, err)
	}

	return value, nil
}

// isHeaderRow checks if the first row contains headers
func isHeaderRow(row []string) bool {
	if len(row) < 3 {
		return false
	}

	headers := []string{"entity", "equipo", "area", "unidad", "date", "fecha"}
	firstCell := strings.ToLower(strings.TrimSpace(row[0]))
	for _, header := range headers {
		if strings.Contains(firstCell, header) {
			return true
		}
	}

	// Try parsing the date column; if it fails, likely a header.
	_, err := parseDate(strings.TrimSpace(row[2]))
	return err != nil
}
