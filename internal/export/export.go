package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/hpowernl/wafcli/internal/config"
	"github.com/hpowernl/wafcli/pkg/models"
)

// Summary is the serialisable form of an AnalysisResult
type Summary struct {
	TotalRequests      int64                     `json:"total_requests"`
	BlockedRequests    int64                     `json:"blocked_requests"`
	AllowedRequests    int64                     `json:"allowed_requests"`
	BlockRate          float64                   `json:"block_rate"`
	BlockedByRule      []models.CounterEntry     `json:"blocked_by_rule"`
	BlockedByCountry   []models.CounterEntry     `json:"blocked_by_country"`
	BlockedByIP        []models.CounterEntry     `json:"blocked_by_ip"`
	TopBlockedURIs     []models.CounterEntry     `json:"top_blocked_uris"`
	AttackMethods      []models.CounterEntry     `json:"attack_methods"`
	HourlyDistribution [models.HoursPerDay]int64 `json:"hourly_distribution"`
	Patterns           *models.TrafficPatterns   `json:"patterns,omitempty"`
}

// NewSummary flattens result; tables are sorted by descending count
func NewSummary(result *models.AnalysisResult, patterns *models.TrafficPatterns) *Summary {
	return &Summary{
		TotalRequests:      result.TotalRequests,
		BlockedRequests:    result.BlockedRequests,
		AllowedRequests:    result.AllowedRequests,
		BlockRate:          result.BlockRate(),
		BlockedByRule:      result.BlockedByRule.Top(0),
		BlockedByCountry:   result.BlockedByCountry.Top(0),
		BlockedByIP:        result.BlockedByIP.Top(0),
		TopBlockedURIs:     result.TopBlockedURIs.Top(0),
		AttackMethods:      result.AttackMethods.Top(0),
		HourlyDistribution: result.HourlyDistribution,
		Patterns:           patterns,
	}
}

// DataExporter provides data export functionality
type DataExporter struct {
	delimiter rune
}

// NewDataExporter creates a new data exporter
func NewDataExporter() *DataExporter {
	return &DataExporter{delimiter: config.DefaultExportSettings.CSVDelimiter}
}

// ExportToJSON exports the analysis to JSON format
func (e *DataExporter) ExportToJSON(summary *Summary, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// ExportToCSV writes one row per table entry: table, key, count
func (e *DataExporter) ExportToCSV(summary *Summary, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = e.delimiter

	if err := writer.Write([]string{"Table", "Key", "Count"}); err != nil {
		return err
	}

	totals := [][]string{
		{"summary", "total_requests", strconv.FormatInt(summary.TotalRequests, 10)},
		{"summary", "blocked_requests", strconv.FormatInt(summary.BlockedRequests, 10)},
		{"summary", "allowed_requests", strconv.FormatInt(summary.AllowedRequests, 10)},
	}
	if err := writer.WriteAll(totals); err != nil {
		return err
	}

	tables := []struct {
		name    string
		entries []models.CounterEntry
	}{
		{"rule", summary.BlockedByRule},
		{"country", summary.BlockedByCountry},
		{"ip", summary.BlockedByIP},
		{"uri", summary.TopBlockedURIs},
		{"attack_method", summary.AttackMethods},
	}
	for _, table := range tables {
		for _, entry := range table.entries {
			if err := writer.Write([]string{table.name, entry.Key, strconv.FormatInt(entry.Count, 10)}); err != nil {
				return err
			}
		}
	}

	for hour, count := range summary.HourlyDistribution {
		if err := writer.Write([]string{"hour", fmt.Sprintf("%02d", hour), strconv.FormatInt(count, 10)}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
