package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/smsguard/spam-detector/pkg/detector"
	"github.com/smsguard/spam-detector/pkg/learning"
)

// LoadStats reports what the loader kept and dropped
type LoadStats struct {
	Loaded  int
	Skipped int
}

// Load reads training records from a CSV file with a header row naming
// text, label and phone columns
func Load(path string) ([]detector.TrainingRecord, *LoadStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open dataset: %v", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads training records from CSV data. Fields are trimmed, labels
// lowercased, and malformed rows (unknown label, or neither text nor
// phone) are skipped rather than failing the load.
func Parse(r io.Reader) ([]detector.TrainingRecord, *LoadStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("dataset is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read dataset header: %v", err)
	}

	textCol, labelCol, phoneCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "text", "message":
			textCol = i
		case "label":
			labelCol = i
		case "phone", "phone_number":
			phoneCol = i
		}
	}

	if labelCol == -1 {
		return nil, nil, fmt.Errorf("dataset header has no label column")
	}
	if textCol == -1 && phoneCol == -1 {
		return nil, nil, fmt.Errorf("dataset header has neither text nor phone column")
	}

	var records []detector.TrainingRecord
	stats := &LoadStats{}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			stats.Skipped++
			continue
		}

		record := detector.TrainingRecord{
			Text:  field(row, textCol),
			Label: strings.ToLower(field(row, labelCol)),
			Phone: field(row, phoneCol),
		}

		if record.Label != learning.LabelSpam && record.Label != learning.LabelHam {
			stats.Skipped++
			continue
		}
		if record.Text == "" && record.Phone == "" {
			stats.Skipped++
			continue
		}

		records = append(records, record)
		stats.Loaded++
	}

	return records, stats, nil
}

func field(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
