package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"sales-dashboard/internal/models"
)

// Format names accepted by Exporter.Write.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

// Exporter writes an evaluated dashboard to report files. Each call creates
// a new timestamped file in the output directory and returns its absolute
// path.
type Exporter struct {
	now func() time.Time
}

func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// Write dispatches to the exporter for format.
func (e *Exporter) Write(format string, dash *models.Dashboard, base, dir string) (string, error) {
	switch format {
	case FormatCSV:
		return e.CSV(dash, base, dir)
	case FormatJSON:
		return e.JSON(dash, base, dir)
	case FormatPDF:
		return e.PDF(dash, base, dir)
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}

// CSV writes one row per chart point. A chart without data gets a single row
// carrying the placeholder message.
func (e *Exporter) CSV(dash *models.Dashboard, base, dir string) (string, error) {
	outputFilename, err := e.filename(base, dir, FormatCSV)
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"Chart", "Title", "Key", "Value", "Share (%)"}); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, s := range dash.Charts {
		if s.Empty || len(s.Points) == 0 {
			if err := writer.Write([]string{string(s.Chart), s.Title, models.NoDataMessage, "", ""}); err != nil {
				return "", fmt.Errorf("error writing CSV row: %w", err)
			}
			continue
		}
		for _, p := range s.Points {
			share := ""
			if p.Percent != nil {
				share = strconv.FormatFloat(*p.Percent, 'f', 2, 64)
			}
			record := []string{
				string(s.Chart),
				s.Title,
				p.Key,
				strconv.FormatFloat(p.Value, 'f', 2, 64),
				share,
			}
			if err := writer.Write(record); err != nil {
				return "", fmt.Errorf("error writing CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (e *Exporter) JSON(dash *models.Dashboard, base, dir string) (string, error) {
	outputFilename, err := e.filename(base, dir, FormatJSON)
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(dash); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// filename builds "<base>_<timestamp>.<ext>" inside dir, creating dir when
// needed. An empty dir means the working directory.
func (e *Exporter) filename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := e.now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", base, timestamp, ext)), nil
}
