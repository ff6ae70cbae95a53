package evaluate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/journalmap/geoparse-service/internal/domain"
)

// Ground-truth CSV column names.
const (
	colDOI  = "doi"
	colLat  = "RE_Lat"
	colLong = "RE_Long"
	colText = "Coordinate Text"
)

// ReadGroundTruth reads the confirmed-locations CSV. Rows without a DOI are
// dropped; rows with a DOI but no coordinates are kept so callers can see
// them, but they carry nil coordinates and are skipped by the evaluator.
// Rows with out-of-range coordinates are a data error and abort the read.
func ReadGroundTruth(r io.Reader) ([]domain.GroundTruthRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read ground truth header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colDOI, colLat, colLong} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("ground truth CSV is missing column %q", required)
		}
	}

	validate := validator.New()

	var records []domain.GroundTruthRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ground truth row: %w", err)
		}
		line++

		doi := cell(row, cols[colDOI])
		if doi == "" {
			continue
		}

		rec := domain.GroundTruthRecord{DOI: doi}
		if idx, ok := cols[colText]; ok {
			rec.Text = cell(row, idx)
		}
		rec.Latitude, err = parseCoordinate(cell(row, cols[colLat]))
		if err != nil {
			return nil, fmt.Errorf("ground truth line %d: latitude: %w", line, err)
		}
		rec.Longitude, err = parseCoordinate(cell(row, cols[colLong]))
		if err != nil {
			return nil, fmt.Errorf("ground truth line %d: longitude: %w", line, err)
		}

		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("ground truth line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseCoordinate parses an optional decimal-degree cell; empty means absent.
func parseCoordinate(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid coordinate %q", s)
	}
	return &v, nil
}

// cell returns a trimmed field, tolerating ragged rows.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
