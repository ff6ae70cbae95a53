package evaluate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/journalmap/geoparse-service/internal/domain"
)

// LocationRow is the slice of a locations CSV row the evaluator needs:
// provenance plus whichever coordinate fields the parser shape carries.
type LocationRow struct {
	DOI         string
	Parser      domain.Parser
	Section     string
	Coordinates string
	GeoLat      *float64
	GeoLon      *float64
}

// ReadLocations reads a locations CSV produced by the parse pipeline.
// The reader is header-driven so it accepts either annotation shape;
// columns a shape lacks simply stay zero-valued.
func ReadLocations(r io.Reader) ([]LocationRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read locations header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"doi", "parser"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("locations CSV is missing column %q", required)
		}
	}

	var rows []LocationRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read locations row: %w", err)
		}

		row := LocationRow{
			DOI:    cell(record, cols["doi"]),
			Parser: domain.Parser(cell(record, cols["parser"])),
		}
		if idx, ok := cols["section"]; ok {
			row.Section = cell(record, idx)
		}
		if idx, ok := cols["coordinates"]; ok {
			row.Coordinates = cell(record, idx)
		}
		if idx, ok := cols["geo.lat"]; ok {
			row.GeoLat = parseFloatCell(cell(record, idx))
		}
		if idx, ok := cols["geo.lon"]; ok {
			row.GeoLon = parseFloatCell(cell(record, idx))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseFloatCell parses an optional float cell; empty or malformed cells are
// treated as absent, which the evaluator later skips.
func parseFloatCell(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
