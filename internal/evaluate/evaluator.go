package evaluate

import (
	"strconv"
	"strings"

	"github.com/journalmap/geoparse-service/internal/domain"
)

// Evaluate classifies one parser's location rows against the ground-truth
// records. For every ground-truth record with both coordinates present, each
// matching-DOI row is independently classified: accurate when its parsed
// coordinate lies within AccuracyThresholdKm of the ground truth, otherwise
// inaccurate. Rows whose coordinate cannot be extracted are silently skipped;
// they count as neither. One tally is emitted per evaluated ground-truth
// record, even when no rows matched.
func Evaluate(truth []domain.GroundTruthRecord, parser domain.Parser, rows []LocationRow) []domain.AccuracyTally {
	var tallies []domain.AccuracyTally
	for _, gt := range truth {
		if !gt.HasCoordinates() {
			continue
		}

		tally := domain.AccuracyTally{
			DOI:             gt.DOI,
			Parser:          parser,
			GroundTruthText: gt.Text,
		}
		for _, row := range rows {
			if row.DOI != gt.DOI {
				continue
			}
			lat, lon, ok := extractCoordinate(row)
			if !ok {
				continue
			}
			if withinThreshold(Haversine(lat, lon, *gt.Latitude, *gt.Longitude)) {
				tally.Accurate++
			} else {
				tally.Inaccurate++
			}
		}
		tallies = append(tallies, tally)
	}
	return tallies
}

// withinThreshold classifies a distance; the threshold itself is accurate.
func withinThreshold(distKm float64) bool {
	return distKm <= AccuracyThresholdKm
}

// extractCoordinate pulls the parsed coordinate out of a row according to
// its parser's shape. The geo shape needs both discrete fields present; the
// coordinate shape needs "lat,lon" text with two numeric halves.
func extractCoordinate(row LocationRow) (lat, lon float64, ok bool) {
	if row.Parser.UsesGeoShape() {
		if row.GeoLat == nil || row.GeoLon == nil {
			return 0, 0, false
		}
		return *row.GeoLat, *row.GeoLon, true
	}
	return parseCoordinatePair(row.Coordinates)
}

// parseCoordinatePair parses "lat,lon" text into its numeric halves.
func parseCoordinatePair(s string) (lat, lon float64, ok bool) {
	latText, lonText, found := strings.Cut(s, ",")
	if !found {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
