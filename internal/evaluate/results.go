package evaluate

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/journalmap/geoparse-service/internal/domain"
)

// resultsHeader is the column set of the results CSV.
var resultsHeader = []string{"DOI", "parser", "correctPlace", "accurates", "inaccurates"}

// WriteResults writes the accuracy tallies as a CSV, one row per evaluated
// (ground-truth record, parser) pair, after the full evaluation pass.
func WriteResults(w io.Writer, tallies []domain.AccuracyTally) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultsHeader); err != nil {
		return err
	}
	for _, t := range tallies {
		row := []string{
			t.DOI,
			string(t.Parser),
			t.GroundTruthText,
			strconv.Itoa(t.Accurate),
			strconv.Itoa(t.Inaccurate),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
