package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/journalmap/geoparse-service/internal/domain"
	"github.com/journalmap/geoparse-service/internal/geoparse"
)

// provenanceColumns lead every locations CSV row regardless of parser.
var provenanceColumns = []string{
	"index",
	"filename",
	"doi",
	"title",
	"level",
	"section",
	"nchar",
	"status",
	"parser",
}

// LocationsWriter appends location records to a per-parser CSV stream. The
// annotation column set depends on the parser's response shape; rows are
// flushed per segment batch so output survives a mid-run failure.
type LocationsWriter struct {
	w       *csv.Writer
	columns []string
}

// NewLocationsWriter creates a writer for the given parser variant and emits
// the header row.
func NewLocationsWriter(w io.Writer, parser domain.Parser) (*LocationsWriter, error) {
	lw := &LocationsWriter{
		w:       csv.NewWriter(w),
		columns: geoparse.AnnotationColumns(parser),
	}
	header := append(append([]string{}, provenanceColumns...), lw.columns...)
	if err := lw.w.Write(header); err != nil {
		return nil, err
	}
	lw.w.Flush()
	return lw, lw.w.Error()
}

// WriteSegment appends one segment's record batch. The index column counts
// from zero within the batch, matching annotation order; a placeholder batch
// is a single row with index zero.
func (lw *LocationsWriter) WriteSegment(records []domain.LocationRecord) error {
	for i, rec := range records {
		row := make([]string, 0, len(provenanceColumns)+len(lw.columns))
		row = append(row,
			strconv.Itoa(i),
			rec.SourceFile,
			rec.DOI,
			rec.Title,
			string(rec.Level),
			rec.Section,
			strconv.Itoa(rec.CharCount),
			formatBool(rec.Found),
			string(rec.Parser),
		)
		for _, col := range lw.columns {
			row = append(row, annotationValue(col, rec))
		}
		if err := lw.w.Write(row); err != nil {
			return err
		}
	}
	lw.w.Flush()
	return lw.w.Error()
}

// annotationValue renders one annotation column of a record. Placeholder
// records render every annotation column empty.
func annotationValue(col string, rec domain.LocationRecord) string {
	switch col {
	case "coordinates":
		return rec.Coordinates
	case "end_char":
		return formatIntPtr(rec.EndChar)
	case "score":
		return formatFloatPtr(rec.Score)
	case "start_char":
		return formatIntPtr(rec.StartChar)
	case "text":
		return rec.Text
	case "type":
		return rec.Type
	case "country_conf":
		return formatFloatPtr(rec.CountryConf)
	case "country_predicted":
		return rec.CountryPredicted
	case "geo.admin1":
		return rec.GeoAdmin1
	case "geo.country_code3":
		return rec.GeoCountryCode3
	case "geo.feature_class":
		return rec.GeoFeatureClass
	case "geo.feature_code":
		return rec.GeoFeatureCode
	case "geo.geonameid":
		return rec.GeoGeonameID
	case "geo.lat":
		return formatFloatPtr(rec.GeoLat)
	case "geo.lon":
		return formatFloatPtr(rec.GeoLon)
	case "geo.place_name":
		return rec.GeoPlaceName
	case "spans":
		return rec.Spans
	case "word":
		return rec.Word
	default:
		return ""
	}
}
