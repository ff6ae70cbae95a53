package geoparse

import "github.com/journalmap/geoparse-service/internal/domain"

// parsers lists the supported backend variants.
var parsers = []domain.Parser{
	domain.ParserSpacyLG,
	domain.ParserSpacyTRF,
	domain.ParserMordecai,
	domain.ParserStanza,
	domain.ParserNLTK,
}

// Parsers returns the supported backend variants in canonical order.
func Parsers() []domain.Parser {
	out := make([]domain.Parser, len(parsers))
	copy(out, parsers)
	return out
}

// ValidParser reports whether name identifies a supported backend variant.
func ValidParser(name string) bool {
	for _, p := range parsers {
		if string(p) == name {
			return true
		}
	}
	return false
}

// coordinateColumns are the annotation columns of the spaCy and Stanza shapes.
var coordinateColumns = []string{"coordinates", "end_char", "score", "start_char", "text", "type"}

// nltkColumns are the annotation columns of the NLTK shape, which lacks
// character offsets.
var nltkColumns = []string{"coordinates", "score", "text", "type"}

// geoColumns are the annotation columns of the Mordecai shape, sorted the way
// the downstream evaluator expects them.
var geoColumns = []string{
	"country_conf",
	"country_predicted",
	"geo.admin1",
	"geo.country_code3",
	"geo.feature_class",
	"geo.feature_code",
	"geo.geonameid",
	"geo.lat",
	"geo.lon",
	"geo.place_name",
	"spans",
	"word",
}

// AnnotationColumns returns the sorted annotation column names for a
// parser's locations CSV.
func AnnotationColumns(parser domain.Parser) []string {
	switch parser {
	case domain.ParserMordecai:
		return geoColumns
	case domain.ParserNLTK:
		return nltkColumns
	default:
		return coordinateColumns
	}
}
