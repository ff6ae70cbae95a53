package domain

// Parser identifies which geoparsing backend produced a set of annotations.
// These values match the path segment of the geolocation service API and the
// parser column of the locations CSV.
type Parser string

const (
	ParserSpacyLG  Parser = "spacy-lg"
	ParserSpacyTRF Parser = "spacy-trf"
	ParserMordecai Parser = "mordecai"
	ParserStanza   Parser = "stanza"
	ParserNLTK     Parser = "nltk"
)

// UsesGeoShape reports whether the parser answers with the geo.lat/geo.lon
// response shape instead of the coordinates/score/type shape.
func (p Parser) UsesGeoShape() bool {
	return p == ParserMordecai
}

// LocationRecord is the canonical, provenance-tagged shape of one geoparser
// annotation for one segment. A segment with zero annotations still yields
// exactly one record with Found=false, so per-document location counts are
// never lost to empty responses.
//
// The two response shapes populate disjoint field groups: the
// coordinate-shape parsers fill Coordinates/StartChar/EndChar/Score/Text/Type
// and the geo-shape parser fills the Geo* and Country* fields plus Spans and
// Word. Placeholder records fill neither group.
type LocationRecord struct {
	SourceFile string
	DOI        string
	Title      string
	Level      SegmentLevel
	Section    string
	CharCount  int
	Found      bool
	Parser     Parser

	// Coordinate-shape annotation fields.
	Coordinates string // "lat,lon" text
	EndChar     *int
	Score       *float64
	StartChar   *int
	Text        string
	Type        string

	// Geo-shape annotation fields.
	CountryConf      *float64
	CountryPredicted string
	GeoAdmin1        string
	GeoCountryCode3  string
	GeoFeatureClass  string
	GeoFeatureCode   string
	GeoGeonameID     string
	GeoLat           *float64
	GeoLon           *float64
	GeoPlaceName     string
	Spans            string
	Word             string
}

// GroundTruthRecord is one human-verified physical location for a document.
// A document may have zero, one, or many. Coordinates are pointers because
// the ground-truth CSV may carry rows without them; such rows are skipped by
// the evaluator.
type GroundTruthRecord struct {
	DOI       string
	Latitude  *float64 `validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `validate:"omitempty,gte=-180,lte=180"`
	Text      string
}

// HasCoordinates reports whether both coordinates are present, the
// precondition for evaluating the record.
func (g GroundTruthRecord) HasCoordinates() bool {
	return g.Latitude != nil && g.Longitude != nil
}

// AccuracyTally aggregates the accuracy classification of every location
// record matching one (ground-truth record, parser) pair.
type AccuracyTally struct {
	DOI             string
	Parser          Parser
	GroundTruthText string
	Accurate        int
	Inaccurate      int
}
