package evaluate

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journalmap/geoparse-service/internal/domain"
)

func f64(v float64) *float64 { return &v }

func TestHaversine(t *testing.T) {
	// Same point, zero distance.
	assert.InDelta(t, 0, Haversine(44.0, -63.0, 44.0, -63.0), 1e-9)

	// One degree of latitude along a meridian is about 111.2 km.
	assert.InDelta(t, 111.19, Haversine(0, 0, 1, 0), 0.1)

	// Halifax to Moncton, roughly 180 km.
	dist := Haversine(44.6488, -63.5752, 46.0878, -64.7782)
	assert.InDelta(t, 184, dist, 5)

	// Symmetric in its arguments.
	assert.InDelta(t, dist, Haversine(46.0878, -64.7782, 44.6488, -63.5752), 1e-9)
}

func TestWithinThresholdInclusive(t *testing.T) {
	assert.True(t, withinThreshold(0))
	assert.True(t, withinThreshold(160.99))
	assert.True(t, withinThreshold(161.0), "boundary distance is accurate")
	assert.False(t, withinThreshold(161.01))
	assert.False(t, withinThreshold(200))
}

func TestParseCoordinatePair(t *testing.T) {
	lat, lon, ok := parseCoordinatePair("44.17,-112.23")
	require.True(t, ok)
	assert.InDelta(t, 44.17, lat, 1e-9)
	assert.InDelta(t, -112.23, lon, 1e-9)

	_, _, ok = parseCoordinatePair("")
	assert.False(t, ok)
	_, _, ok = parseCoordinatePair("44.17")
	assert.False(t, ok)
	_, _, ok = parseCoordinatePair("north,west")
	assert.False(t, ok)
}

func TestEvaluateMixedAccuracy(t *testing.T) {
	truth := []domain.GroundTruthRecord{{
		DOI:       "10.1/x",
		Latitude:  f64(44.0),
		Longitude: f64(-63.0),
		Text:      "Halifax area",
	}}

	rows := []LocationRow{
		// Within threshold.
		{DOI: "10.1/x", Parser: domain.ParserSpacyLG, Coordinates: "44.2,-63.1"},
		// Roughly 550 km away.
		{DOI: "10.1/x", Parser: domain.ParserSpacyLG, Coordinates: "49.0,-63.0"},
		// Different document, ignored.
		{DOI: "10.1/other", Parser: domain.ParserSpacyLG, Coordinates: "44.0,-63.0"},
		// Unparseable coordinate, silently skipped.
		{DOI: "10.1/x", Parser: domain.ParserSpacyLG, Coordinates: ""},
	}

	tallies := Evaluate(truth, domain.ParserSpacyLG, rows)
	require.Len(t, tallies, 1)
	assert.Equal(t, "10.1/x", tallies[0].DOI)
	assert.Equal(t, domain.ParserSpacyLG, tallies[0].Parser)
	assert.Equal(t, "Halifax area", tallies[0].GroundTruthText)
	assert.Equal(t, 1, tallies[0].Accurate)
	assert.Equal(t, 1, tallies[0].Inaccurate)
}

func TestEvaluateGeoShapeRows(t *testing.T) {
	truth := []domain.GroundTruthRecord{{
		DOI: "10.1/y", Latitude: f64(-16.55), Longitude: f64(-42.89),
	}}

	rows := []LocationRow{
		{DOI: "10.1/y", Parser: domain.ParserMordecai, GeoLat: f64(-16.5), GeoLon: f64(-42.9)},
		// Unresolved annotation: no geo fields, skipped.
		{DOI: "10.1/y", Parser: domain.ParserMordecai},
		// Only one coordinate present, skipped.
		{DOI: "10.1/y", Parser: domain.ParserMordecai, GeoLat: f64(-16.5)},
	}

	tallies := Evaluate(truth, domain.ParserMordecai, rows)
	require.Len(t, tallies, 1)
	assert.Equal(t, 1, tallies[0].Accurate)
	assert.Equal(t, 0, tallies[0].Inaccurate)
}

func TestEvaluateSkipsTruthWithoutCoordinates(t *testing.T) {
	truth := []domain.GroundTruthRecord{
		{DOI: "10.1/a", Latitude: f64(10), Longitude: f64(10)},
		{DOI: "10.1/b"},
	}

	tallies := Evaluate(truth, domain.ParserNLTK, nil)
	require.Len(t, tallies, 1)
	assert.Equal(t, "10.1/a", tallies[0].DOI)
	assert.Equal(t, 0, tallies[0].Accurate)
	assert.Equal(t, 0, tallies[0].Inaccurate)
}

func TestReadGroundTruth(t *testing.T) {
	input := strings.Join([]string{
		`doi,RE_Lat,RE_Long,Coordinate Text`,
		`10.1/a,44.71314,-63.7233,"near Halifax, NS"`,
		`,1.0,1.0,orphan row without doi`,
		`10.1/b,,,no coordinates confirmed`,
	}, "\n")

	records, err := ReadGroundTruth(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "10.1/a", records[0].DOI)
	require.True(t, records[0].HasCoordinates())
	assert.InDelta(t, 44.71314, *records[0].Latitude, 1e-9)
	assert.Equal(t, "near Halifax, NS", records[0].Text)

	assert.Equal(t, "10.1/b", records[1].DOI)
	assert.False(t, records[1].HasCoordinates())
}

func TestReadGroundTruthRejectsOutOfRange(t *testing.T) {
	input := "doi,RE_Lat,RE_Long,Coordinate Text\n10.1/a,95.0,-63.0,bad latitude\n"
	_, err := ReadGroundTruth(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadGroundTruthMissingColumn(t *testing.T) {
	input := "doi,latitude,longitude\n10.1/a,1,2\n"
	_, err := ReadGroundTruth(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RE_Lat")
}

func TestReadLocationsCoordinateShape(t *testing.T) {
	input := strings.Join([]string{
		`index,filename,doi,title,level,section,nchar,status,parser,coordinates,end_char,score,start_char,text,type`,
		`0,a.xml,10.1/x,T,body,Study Area,120,True,spacy-lg,"44.17,-112.23",23,0.91,10,"Dubois, Idaho",GPE`,
		`0,a.xml,10.1/x,T,title,title,30,False,spacy-lg,,,,,,`,
	}, "\n")

	rows, err := ReadLocations(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "10.1/x", rows[0].DOI)
	assert.Equal(t, domain.ParserSpacyLG, rows[0].Parser)
	assert.Equal(t, "Study Area", rows[0].Section)
	assert.Equal(t, "44.17,-112.23", rows[0].Coordinates)
	assert.Nil(t, rows[0].GeoLat)

	assert.Empty(t, rows[1].Coordinates)
}

func TestReadLocationsGeoShape(t *testing.T) {
	input := strings.Join([]string{
		`index,filename,doi,title,level,section,nchar,status,parser,country_conf,country_predicted,geo.admin1,geo.country_code3,geo.feature_class,geo.feature_code,geo.geonameid,geo.lat,geo.lon,geo.place_name,spans,word`,
		`0,b.xml,10.1/y,T2,abstract,abstract,200,True,mordecai,0.96,BRA,Minas Gerais,BRA,P,PPL,3462315,-16.55,-42.89,Grão Mogol,"[{""start"":12,""end"":22}]",Grão Mogol`,
	}, "\n")

	rows, err := ReadLocations(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, domain.ParserMordecai, rows[0].Parser)
	require.NotNil(t, rows[0].GeoLat)
	assert.InDelta(t, -16.55, *rows[0].GeoLat, 1e-9)
	require.NotNil(t, rows[0].GeoLon)
	assert.InDelta(t, -42.89, *rows[0].GeoLon, 1e-9)
	assert.Empty(t, rows[0].Coordinates)
}

func TestWriteResults(t *testing.T) {
	var buf bytes.Buffer
	tallies := []domain.AccuracyTally{
		{DOI: "10.1/x", Parser: domain.ParserSpacyLG, GroundTruthText: "Halifax area", Accurate: 1, Inaccurate: 1},
		{DOI: "10.1/y", Parser: domain.ParserSpacyLG, GroundTruthText: "", Accurate: 0, Inaccurate: 0},
	}
	require.NoError(t, WriteResults(&buf, tallies))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"DOI", "parser", "correctPlace", "accurates", "inaccurates"}, rows[0])
	assert.Equal(t, []string{"10.1/x", "spacy-lg", "Halifax area", "1", "1"}, rows[1])
	assert.Equal(t, []string{"10.1/y", "spacy-lg", "", "0", "0"}, rows[2])
}
