package geoparse

import (
	"encoding/json"

	"github.com/journalmap/geoparse-service/internal/domain"
)

// Annotation is one named-entity annotation from the geoparsing service.
// The service answers in one of two structurally different shapes depending
// on the backend variant; the closed implementations below cover both, and
// each knows how to stamp its fields onto a canonical location record.
type Annotation interface {
	apply(rec *domain.LocationRecord)
}

// CoordinateAnnotation is the response shape of the spaCy, Stanza, and NLTK
// backends: a coordinate pair rendered as "lat,lon" text plus the matched
// span and a confidence score.
type CoordinateAnnotation struct {
	Coordinates string   `json:"coordinates"`
	EndChar     *int     `json:"end_char"`
	Score       *float64 `json:"score"`
	StartChar   *int     `json:"start_char"`
	Text        string   `json:"text"`
	Type        string   `json:"type"`
}

func (a CoordinateAnnotation) apply(rec *domain.LocationRecord) {
	rec.Coordinates = a.Coordinates
	rec.EndChar = a.EndChar
	rec.Score = a.Score
	rec.StartChar = a.StartChar
	rec.Text = a.Text
	rec.Type = a.Type
}

// GeoAnnotation is the response shape of the Mordecai backend: discrete
// latitude/longitude fields under a nested geo object plus country
// prediction metadata. A record may lack the geo object entirely when the
// backend recognized a place name but could not resolve it.
type GeoAnnotation struct {
	CountryConf      *float64        `json:"country_conf"`
	CountryPredicted string          `json:"country_predicted"`
	Geo              *GeoDetails     `json:"geo"`
	Spans            json.RawMessage `json:"spans"`
	Word             string          `json:"word"`
}

// GeoDetails is the nested gazetteer resolution of a GeoAnnotation.
type GeoDetails struct {
	Admin1       string      `json:"admin1"`
	CountryCode3 string      `json:"country_code3"`
	FeatureClass string      `json:"feature_class"`
	FeatureCode  string      `json:"feature_code"`
	GeonameID    json.Number `json:"geonameid"`
	Lat          *float64    `json:"lat"`
	Lon          *float64    `json:"lon"`
	PlaceName    string      `json:"place_name"`
}

func (a GeoAnnotation) apply(rec *domain.LocationRecord) {
	rec.CountryConf = a.CountryConf
	rec.CountryPredicted = a.CountryPredicted
	rec.Spans = string(a.Spans)
	rec.Word = a.Word
	if a.Geo == nil {
		return
	}
	rec.GeoAdmin1 = a.Geo.Admin1
	rec.GeoCountryCode3 = a.Geo.CountryCode3
	rec.GeoFeatureClass = a.Geo.FeatureClass
	rec.GeoFeatureCode = a.Geo.FeatureCode
	rec.GeoGeonameID = a.Geo.GeonameID.String()
	rec.GeoLat = a.Geo.Lat
	rec.GeoLon = a.Geo.Lon
	rec.GeoPlaceName = a.Geo.PlaceName
}
