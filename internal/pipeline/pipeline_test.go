package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journalmap/geoparse-service/internal/domain"
	"github.com/journalmap/geoparse-service/internal/geoparse"
	"github.com/journalmap/geoparse-service/internal/output"
	"github.com/journalmap/geoparse-service/internal/schemas"
	"github.com/journalmap/geoparse-service/internal/schemas/elsevier"
	"github.com/journalmap/geoparse-service/internal/schemas/jats"
)

const goodArticleXML = `<article>
  <front>
    <journal-meta><journal-title>Rangeland Journal</journal-title></journal-meta>
    <article-meta>
      <article-id pub-id-type="doi">10.1/good</article-id>
      <title-group><article-title>Vegetation Response</article-title></title-group>
      <contrib-group>
        <contrib><name><surname>Smith</surname><given-names>J</given-names></name></contrib>
      </contrib-group>
      <pub-date><year>2012</year></pub-date>
      <abstract><p>We monitored plots.</p></abstract>
    </article-meta>
  </front>
  <body>
    <sec><title>Study Area</title><p>Plots near Dubois, Idaho.</p></sec>
  </body>
</article>`

const noAuthorsXML = `<article>
  <front>
    <article-meta>
      <article-id pub-id-type="doi">10.1/orphan</article-id>
      <title-group><article-title>Anonymous Report</article-title></title-group>
      <pub-date><year>2010</year></pub-date>
    </article-meta>
  </front>
</article>`

const unknownXML = `<record><metadata>not a known schema</metadata></record>`

// fakeAnnotator returns queued responses in order, then empty responses.
type fakeAnnotator struct {
	parser    domain.Parser
	responses [][]geoparse.Annotation
	err       error
	calls     int
}

func (f *fakeAnnotator) Parser() domain.Parser { return f.parser }

func (f *fakeAnnotator) Annotate(_ context.Context, _ string) ([]geoparse.Annotation, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls++
	if len(f.responses) > 0 {
		resp := f.responses[0]
		f.responses = f.responses[1:]
		return resp, nil
	}
	return nil, nil
}

type testHarness struct {
	pipeline     *Pipeline
	articlesBuf  *bytes.Buffer
	locationsBuf *bytes.Buffer
	logBuf       *bytes.Buffer
}

func newHarness(t *testing.T, dir string, annotator geoparse.Annotator, opts Options) *testHarness {
	t.Helper()

	registry := schemas.NewRegistry()
	registry.Register(jats.New())
	registry.Register(elsevier.New())

	var articlesBuf, locationsBuf, logBuf bytes.Buffer
	articles, err := output.NewArticlesWriter(&articlesBuf)
	require.NoError(t, err)
	locations, err := output.NewLocationsWriter(&locationsBuf, annotator.Parser())
	require.NoError(t, err)

	opts.InputDir = dir
	p := New(registry, annotator, articles, locations,
		output.NewRunLog(&logBuf), zerolog.Nop(), nil, opts)

	return &testHarness{
		pipeline:     p,
		articlesBuf:  &articlesBuf,
		locationsBuf: &locationsBuf,
		logBuf:       &logBuf,
	}
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestRunMixedDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"01_good.xml":      goodArticleXML,
		"02_noauthors.xml": noAuthorsXML,
		"03_unknown.xml":   unknownXML,
		"notes.txt":        "ignored, not xml",
	})

	annotator := &fakeAnnotator{
		parser: domain.ParserSpacyLG,
		responses: [][]geoparse.Annotation{
			{geoparse.CoordinateAnnotation{Coordinates: "44.17,-112.23", Text: "Dubois, Idaho", Type: "GPE"}},
		},
	}

	h := newHarness(t, dir, annotator, Options{AllArticles: true})
	counts, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, counts.Articles)
	assert.Equal(t, 0, counts.Errors)
	assert.Equal(t, 1, counts.NoAuthors)
	assert.Equal(t, 1, counts.SkippedUnknown)
	assert.Equal(t, 1, counts.ArticlesWritten)
	assert.Equal(t, 1, counts.GeoTagged)
	assert.Equal(t, 1, counts.Locations)

	// Only the good article reached the annotation gateway: title, abstract,
	// and one body section.
	assert.Equal(t, 3, annotator.calls)

	articleRows, err := csv.NewReader(h.articlesBuf).ReadAll()
	require.NoError(t, err)
	require.Len(t, articleRows, 2)
	assert.Equal(t, "10.1/good", articleRows[1][0])
	assert.Equal(t, "Smith, J", articleRows[1][6])

	locationRows, err := csv.NewReader(h.locationsBuf).ReadAll()
	require.NoError(t, err)
	// Header plus one found record and two placeholders.
	require.Len(t, locationRows, 4)
	assert.Equal(t, "True", locationRows[1][7])
	assert.Equal(t, "False", locationRows[2][7])
	assert.Equal(t, "False", locationRows[3][7])

	logText := h.logBuf.String()
	assert.Contains(t, logText, "Processing 01_good.xml")
	assert.Contains(t, logText, "No authors found for 02_noauthors.xml. Skipping this article.")
	assert.Contains(t, logText, "Unknown XML format in 03_unknown.xml. Skipping this article.")
}

func TestRunOnlyGeotaggedWritten(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"01_good.xml": goodArticleXML})

	// No annotations at all: every segment gets a placeholder record.
	annotator := &fakeAnnotator{parser: domain.ParserSpacyLG}

	h := newHarness(t, dir, annotator, Options{AllArticles: false})
	counts, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, counts.Articles)
	assert.Equal(t, 0, counts.ArticlesWritten)
	assert.Equal(t, 0, counts.GeoTagged)
	assert.Equal(t, 0, counts.Locations)

	articleRows, err := csv.NewReader(h.articlesBuf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, articleRows, 1, "header only")
}

func TestRunGatewayFailureStillWritesArticle(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"01_good.xml": goodArticleXML})

	annotator := &fakeAnnotator{
		parser: domain.ParserStanza,
		err:    errors.New("connection refused"),
	}

	h := newHarness(t, dir, annotator, Options{AllArticles: true})
	counts, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, counts.Errors)
	// The article row and the location failure are independent.
	assert.Equal(t, 1, counts.ArticlesWritten)

	assert.Contains(t, h.logBuf.String(), "Error in parsing article text for place names: 01_good.xml")
}

func TestRunCollectionKeyword(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"01_good.xml": goodArticleXML})

	annotator := &fakeAnnotator{parser: domain.ParserSpacyLG}
	h := newHarness(t, dir, annotator, Options{AllArticles: true, CollectionKeyword: "rangelands"})
	_, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	articleRows, err := csv.NewReader(h.articlesBuf).ReadAll()
	require.NoError(t, err)
	require.Len(t, articleRows, 2)
	assert.Equal(t, "rangelands", articleRows[1][13])
	assert.Equal(t, "False", articleRows[1][14])
}

func TestRunMissingInputDir(t *testing.T) {
	annotator := &fakeAnnotator{parser: domain.ParserSpacyLG}
	h := newHarness(t, filepath.Join(t.TempDir(), "absent"), annotator, Options{AllArticles: true})

	_, err := h.pipeline.Run(context.Background())
	require.Error(t, err)
}

func TestRunContextCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"01_good.xml": goodArticleXML})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	annotator := &fakeAnnotator{parser: domain.ParserSpacyLG, err: ctx.Err()}
	h := newHarness(t, dir, annotator, Options{AllArticles: true})

	_, err := h.pipeline.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
