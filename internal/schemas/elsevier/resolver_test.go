package elsevier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journalmap/geoparse-service/internal/domain"
	"github.com/journalmap/geoparse-service/internal/schemas"
	"github.com/journalmap/geoparse-service/internal/xmldoc"
)

const fullArticleXML = `<?xml version="1.0"?>
<full-text-retrieval-response>
<coredata>
<doi>10.1016/j.rama.2023.02.004</doi>
<title>Grazing patterns on semiarid steppe</title>
<coverDate>2023-06-01</coverDate>
<publicationName>Rangeland Ecology and Management</publicationName>
<volume>88</volume>
<issueIdentifier>2</issueIdentifier>
<startingPage>45</startingPage>
<endingPage>57</endingPage>
<description>AbstractWe monitored grazing near Urumqi, China.</description>
<subject>grazing</subject>
<subject>steppe</subject>
<creator>Li, W</creator>
<creator>Hao, X</creator>
<creator>Li, W</creator>
</coredata>
<originalText>Study sites were located on the <b>Xinjiang</b> steppe. Sampling ran from May to September.</originalText>
</full-text-retrieval-response>`

func resolve(t *testing.T, src string, opts schemas.Options) (*domain.Article, error) {
	t.Helper()
	doc, err := xmldoc.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return New().Resolve(doc, "elsevier.xml", opts)
}

func TestResolve_FullArticle(t *testing.T) {
	article, err := resolve(t, fullArticleXML, schemas.Options{})
	require.NoError(t, err)

	assert.Equal(t, "10.1016/j.rama.2023.02.004", article.DOI)
	assert.Equal(t, "Grazing patterns on semiarid steppe", article.Title)
	assert.Equal(t, "2023", article.Year)
	assert.Equal(t, "Rangeland Ecology and Management", article.PublisherName)
	assert.Equal(t, "88", article.Volume)
	assert.Equal(t, "2", article.Issue)
	assert.Equal(t, "45", article.StartPage)
	assert.Equal(t, "57", article.EndPage)
	assert.Equal(t, domain.SchemaCoreData, article.Schema)

	assert.Equal(t, "We monitored grazing near Urumqi, China.", article.Abstract)
	assert.False(t, article.AbstractMissing)

	assert.Equal(t, []string{"Li, W", "Hao, X"}, article.Authors)
	assert.Equal(t, []string{"grazing", "steppe"}, article.Keywords)

	assert.Equal(t,
		"Study sites were located on the Xinjiang steppe. Sampling ran from May to September.",
		article.Body)
	assert.Empty(t, article.BodySections)
}

func TestResolve_AbstractWithoutPrefixKeptVerbatim(t *testing.T) {
	src := `<r><coredata>
<description>We monitored grazing.</description>
<creator>Li, W</creator>
</coredata></r>`

	article, err := resolve(t, src, schemas.Options{})
	require.NoError(t, err)
	assert.Equal(t, "We monitored grazing.", article.Abstract)
}

func TestResolve_MissingDescriptionSetsAbstractMissing(t *testing.T) {
	src := `<r><coredata><creator>Li, W</creator></coredata></r>`

	article, err := resolve(t, src, schemas.Options{})
	require.NoError(t, err)
	assert.Empty(t, article.Abstract)
	assert.True(t, article.AbstractMissing)
}

func TestResolve_ShortCoverDateKeptWhole(t *testing.T) {
	src := `<r><coredata><coverDate>23</coverDate><creator>Li, W</creator></coredata></r>`

	article, err := resolve(t, src, schemas.Options{})
	require.NoError(t, err)
	assert.Equal(t, "23", article.Year)
}

func TestResolve_NoCreatorsAborts(t *testing.T) {
	src := `<r><coredata><title>Orphan</title></coredata></r>`

	_, err := resolve(t, src, schemas.Options{})
	assert.ErrorIs(t, err, domain.ErrNoAuthors)
}

func TestResolve_KeywordsMissingDoesNotAbort(t *testing.T) {
	src := `<r><coredata><creator>Li, W</creator></coredata></r>`

	article, err := resolve(t, src, schemas.Options{})
	require.NoError(t, err)
	assert.True(t, article.KeywordsMissing)
	assert.Equal(t, []string{"Li, W"}, article.Authors)
}

func TestResolve_FullTextSectionsBecomeBodySections(t *testing.T) {
	src := `<r><coredata><creator>Li, W</creator></coredata>
<originalText><sec><title>Study area</title><p>Plots near Hami.</p></sec></originalText></r>`

	article, err := resolve(t, src, schemas.Options{})
	require.NoError(t, err)
	require.Len(t, article.BodySections, 1)
	assert.Equal(t, "Study area", article.BodySections[0].Title)
	assert.Equal(t, "Study area Plots near Hami.", article.BodySections[0].Text)
}
