package schemas

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journalmap/geoparse-service/internal/domain"
	"github.com/journalmap/geoparse-service/internal/xmldoc"
)

func parse(t *testing.T, src string) *xmldoc.Node {
	t.Helper()
	doc, err := xmldoc.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want domain.SchemaType
	}{
		{"front matter", `<article><front><article-title>x</article-title></front></article>`, domain.SchemaFrontMatter},
		{"coredata", `<full-text-retrieval-response><coredata><doi>10.1/x</doi></coredata></full-text-retrieval-response>`, domain.SchemaCoreData},
		{"front wins over coredata", `<doc><front/><coredata/></doc>`, domain.SchemaFrontMatter},
		{"unknown", `<html><body>not an article</body></html>`, domain.SchemaUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(parse(t, tt.src)))
		})
	}
}

func TestRegistry_UnknownSchema(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Resolve(parse(t, `<html/>`), "f.xml", Options{})
	assert.ErrorIs(t, err, domain.ErrUnknownSchema)
}

type stubResolver struct {
	schema domain.SchemaType
	called bool
}

func (s *stubResolver) Resolve(_ *xmldoc.Node, sourceFile string, _ Options) (*domain.Article, error) {
	s.called = true
	a := domain.NewArticle("10.1/stub", "stub", "2023")
	a.SourceFile = sourceFile
	a.AddAuthor("Stub, S")
	return a, nil
}

func (s *stubResolver) SchemaType() domain.SchemaType { return s.schema }

func TestRegistry_DispatchesByDetectedSchema(t *testing.T) {
	reg := NewRegistry()
	front := &stubResolver{schema: domain.SchemaFrontMatter}
	core := &stubResolver{schema: domain.SchemaCoreData}
	reg.Register(front)
	reg.Register(core)

	article, err := reg.Resolve(parse(t, `<article><front/></article>`), "a.xml", Options{})
	require.NoError(t, err)
	assert.Equal(t, "a.xml", article.SourceFile)
	assert.True(t, front.called)
	assert.False(t, core.called)
}
