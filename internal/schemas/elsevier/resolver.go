// Package elsevier resolves Elsevier full-text XML (the coredata schema)
// into canonical Articles.
//
// Bibliographic metadata lives under the <coredata> container using Dublin
// Core and PRISM element names; the body is carried as a single
// <originalText> container.
package elsevier

import (
	"strings"

	"github.com/journalmap/geoparse-service/internal/domain"
	"github.com/journalmap/geoparse-service/internal/schemas"
	"github.com/journalmap/geoparse-service/internal/xmldoc"
)

// abstractPrefix is the literal heading Elsevier prepends to description
// text; it is stripped before the abstract is stored.
const abstractPrefix = "Abstract"

// Resolver implements schemas.Resolver for the coredata schema.
type Resolver struct{}

// Compile-time check that Resolver implements schemas.Resolver.
var _ schemas.Resolver = (*Resolver)(nil)

// New creates a coredata schema resolver.
func New() *Resolver {
	return &Resolver{}
}

// SchemaType returns the schema this resolver handles.
func (r *Resolver) SchemaType() domain.SchemaType {
	return domain.SchemaCoreData
}

// Resolve extracts an Article from an Elsevier document. Every single-value
// field falls back to "" independently on absence.
func (r *Resolver) Resolve(doc *xmldoc.Node, sourceFile string, opts schemas.Options) (*domain.Article, error) {
	coredata := doc.Find("coredata")
	if coredata == nil {
		return nil, domain.ErrUnknownSchema
	}

	article := domain.NewArticle(
		findText(coredata.Find("doi")),
		findText(coredata.Find("title")),
		coverYear(coredata),
	)
	article.Schema = domain.SchemaCoreData
	article.SourceFile = sourceFile

	article.PublisherName = findText(coredata.Find("publicationName"))
	article.Volume = findText(coredata.Find("volume"))
	article.Issue = findText(coredata.Find("issueIdentifier"))
	article.StartPage = findText(coredata.Find("startingPage"))
	article.EndPage = findText(coredata.Find("endingPage"))

	resolveAbstract(coredata, article)

	for _, kw := range coredata.FindAll("subject") {
		article.AddKeyword(kw.Text())
	}
	if opts.CollectionKeyword != "" {
		article.AddKeyword(opts.CollectionKeyword)
	}
	if len(article.Keywords) == 0 {
		article.KeywordsMissing = true
	}

	if err := resolveAuthors(coredata, article); err != nil {
		return nil, err
	}

	resolveBody(doc, article)

	return article, nil
}

// coverYear takes the leading four characters of the coverDate text
// ("2023-01-15" style) as the publication year.
func coverYear(coredata *xmldoc.Node) string {
	date := findText(coredata.Find("coverDate"))
	if len(date) > 4 {
		return date[:4]
	}
	return date
}

// resolveAbstract stores the description text, stripping the literal
// "Abstract" prefix when present. No surviving text sets AbstractMissing.
func resolveAbstract(coredata *xmldoc.Node, article *domain.Article) {
	desc := coredata.Find("description")
	if desc == nil {
		article.AbstractMissing = true
		return
	}
	text := desc.Text()
	article.Abstract = strings.TrimPrefix(text, abstractPrefix)
	if article.Abstract == "" {
		article.AbstractMissing = true
	}
}

// resolveAuthors collects every <creator> name, de-duplicated in document
// order. Zero resolved authors abort the article with domain.ErrNoAuthors.
func resolveAuthors(coredata *xmldoc.Node, article *domain.Article) error {
	for _, creator := range coredata.FindAll("creator") {
		article.AddAuthor(creator.Text())
	}
	if len(article.Authors) == 0 {
		return domain.ErrNoAuthors
	}
	return nil
}

// resolveBody joins the stripped text runs of the <originalText> container
// with single spaces. Absent or malformed body yields an empty body, not a
// failure. Full-text documents that carry <sec> elements segment the same
// way as the front-matter schema.
func resolveBody(doc *xmldoc.Node, article *domain.Article) {
	if original := doc.Find("originalText"); original != nil {
		article.Body = strings.Join(original.StrippedStrings(), " ")
	}

	for _, sec := range doc.FindAll("sec") {
		section := domain.Section{Text: strings.Join(sec.StrippedStrings(), " ")}
		if title := sec.Find("title"); title != nil {
			section.Title = title.Text()
		}
		article.BodySections = append(article.BodySections, section)
	}
}

// findText returns the node's raw text, or "" for a nil node.
func findText(n *xmldoc.Node) string {
	if n == nil {
		return ""
	}
	return n.Text()
}
