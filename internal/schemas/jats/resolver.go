// Package jats resolves NLM/JATS journal publishing XML (the front-matter
// schema) into canonical Articles.
//
// The schema covers the NLM Journal Publishing DTD v2.3/v3.0 and the Journal
// Archiving and Interchange DTD v2.2 families. Bibliographic metadata lives
// under the <front> container; the body is a sequence of <sec> elements whose
// running text is buried in formatting markup.
package jats

import (
	"strings"

	"github.com/journalmap/geoparse-service/internal/domain"
	"github.com/journalmap/geoparse-service/internal/schemas"
	"github.com/journalmap/geoparse-service/internal/xmldoc"
)

// Resolver implements schemas.Resolver for the front-matter schema.
type Resolver struct{}

// Compile-time check that Resolver implements schemas.Resolver.
var _ schemas.Resolver = (*Resolver)(nil)

// New creates a front-matter schema resolver.
func New() *Resolver {
	return &Resolver{}
}

// SchemaType returns the schema this resolver handles.
func (r *Resolver) SchemaType() domain.SchemaType {
	return domain.SchemaFrontMatter
}

// Resolve extracts an Article from a JATS document.
//
// Metadata fields resolve from the <front> container, each independently
// falling back to "" on absence. Abstracts, contributors, keywords, and body
// sections are scanned across the whole document, as some publishers place
// them outside <front>.
func (r *Resolver) Resolve(doc *xmldoc.Node, sourceFile string, opts schemas.Options) (*domain.Article, error) {
	front := doc.Find("front")
	if front == nil {
		return nil, domain.ErrUnknownSchema
	}

	article := domain.NewArticle(
		findTrimmed(front.FindWithAttr("article-id", "pub-id-type", "doi")),
		findTrimmed(front.Find("article-title")),
		yearOf(front),
	)
	article.Schema = domain.SchemaFrontMatter
	article.SourceFile = sourceFile

	article.PublisherName = findText(front.Find("journal-title"))
	article.Volume = findText(front.Find("volume"))
	article.Issue = findText(front.Find("issue"))
	article.StartPage = startPage(front)
	article.EndPage = findText(front.Find("lpage"))

	resolveAbstract(doc, article)

	if err := resolveAuthors(doc, article); err != nil {
		return nil, err
	}

	for _, kwd := range doc.FindAll("kwd") {
		article.AddKeyword(kwd.Text())
	}
	if opts.CollectionKeyword != "" {
		article.AddKeyword(opts.CollectionKeyword)
	}
	if len(article.Keywords) == 0 {
		article.KeywordsMissing = true
	}

	resolveBody(doc, article)

	return article, nil
}

// yearOf resolves the publication year from <pub-date><year>.
func yearOf(front *xmldoc.Node) string {
	pubDate := front.Find("pub-date")
	if pubDate == nil {
		return ""
	}
	return findTrimmed(pubDate.Find("year"))
}

// startPage prefers the explicit <fpage> node and falls back to
// <elocation-id> for electronic-only articles.
func startPage(front *xmldoc.Node) string {
	if fpage := front.Find("fpage"); fpage != nil {
		return fpage.Text()
	}
	return findText(front.Find("elocation-id"))
}

// resolveAbstract scans every <abstract> node in document order. Nodes tagged
// abstract-type="precis" are non-substantive and clear the field instead of
// filling it; the last qualifying node wins. No surviving abstract text sets
// AbstractMissing.
func resolveAbstract(doc *xmldoc.Node, article *domain.Article) {
	for _, a := range doc.FindAll("abstract") {
		if a.Attr("abstract-type") != "precis" {
			article.Abstract = a.Text()
		} else {
			article.Abstract = ""
		}
	}
	if article.Abstract == "" {
		article.AbstractMissing = true
	}
}

// resolveAuthors collects "<surname>, <given-names>" for every <contrib>
// node, de-duplicated in document order. A contributor missing either name
// part aborts author resolution, and zero resolved authors aborts the
// article: both are reported as domain.ErrNoAuthors.
func resolveAuthors(doc *xmldoc.Node, article *domain.Article) error {
	for _, contrib := range doc.FindAll("contrib") {
		surname := contrib.Find("surname")
		given := contrib.Find("given-names")
		if surname == nil || given == nil {
			return domain.ErrNoAuthors
		}
		article.AddAuthor(surname.Text() + ", " + given.Text())
	}
	if len(article.Authors) == 0 {
		return domain.ErrNoAuthors
	}
	return nil
}

// resolveBody assembles the article body from every <sec> element, joining
// the stripped text runs of each with single spaces. Each section also
// becomes a BodySection with its <title> heading; a heading-less section
// keeps an empty title, which segmentation later treats as an error.
func resolveBody(doc *xmldoc.Node, article *domain.Article) {
	var body []string
	for _, sec := range doc.FindAll("sec") {
		runs := sec.StrippedStrings()
		body = append(body, runs...)

		section := domain.Section{Text: strings.Join(runs, " ")}
		if title := sec.Find("title"); title != nil {
			section.Title = title.Text()
		}
		article.BodySections = append(article.BodySections, section)
	}
	article.Body = strings.Join(body, " ")
}

// findText returns the node's raw text, or "" for a nil node.
func findText(n *xmldoc.Node) string {
	if n == nil {
		return ""
	}
	return n.Text()
}

// findTrimmed returns the node's trimmed text, or "" for a nil node.
func findTrimmed(n *xmldoc.Node) string {
	if n == nil {
		return ""
	}
	return n.TrimmedText()
}
