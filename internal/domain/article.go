// Package domain provides domain models and business logic for the JournalMap
// geoparse service.
package domain

import "strings"

// SchemaType identifies the bibliographic XML schema a document conforms to.
// Detection is a closed classification: documents matching neither known
// schema are tagged SchemaUnknown and skipped.
type SchemaType string

const (
	// SchemaFrontMatter covers NLM/JATS journal publishing XML, recognized
	// by a top-level <front> container.
	SchemaFrontMatter SchemaType = "front-matter"
	// SchemaCoreData covers Elsevier full-text XML, recognized by a
	// top-level <coredata> container.
	SchemaCoreData SchemaType = "coredata"
	// SchemaUnknown is the terminal tag for unrecognized documents.
	SchemaUnknown SchemaType = "unknown"
)

// Section is one body section of an article: its heading text and the
// stripped running text beneath it, in document order.
type Section struct {
	Title string
	Text  string
}

// Article is the canonical, schema-independent record for one document.
// All downstream stages (segmentation, CSV output) consume this shape.
//
// Authors is guaranteed non-empty: construction aborts with ErrNoAuthors
// when zero authors resolve, so an Article never exists without authors.
// Zero keywords only sets KeywordsMissing; the asymmetry is intentional.
type Article struct {
	DOI           string
	Title         string
	Year          string // left as text, not validated as an integer
	PublisherName string
	Volume        string
	Issue         string
	StartPage     string
	EndPage       string

	Abstract        string
	AbstractMissing bool

	Authors         []string
	Keywords        []string
	KeywordsMissing bool

	// Body is the concatenated stripped text of the whole article body.
	Body string
	// BodySections holds each body section in document order. Empty for
	// schemas that carry the body as a single container.
	BodySections []Section

	// Schema is the detected schema the article was resolved from.
	Schema SchemaType
	// SourceFile is the XML file the article came from, for provenance.
	SourceFile string
}

// NewArticle creates an Article from the three leading identity fields.
func NewArticle(doi, title, year string) *Article {
	return &Article{
		DOI:   doi,
		Title: title,
		Year:  year,
	}
}

// AddAuthor appends an author, de-duplicating by exact string match and
// preserving first-seen order.
func (a *Article) AddAuthor(author string) {
	for _, existing := range a.Authors {
		if existing == author {
			return
		}
	}
	a.Authors = append(a.Authors, author)
}

// AddKeyword appends a keyword, de-duplicating by exact string match and
// preserving first-seen order.
func (a *Article) AddKeyword(keyword string) {
	for _, existing := range a.Keywords {
		if existing == keyword {
			return
		}
	}
	a.Keywords = append(a.Keywords, keyword)
}

// FirstAuthor returns the first author, or "" when none exist (which cannot
// happen for a constructed Article).
func (a *Article) FirstAuthor() string {
	if len(a.Authors) == 0 {
		return ""
	}
	return a.Authors[0]
}

// FormatAuthors joins the author list with ", " separators.
func (a *Article) FormatAuthors() string {
	return strings.Join(a.Authors, ", ")
}

// FormatKeywords joins the keyword list with ", " separators.
func (a *Article) FormatKeywords() string {
	return strings.Join(a.Keywords, ", ")
}

// FormatVolIssPg builds the volume/issue/pages string: volume, then "(issue)"
// if the issue is present, then ":start" and "-end" if the pages are present.
// Omitted pieces contribute no punctuation.
func (a *Article) FormatVolIssPg() string {
	var b strings.Builder
	b.WriteString(a.Volume)
	if a.Issue != "" {
		b.WriteString("(")
		b.WriteString(a.Issue)
		b.WriteString(")")
	}
	if a.StartPage != "" {
		b.WriteString(":")
		b.WriteString(a.StartPage)
		if a.EndPage != "" {
			b.WriteString("-")
			b.WriteString(a.EndPage)
		}
	}
	return b.String()
}

// BuildCitation builds the citation string. Empty fields keep their
// surrounding punctuation; downstream consumers depend on the exact format.
func (a *Article) BuildCitation() string {
	return a.FormatAuthors() + ". " + a.Year + ". " + a.Title + ". " + a.PublisherName + ". "
}
