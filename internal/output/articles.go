// Package output writes the pipeline's persistent artifacts: the articles
// CSV, the per-parser locations CSV, and the free-text run log.
package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/journalmap/geoparse-service/internal/domain"
)

// articlesHeader is the fixed column set of the articles CSV. The
// publisher_abbreviation and url columns are always empty placeholders.
var articlesHeader = []string{
	"doi",
	"publisher_name",
	"publisher_abbreviation",
	"citation",
	"title",
	"publish_year",
	"first_author",
	"authors_list",
	"volume_issue_pages",
	"volume",
	"issue",
	"start_page",
	"end_page",
	"keywords_list",
	"no_keywords_list",
	"abstract",
	"no_abstract",
	"url",
}

// ArticlesWriter writes article records to a CSV stream in traversal order.
type ArticlesWriter struct {
	w *csv.Writer
}

// NewArticlesWriter creates a writer and emits the header row.
func NewArticlesWriter(w io.Writer) (*ArticlesWriter, error) {
	aw := &ArticlesWriter{w: csv.NewWriter(w)}
	if err := aw.w.Write(articlesHeader); err != nil {
		return nil, err
	}
	aw.w.Flush()
	return aw, aw.w.Error()
}

// Write appends one article row and flushes it, so a crash mid-run loses at
// most the article being written.
func (aw *ArticlesWriter) Write(a *domain.Article) error {
	row := []string{
		a.DOI,
		a.PublisherName,
		"",
		a.BuildCitation(),
		a.Title,
		a.Year,
		a.FirstAuthor(),
		a.FormatAuthors(),
		a.FormatVolIssPg(),
		a.Volume,
		a.Issue,
		a.StartPage,
		a.EndPage,
		a.FormatKeywords(),
		formatBool(a.KeywordsMissing),
		a.Abstract,
		formatBool(a.AbstractMissing),
		"",
	}
	if err := aw.w.Write(row); err != nil {
		return err
	}
	aw.w.Flush()
	return aw.w.Error()
}

// formatBool renders booleans the way the downstream analysis expects them.
func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

// formatFloatPtr renders an optional float, empty when absent.
func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// formatIntPtr renders an optional integer, empty when absent.
func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
