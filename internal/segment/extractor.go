// Package segment partitions canonical articles into the ordered analysis
// units submitted individually to the geoparsing service.
package segment

import (
	"fmt"

	"github.com/journalmap/geoparse-service/internal/domain"
)

// Extract produces the ordered segment sequence for an article: a title
// segment, an abstract segment (both always emitted, even when empty), then
// one body segment per section in document order.
//
// A body section with no heading is an error for that segment, not a default:
// extraction stops there and returns the segments built so far alongside the
// error, so earlier segments are still submitted and the partial output
// contract is preserved.
func Extract(article *domain.Article) ([]domain.Segment, error) {
	segments := []domain.Segment{
		newSegment(article, domain.SegmentLevelTitle, "title", article.Title),
		newSegment(article, domain.SegmentLevelAbstract, "abstract", article.Abstract),
	}

	for i, sec := range article.BodySections {
		if sec.Title == "" {
			return segments, fmt.Errorf("section %d of %q: %w", i+1, article.SourceFile, domain.ErrMissingSectionHeading)
		}
		segments = append(segments, newSegment(article, domain.SegmentLevelBody, sec.Title, sec.Text))
	}

	return segments, nil
}

func newSegment(article *domain.Article, level domain.SegmentLevel, section, text string) domain.Segment {
	return domain.Segment{
		DOI:          article.DOI,
		SourceFile:   article.SourceFile,
		ArticleTitle: article.Title,
		Level:        level,
		Section:      section,
		Text:         text,
	}
}
