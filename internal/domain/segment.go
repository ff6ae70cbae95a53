package domain

import "unicode/utf8"

// SegmentLevel tags which part of the article a segment came from.
type SegmentLevel string

const (
	SegmentLevelTitle    SegmentLevel = "title"
	SegmentLevelAbstract SegmentLevel = "abstract"
	SegmentLevelBody     SegmentLevel = "body"
)

// Segment is one unit of article text submitted independently for geoparsing:
// the title, the abstract, or one body section.
type Segment struct {
	// DOI, SourceFile, and ArticleTitle carry provenance onto every
	// location record derived from this segment.
	DOI          string
	SourceFile   string
	ArticleTitle string

	Level   SegmentLevel
	Section string
	Text    string
}

// CharCount returns the length of the segment text in characters.
func (s Segment) CharCount() int {
	return utf8.RuneCountInString(s.Text)
}
