package geoparse

import "github.com/journalmap/geoparse-service/internal/domain"

// AssembleRecords normalizes one service response for one segment into
// canonical location records. Zero annotations yield exactly one placeholder
// record with Found=false; otherwise one Found=true record per annotation.
// Every record is stamped with the segment's provenance and the parser
// identifier, so document-level location counts are never lost to empty
// responses.
func AssembleRecords(seg domain.Segment, parser domain.Parser, anns []Annotation) []domain.LocationRecord {
	base := domain.LocationRecord{
		SourceFile: seg.SourceFile,
		DOI:        seg.DOI,
		Title:      seg.ArticleTitle,
		Level:      seg.Level,
		Section:    seg.Section,
		CharCount:  seg.CharCount(),
		Parser:     parser,
	}

	if len(anns) == 0 {
		return []domain.LocationRecord{base}
	}

	records := make([]domain.LocationRecord, 0, len(anns))
	for _, ann := range anns {
		rec := base
		rec.Found = true
		ann.apply(&rec)
		records = append(records, rec)
	}
	return records
}
