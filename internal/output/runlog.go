package output

import (
	"fmt"
	"io"
	"time"
)

// timestampLayout matches the run log's human-readable timestamps.
const timestampLayout = "2006-01-02 15:04:05"

// RunCounts are the process-wide accumulators reported at the end of a run.
// They are touched only from the single processing goroutine.
type RunCounts struct {
	Articles        int // XML files that began processing
	Errors          int // files that hit a processing or write error
	NoAuthors       int // files skipped because no authors resolved
	SkippedUnknown  int // files skipped as unrecognized schema
	ArticlesWritten int // rows written to the articles CSV
	GeoTagged       int // articles with at least one found location
	Locations       int // total found location records
}

// RunLog writes the free-text run summary: a start banner, per-file
// messages, and a final banner with aggregate counts. Messages are written
// as they arrive so the log is useful even when a run dies early.
type RunLog struct {
	w   io.Writer
	now func() time.Time
}

// NewRunLog creates a run log writing to w.
func NewRunLog(w io.Writer) *RunLog {
	return &RunLog{w: w, now: time.Now}
}

// Start writes the opening banner for a run over the given input directory.
func (l *RunLog) Start(runID, dir string) error {
	_, err := fmt.Fprintf(l.w, "Run %s\nStarting processing of %s on %s\n",
		runID, dir, l.now().Format(timestampLayout))
	return err
}

// Message appends one per-file processing message.
func (l *RunLog) Message(format string, args ...any) error {
	_, err := fmt.Fprintf(l.w, "\n"+format, args...)
	return err
}

// Finish writes the closing banner, the aggregate counts, and the list of
// files the run created.
func (l *RunLog) Finish(dir string, counts RunCounts, createdFiles ...string) error {
	lines := []string{
		"",
		"",
		fmt.Sprintf("Finished processing directory %s at %s", dir, l.now().Format(timestampLayout)),
		fmt.Sprintf("Processed %d articles.", counts.Articles),
		fmt.Sprintf("Errors encountered in %d articles.", counts.Errors),
		fmt.Sprintf("%d articles had no authors and were skipped.", counts.NoAuthors),
		fmt.Sprintf("%d articles had an unrecognized schema and were skipped.", counts.SkippedUnknown),
		fmt.Sprintf("%d articles written to the CSV file.", counts.ArticlesWritten),
		fmt.Sprintf("%d articles had parsed coordinates.", counts.GeoTagged),
		fmt.Sprintf("%d total locations found.", counts.Locations),
		"Created output files:",
	}
	lines = append(lines, createdFiles...)

	for _, line := range lines {
		if _, err := fmt.Fprintf(l.w, "\n%s", line); err != nil {
			return err
		}
	}
	return nil
}
