package domain

import (
	"fmt"
	"strings"
	"time"
)

// RunRecord is one workflow outcome kept in the local history.
type RunRecord struct {
	ID         string
	EventID    string
	Kind       string // extraction, reconstruction, coherence
	Path       string
	Success    bool
	Detail     string
	Error      string
	OccurredAt time.Time

	// extraction counts, kept so a later process can validate the
	// translation files
	ExtractedCount int
	AsterixCount   int
	TildeCount     int
}

// RunRecordFromEvent converts a workflow event. ok is false for events
// that are not workflow outcomes.
func RunRecordFromEvent(e Event) (rec RunRecord, ok bool) {
	kind, _, found := strings.Cut(string(e.Type), ".")
	if !found {
		return RunRecord{}, false
	}
	rec = RunRecord{
		EventID:    e.ID,
		Kind:       kind,
		OccurredAt: e.OccurredAt,
	}

	switch p := e.Payload.(type) {
	case ExtractionOutcome:
		rec.Path = p.FilePath
		rec.Error = p.Error
		if p.Result != nil {
			rec.Success = true
			rec.Detail = strings.TrimSpace(p.Result.Summary() + " (" + FormatElapsed(p.ElapsedMs) + ")")
			rec.ExtractedCount = p.Result.ExtractedCount
			rec.AsterixCount = p.Result.AsterixCount
			rec.TildeCount = p.Result.TildeCount
		}
	case ReconstructionOutcome:
		rec.Path = p.FilePath
		rec.Error = p.Error
		if p.Result != nil {
			rec.Success = true
			rec.Detail = p.Result.SavePath
		}
	case CoherenceOutcome:
		rec.Path = p.TargetPath
		rec.Error = p.Error
		if p.Result != nil {
			rec.Success = true
			rec.Detail = fmt.Sprintf("%d issue(s) in %d file(s)", p.Result.Stats.TotalIssues, p.Result.Stats.FilesAnalyzed)
		}
	default:
		return RunRecord{}, false
	}
	return rec, true
}
