package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunRecordFromEvent(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		event  Event
		want   RunRecord
		wantOK bool
	}{
		{
			name: "extraction completed",
			event: Event{ID: "e1", Type: EventExtractionCompleted, OccurredAt: at, Payload: ExtractionOutcome{
				FilePath:  "/g/script.rpy",
				Result:    &ExtractionResult{ExtractedCount: 12, TildeCount: 2},
				ElapsedMs: 1530,
			}},
			want: RunRecord{
				EventID: "e1", Kind: "extraction", Path: "/g/script.rpy", Success: true,
				Detail: "12 dialogues | 2 tildes (1.53s)", OccurredAt: at,
				ExtractedCount: 12, TildeCount: 2,
			},
			wantOK: true,
		},
		{
			name: "extraction failed",
			event: Event{ID: "e2", Type: EventExtractionFailed, OccurredAt: at, Payload: ExtractionOutcome{
				FilePath: "/g/script.rpy",
				Error:    "Fichier introuvable",
			}},
			want: RunRecord{
				EventID: "e2", Kind: "extraction", Path: "/g/script.rpy",
				Error: "Fichier introuvable", OccurredAt: at,
			},
			wantOK: true,
		},
		{
			name: "reconstruction completed",
			event: Event{ID: "e3", Type: EventReconstructionCompleted, OccurredAt: at, Payload: ReconstructionOutcome{
				FilePath: "/g/script.rpy",
				Result:   &ReconstructionResult{SavePath: "/g/script_translated.rpy"},
			}},
			want: RunRecord{
				EventID: "e3", Kind: "reconstruction", Path: "/g/script.rpy", Success: true,
				Detail: "/g/script_translated.rpy", OccurredAt: at,
			},
			wantOK: true,
		},
		{
			name: "coherence completed",
			event: Event{ID: "e4", Type: EventCoherenceCompleted, OccurredAt: at, Payload: CoherenceOutcome{
				TargetPath: "/g/tl/french",
				Result:     &CoherenceResult{Stats: CoherenceStats{TotalIssues: 3, FilesAnalyzed: 2}},
			}},
			want: RunRecord{
				EventID: "e4", Kind: "coherence", Path: "/g/tl/french", Success: true,
				Detail: "3 issue(s) in 2 file(s)", OccurredAt: at,
			},
			wantOK: true,
		},
		{
			name:  "unknown payload",
			event: Event{ID: "e5", Type: EventCoherenceFailed, Payload: "oops"},
		},
		{
			name:  "type without kind",
			event: Event{ID: "e6", Type: "ping", Payload: CoherenceOutcome{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RunRecordFromEvent(tt.event)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
