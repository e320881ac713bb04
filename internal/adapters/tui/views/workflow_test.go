package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"renextract/internal/application/stores"
	"renextract/internal/domain"
)

func TestLanguageFolder(t *testing.T) {
	st := domain.ProjectState{
		Language: "french",
		AvailableLanguages: []domain.LanguageInfo{
			{Name: "english", Path: "/game/tl/english"},
			{Name: "french", Path: "/game/tl/french"},
		},
	}
	assert.Equal(t, "/game/tl/french", languageFolder(st))

	st.Language = "german"
	assert.Empty(t, languageFolder(st))
}

func TestCopyTarget(t *testing.T) {
	ex := stores.ExtractionState{LastResult: &domain.ExtractionResult{OutputFolder: "/out"}}
	rec := stores.ReconstructionState{LastResult: &domain.ReconstructionResult{SavePath: "/game/script_translated.rpy"}}
	coh := stores.CoherenceState{LastResult: &domain.CoherenceResult{RapportPath: "/reports/r.html"}}

	tests := []struct {
		name string
		ex   stores.ExtractionState
		rec  stores.ReconstructionState
		coh  stores.CoherenceState
		want string
	}{
		{"nothing yet", stores.ExtractionState{}, stores.ReconstructionState{}, stores.CoherenceState{}, ""},
		{"extraction only", ex, stores.ReconstructionState{}, stores.CoherenceState{}, "/out"},
		{"report beats extraction", ex, stores.ReconstructionState{}, coh, "/reports/r.html"},
		{"rebuilt file first", ex, rec, coh, "/game/script_translated.rpy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CopyTarget(tt.ex, tt.rec, tt.coh))
		})
	}
}

func TestRenderExtractionPanel(t *testing.T) {
	st := stores.ExtractionState{
		ExtractionTime: 1530,
		LastResult:     &domain.ExtractionResult{ExtractedCount: 12, TildeCount: 2, OutputFolder: "/out/demo"},
		LastError:      "Fichier introuvable",
	}
	out := RenderExtractionPanel(st, "")

	assert.Contains(t, out, "12 dialogues | 2 tildes")
	assert.Contains(t, out, "1.53s")
	assert.Contains(t, out, "/out/demo")
	assert.Contains(t, out, "Fichier introuvable")
}

func TestRenderReconstructionPanel(t *testing.T) {
	st := stores.ReconstructionState{
		LastResult: &domain.ReconstructionResult{SavePath: "/game/script.rpy"},
		LastValidation: &domain.ValidationResult{
			OverallValid: false,
			Summary:      domain.ValidationSummary{Errors: []string{"3 lignes manquantes"}},
		},
	}
	out := RenderReconstructionPanel(st, "")

	assert.Contains(t, out, "/game/script.rpy")
	assert.Contains(t, out, "3 lignes manquantes")
}

func TestRenderCoherencePanel(t *testing.T) {
	st := stores.CoherenceState{
		CurrentTarget: "/game/tl/french",
		LastResult: &domain.CoherenceResult{
			Stats: domain.CoherenceStats{
				TotalIssues:   5,
				FilesAnalyzed: 2,
				IssuesByType:  map[string]int{"untranslated": 3, "variable_mismatch": 2, "tags_unbalanced": 0},
			},
			RapportPath: "/reports/r.html",
		},
	}
	out := RenderCoherencePanel(st, "")

	assert.Contains(t, out, "/game/tl/french")
	assert.Contains(t, out, "untranslated")
	assert.Contains(t, out, "variable_mismatch")
	assert.NotContains(t, out, "tags_unbalanced")
	assert.Contains(t, out, "/reports/r.html")
}
