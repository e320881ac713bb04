package domain

import (
	"fmt"
	"math"
	"strings"
)

// ExtractionSettings are the backend's extraction parameters.
type ExtractionSettings struct {
	DetectDuplicates bool   `json:"detect_duplicates"`
	CodePrefix       string `json:"code_prefix"`
	AsteriskPrefix   string `json:"asterisk_prefix"`
	TildePrefix      string `json:"tilde_prefix"`
	EmptyPrefix      string `json:"empty_prefix"`
}

// DefaultExtractionSettings returns the values used before the backend
// answers.
func DefaultExtractionSettings() ExtractionSettings {
	return ExtractionSettings{
		DetectDuplicates: true,
		CodePrefix:       "RENPY_CODE_001",
		AsteriskPrefix:   "RENPY_ASTERISK_001",
		TildePrefix:      "RENPY_TILDE_001",
		EmptyPrefix:      "RENPY_EMPTY",
	}
}

// ExtractionSettingsPatch is a partial update; nil fields are left alone.
type ExtractionSettingsPatch struct {
	DetectDuplicates *bool   `json:"detect_duplicates,omitempty"`
	CodePrefix       *string `json:"code_prefix,omitempty"`
	AsteriskPrefix   *string `json:"asterisk_prefix,omitempty"`
	TildePrefix      *string `json:"tilde_prefix,omitempty"`
	EmptyPrefix      *string `json:"empty_prefix,omitempty"`
}

// Apply returns s with the patch applied.
func (p ExtractionSettingsPatch) Apply(s ExtractionSettings) ExtractionSettings {
	if p.DetectDuplicates != nil {
		s.DetectDuplicates = *p.DetectDuplicates
	}
	if p.CodePrefix != nil {
		s.CodePrefix = *p.CodePrefix
	}
	if p.AsteriskPrefix != nil {
		s.AsteriskPrefix = *p.AsteriskPrefix
	}
	if p.TildePrefix != nil {
		s.TildePrefix = *p.TildePrefix
	}
	if p.EmptyPrefix != nil {
		s.EmptyPrefix = *p.EmptyPrefix
	}
	return s
}

// ExtractionResult lists the files an extraction produced and what it
// counted.
type ExtractionResult struct {
	DialogueFile   string `json:"dialogue_file"`
	DoublonsFile   string `json:"doublons_file,omitempty"`
	AsterixFile    string `json:"asterix_file,omitempty"`
	PositionsFile  string `json:"positions_file"`
	OutputFolder   string `json:"output_folder"`
	ExtractedCount int    `json:"extracted_count"`
	AsterixCount   int    `json:"asterix_count"`
	TildeCount     int    `json:"tilde_count"`
	EmptyCount     int    `json:"empty_count"`
	DuplicateCount int    `json:"duplicate_count"`
}

// FilesToOpen returns the dialogue, duplicates and asterisk files, in
// that order, skipping the ones not produced.
func (r ExtractionResult) FilesToOpen() []string {
	var files []string
	for _, f := range []string{r.DialogueFile, r.DoublonsFile, r.AsterixFile} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

// Summary joins the non-zero counts, e.g. "120 dialogues | 3 doublons".
func (r ExtractionResult) Summary() string {
	var parts []string
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	add(r.ExtractedCount, "dialogues")
	add(r.AsterixCount, "astérisques")
	add(r.TildeCount, "tildes")
	add(r.EmptyCount, "textes vides")
	add(r.DuplicateCount, "doublons")
	return strings.Join(parts, " | ")
}

// RunStats counts the outcomes of a store operation.
type RunStats struct {
	Total       int
	Successful  int
	Failed      int
	SuccessRate float64 // percent
}

// NewRunStats computes the success rate.
func NewRunStats(successful, failed int) RunStats {
	total := successful + failed
	st := RunStats{Total: total, Successful: successful, Failed: failed}
	if total > 0 {
		st.SuccessRate = float64(successful) / float64(total) * 100
	}
	return st
}

// FormatElapsed renders a duration in milliseconds: "850ms" below one
// second, "1.25s" above.
func FormatElapsed(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", int64(math.Round(ms)))
	}
	return fmt.Sprintf("%.2fs", ms/1000)
}
