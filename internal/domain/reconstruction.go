package domain

import (
	"path/filepath"
	"strings"
)

// ReconstructionResult is where the translated script was written.
type ReconstructionResult struct {
	SavePath           string  `json:"save_path"`
	SaveMode           string  `json:"save_mode"`
	ReconstructionTime float64 `json:"reconstruction_time"`
}

// FileValidation is the verdict for one translation file.
type FileValidation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidationSummary totals a validation run.
type ValidationSummary struct {
	TotalExpected int      `json:"total_expected"`
	TotalFound    int      `json:"total_found"`
	Errors        []string `json:"errors"`
}

// ValidationResult is the backend's check of the translation files
// against the counts of the prior extraction.
type ValidationResult struct {
	OverallValid   bool                      `json:"overall_valid"`
	FilesValidated map[string]FileValidation `json:"files_validated"`
	Summary        ValidationSummary         `json:"summary"`
}

// Clone returns a deep copy.
func (v *ValidationResult) Clone() *ValidationResult {
	if v == nil {
		return nil
	}
	out := *v
	out.Summary.Errors = append([]string(nil), v.Summary.Errors...)
	if v.FilesValidated != nil {
		out.FilesValidated = make(map[string]FileValidation, len(v.FilesValidated))
		for k, fv := range v.FilesValidated {
			fv.Errors = append([]string(nil), fv.Errors...)
			fv.Warnings = append([]string(nil), fv.Warnings...)
			out.FilesValidated[k] = fv
		}
	}
	return &out
}

// Translation file kinds produced by an extraction.
var translationKinds = []string{"dialogue", "doublons", "asterix"}

// TranslationFiles returns the working files an extraction of
// scriptPath left to translate:
//
//	01_Temporary/{game}/{base}/fichiers_a_traduire/{base}_{kind}.txt
//
// base is the script name without ".rpy"; game is the third path segment
// from the end.
func TranslationFiles(scriptPath string) []string {
	segments := strings.Split(filepath.ToSlash(scriptPath), "/")

	base := strings.Replace(segments[len(segments)-1], ".rpy", "", 1)
	game := ""
	if len(segments) >= 3 {
		game = segments[len(segments)-3]
	}

	folder := "01_Temporary/" + game + "/" + base + "/fichiers_a_traduire"
	files := make([]string, 0, len(translationKinds))
	for _, kind := range translationKinds {
		files = append(files, folder+"/"+base+"_"+kind+".txt")
	}
	return files
}
