package domain

import "sort"

// CoherenceIssue is one inconsistency between a source and a translated
// line.
type CoherenceIssue struct {
	Type       string `json:"type"`
	LineNumber int    `json:"line_number"`
	Message    string `json:"message"`
	OldContent string `json:"old_content,omitempty"`
	NewContent string `json:"new_content,omitempty"`
	File       string `json:"file"`
}

// CoherenceStats totals a coherence run.
type CoherenceStats struct {
	TotalIssues   int            `json:"total_issues"`
	FilesAnalyzed int            `json:"files_analyzed"`
	IssuesByType  map[string]int `json:"issues_by_type"`
}

// CoherenceResult is the outcome of a coherence check.
type CoherenceResult struct {
	Stats        CoherenceStats              `json:"stats"`
	IssuesByFile map[string][]CoherenceIssue `json:"issues_by_file"`
	TargetPath   string                      `json:"target_path"`
	RapportPath  string                      `json:"rapport_path,omitempty"`
}

// DistinctIssueTypes counts the issue types that occurred at least once.
func (r CoherenceResult) DistinctIssueTypes() int {
	n := 0
	for _, count := range r.Stats.IssuesByType {
		if count > 0 {
			n++
		}
	}
	return n
}

// Files returns the files with issues, sorted.
func (r CoherenceResult) Files() []string {
	files := make([]string, 0, len(r.IssuesByFile))
	for f := range r.IssuesByFile {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Clone returns a deep copy.
func (r *CoherenceResult) Clone() *CoherenceResult {
	if r == nil {
		return nil
	}
	out := *r
	if r.Stats.IssuesByType != nil {
		out.Stats.IssuesByType = make(map[string]int, len(r.Stats.IssuesByType))
		for k, v := range r.Stats.IssuesByType {
			out.Stats.IssuesByType[k] = v
		}
	}
	if r.IssuesByFile != nil {
		out.IssuesByFile = make(map[string][]CoherenceIssue, len(r.IssuesByFile))
		for k, v := range r.IssuesByFile {
			out.IssuesByFile[k] = append([]CoherenceIssue(nil), v...)
		}
	}
	return &out
}

// CoherenceOptions selects which checks the backend runs.
type CoherenceOptions struct {
	CheckVariables       bool     `json:"check_variables"`
	CheckTags            bool     `json:"check_tags"`
	CheckUntranslated    bool     `json:"check_untranslated"`
	CheckEllipsis        bool     `json:"check_ellipsis"`
	CheckEscapeSequences bool     `json:"check_escape_sequences"`
	CheckPercentages     bool     `json:"check_percentages"`
	CheckQuotations      bool     `json:"check_quotations"`
	CheckParentheses     bool     `json:"check_parentheses"`
	CheckSyntax          bool     `json:"check_syntax"`
	CheckDeeplEllipsis   bool     `json:"check_deepl_ellipsis"`
	CheckIsolatedPercent bool     `json:"check_isolated_percent"`
	CheckFrenchQuotes    bool     `json:"check_french_quotes"`
	CheckLineStructure   bool     `json:"check_line_structure"`
	CustomExclusions     []string `json:"custom_exclusions"`
}

// DefaultCoherenceOptions enables every check.
func DefaultCoherenceOptions() CoherenceOptions {
	o := CoherenceOptions{
		CustomExclusions: []string{"OK", "Menu", "Continue", "Yes", "No"},
	}
	o.SetAll(true)
	return o
}

// SetAll toggles every check; exclusions are kept.
func (o *CoherenceOptions) SetAll(enabled bool) {
	for _, f := range o.checks() {
		*f = enabled
	}
}

// CheckKeys lists the check option names in display order.
func CheckKeys() []string {
	return []string{
		"check_variables", "check_tags", "check_untranslated", "check_ellipsis",
		"check_escape_sequences", "check_percentages", "check_quotations",
		"check_parentheses", "check_syntax", "check_deepl_ellipsis",
		"check_isolated_percent", "check_french_quotes", "check_line_structure",
	}
}

// Check returns a pointer to the named check, or nil.
func (o *CoherenceOptions) Check(key string) *bool {
	for i, k := range CheckKeys() {
		if k == key {
			return o.checks()[i]
		}
	}
	return nil
}

// checks follows the order of CheckKeys.
func (o *CoherenceOptions) checks() []*bool {
	return []*bool{
		&o.CheckVariables, &o.CheckTags, &o.CheckUntranslated, &o.CheckEllipsis,
		&o.CheckEscapeSequences, &o.CheckPercentages, &o.CheckQuotations,
		&o.CheckParentheses, &o.CheckSyntax, &o.CheckDeeplEllipsis,
		&o.CheckIsolatedPercent, &o.CheckFrenchQuotes, &o.CheckLineStructure,
	}
}

// Clone returns a deep copy.
func (o CoherenceOptions) Clone() CoherenceOptions {
	o.CustomExclusions = append([]string(nil), o.CustomExclusions...)
	return o
}
