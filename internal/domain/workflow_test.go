package domain

import (
	"reflect"
	"testing"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		ms   float64
		want string
	}{
		{0, "0ms"},
		{12.4, "12ms"},
		{999.4, "999ms"},
		{1000, "1.00s"},
		{1234, "1.23s"},
		{61000, "61.00s"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.ms); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestExtractionResult_Summary(t *testing.T) {
	tests := []struct {
		name string
		r    ExtractionResult
		want string
	}{
		{"empty", ExtractionResult{}, ""},
		{"dialogues only", ExtractionResult{ExtractedCount: 120}, "120 dialogues"},
		{
			"all counts",
			ExtractionResult{ExtractedCount: 10, AsterixCount: 2, TildeCount: 1, EmptyCount: 3, DuplicateCount: 4},
			"10 dialogues | 2 astérisques | 1 tildes | 3 textes vides | 4 doublons",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractionResult_FilesToOpen(t *testing.T) {
	r := ExtractionResult{DialogueFile: "d.txt", AsterixFile: "a.txt", PositionsFile: "p.json"}
	want := []string{"d.txt", "a.txt"}
	if got := r.FilesToOpen(); !reflect.DeepEqual(got, want) {
		t.Errorf("FilesToOpen() = %v, want %v", got, want)
	}
}

func TestExtractionSettingsPatch_Apply(t *testing.T) {
	off := false
	prefix := "CODE_"
	got := ExtractionSettingsPatch{DetectDuplicates: &off, CodePrefix: &prefix}.Apply(DefaultExtractionSettings())

	if got.DetectDuplicates || got.CodePrefix != "CODE_" {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.EmptyPrefix != "RENPY_EMPTY" {
		t.Errorf("untouched field changed: %+v", got)
	}
}

func TestNewRunStats(t *testing.T) {
	if st := NewRunStats(0, 0); st.SuccessRate != 0 || st.Total != 0 {
		t.Errorf("empty stats = %+v", st)
	}
	st := NewRunStats(3, 1)
	if st.Total != 4 || st.SuccessRate != 75 {
		t.Errorf("NewRunStats(3,1) = %+v", st)
	}
}

func TestTranslationFiles(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{
			name: "game tl path",
			path: "/home/me/MyGame/game/tl/french/script.rpy",
			want: []string{
				"01_Temporary/tl/script/fichiers_a_traduire/script_dialogue.txt",
				"01_Temporary/tl/script/fichiers_a_traduire/script_doublons.txt",
				"01_Temporary/tl/script/fichiers_a_traduire/script_asterix.txt",
			},
		},
		{
			name: "short path",
			path: "chapter1.rpy",
			want: []string{
				"01_Temporary//chapter1/fichiers_a_traduire/chapter1_dialogue.txt",
				"01_Temporary//chapter1/fichiers_a_traduire/chapter1_doublons.txt",
				"01_Temporary//chapter1/fichiers_a_traduire/chapter1_asterix.txt",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TranslationFiles(tt.path); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TranslationFiles(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestCoherenceOptions(t *testing.T) {
	o := DefaultCoherenceOptions()
	for _, key := range CheckKeys() {
		if p := o.Check(key); p == nil || !*p {
			t.Errorf("check %s should default to true", key)
		}
	}
	if len(o.CustomExclusions) != 5 {
		t.Errorf("exclusions = %v", o.CustomExclusions)
	}

	o.SetAll(false)
	if o.CheckVariables || o.CheckLineStructure {
		t.Error("SetAll(false) left checks enabled")
	}
	if len(o.CustomExclusions) != 5 {
		t.Error("SetAll must keep exclusions")
	}
	if o.Check("check_colour") != nil {
		t.Error("unknown check should be nil")
	}
}

func TestCoherenceResult_Helpers(t *testing.T) {
	r := CoherenceResult{
		Stats: CoherenceStats{IssuesByType: map[string]int{"variables": 2, "tags": 0, "ellipsis": 1}},
		IssuesByFile: map[string][]CoherenceIssue{
			"b.rpy": {{Type: "tags"}},
			"a.rpy": {{Type: "variables"}},
		},
	}
	if got := r.DistinctIssueTypes(); got != 2 {
		t.Errorf("DistinctIssueTypes() = %d, want 2", got)
	}
	if got := r.Files(); !reflect.DeepEqual(got, []string{"a.rpy", "b.rpy"}) {
		t.Errorf("Files() = %v", got)
	}

	c := r.Clone()
	c.IssuesByFile["a.rpy"][0].Type = "changed"
	if r.IssuesByFile["a.rpy"][0].Type != "variables" {
		t.Error("clone shares issue slices")
	}
}

func TestProjectState_Status(t *testing.T) {
	tests := []struct {
		name  string
		state ProjectState
		want  ProjectStatus
	}{
		{"idle", NewProjectState(), ProjectIdle},
		{"loading wins", ProjectState{IsLoading: true, Error: "x"}, ProjectLoading},
		{"error", ProjectState{Error: "x", ProjectPath: "/p"}, ProjectError},
		{"ready", ProjectState{ProjectPath: "/p"}, ProjectReady},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Status(); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventCoherenceCompleted, CoherenceOutcome{TargetPath: "/p"})
	if e.ID == "" || e.OccurredAt.IsZero() {
		t.Errorf("event not stamped: %+v", e)
	}
	if e.Type != EventCoherenceCompleted {
		t.Errorf("type = %s", e.Type)
	}
}
