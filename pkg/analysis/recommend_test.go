package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/model"
)

func TestRecommendNilForCleanGroups(t *testing.T) {
	g := analyzeOne(t, []model.WorkOrderRecord{
		record("VN-A321", "21-23", day(1), "RESET CB.", model.ResolutionPilotReport),
		record("VN-A321", "21-23", day(5), "REPLACED VALVE.", model.ResolutionMaintenance),
	})
	if rec := Recommend(g); rec != nil {
		t.Errorf("corrective-ok group should not yield a recommendation, got %+v", rec)
	}
}

func TestRecommendEscalatesOnPilotReports(t *testing.T) {
	g := analyzeOne(t, []model.WorkOrderRecord{
		record("VN-A321", "21-23", day(1), "RESET CB.", model.ResolutionPilotReport),
		record("VN-A321", "21-23", day(5), "RESET CB.", model.ResolutionPilotReport),
	})

	rec := Recommend(g)
	if rec == nil {
		t.Fatal("reset-only repeat should yield a recommendation")
	}
	if !rec.Severe {
		t.Error("2 pilot reports should escalate the advice")
	}
	if rec.PilotReports != 2 {
		t.Errorf("PilotReports = %d, want 2", rec.PilotReports)
	}
	if !strings.Contains(rec.Advice, "Ground the aircraft") {
		t.Errorf("severe advice should call for grounding, got %q", rec.Advice)
	}
	if len(rec.Timeline) != 2 {
		t.Errorf("timeline has %d lines, want 2", len(rec.Timeline))
	}
	if !strings.Contains(rec.Markdown, "VN-A321 / ATA 21-23") {
		t.Errorf("markdown header missing, got %q", rec.Markdown)
	}
}

func TestRecommendNotSevereWithoutPilotReports(t *testing.T) {
	g := analyzeOne(t, []model.WorkOrderRecord{
		record("VN-A321", "21-23", day(1), "RESET CB.", model.ResolutionMaintenance),
		record("VN-A321", "21-23", day(5), "RESET CB.", model.ResolutionMaintenance),
	})

	rec := Recommend(g)
	if rec == nil {
		t.Fatal("reset-only repeat should yield a recommendation")
	}
	if rec.Severe {
		t.Error("no pilot reports should not escalate")
	}
}

func TestTimelineLineFormat(t *testing.T) {
	e := Event{Record: model.WorkOrderRecord{
		WorkOrder:      "WO123",
		Description:    "WO123: PACK 1 FAULT MSG. FULL AUDIT FOLLOWS.",
		Action:         "RESET CB AND OPS TEST OK. SECOND SENTENCE.",
		ResolutionType: model.ResolutionPilotReport,
		ReportedAt:     day(5),
	}}

	got := timelineLine(e)
	want := "05/03 [P] [WO123]: PACK 1 FAULT MSG. -> RESET CB AND OPS TEST OK."
	if got != want {
		t.Errorf("timelineLine = %q, want %q", got, want)
	}
}

func TestFirstSentence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"PACK FAULT. DETAILS FOLLOW.", "PACK FAULT."},
		{"IS IT OK? YES.", "IS IT OK?"},
		{"NO TERMINATOR HERE", "NO TERMINATOR HERE"},
		{"MULTI\nLINE TEXT.", "MULTI LINE TEXT."},
		{"", ""},
		{strings.Repeat("X", 100), strings.Repeat("X", 80) + "..."},
		// Truncation must cut on rune boundaries, not bytes.
		{strings.Repeat("Ü", 100), strings.Repeat("Ü", 80) + "..."},
	}
	for _, tt := range tests {
		got := FirstSentence(tt.in)
		if got != tt.want {
			t.Errorf("FirstSentence(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("FirstSentence(%q) produced invalid UTF-8", tt.in)
		}
	}
}

func TestStripWorkOrderPrefix(t *testing.T) {
	tests := []struct {
		text, wo, want string
	}{
		{"WO123: PACK FAULT.", "WO123", "PACK FAULT."},
		{"[WO123] PACK FAULT.", "WO123", "PACK FAULT."},
		{"wo123 - PACK FAULT.", "WO123", "PACK FAULT."},
		{"PACK FAULT.", "WO123", "PACK FAULT."},
		{"PACK FAULT.", "", "PACK FAULT."},
	}
	for _, tt := range tests {
		if got := StripWorkOrderPrefix(tt.text, tt.wo); got != tt.want {
			t.Errorf("StripWorkOrderPrefix(%q, %q) = %q, want %q", tt.text, tt.wo, got, tt.want)
		}
	}
}

func TestBuildMatrix(t *testing.T) {
	records := []model.WorkOrderRecord{
		// VN-A321 / 21: reset-only repeat.
		record("VN-A321", "21-23", day(1), "RESET CB.", model.ResolutionPilotReport),
		record("VN-A321", "21-23", day(5), "RESET CB.", model.ResolutionPilotReport),
		// VN-A321 / 27: corrective not effective.
		record("VN-A321", "27-51", day(1), "REPLACED ACTUATOR.", model.ResolutionMaintenance),
		record("VN-A321", "27-51", day(8), "RESET CB.", model.ResolutionPilotReport),
		// VN-A322 / 21: clean, must not show up.
		record("VN-A322", "21-23", day(1), "RESET CB.", model.ResolutionPilotReport),
		record("VN-A322", "21-23", day(5), "REPLACED VALVE.", model.ResolutionMaintenance),
	}

	report, err := Analyze(records, Config{Threshold: 2, ExcludeScheduled: true})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	m := BuildMatrix(report)

	if m.Empty() {
		t.Fatal("matrix should not be empty")
	}
	if len(m.Aircraft) != 1 || m.Aircraft[0] != "VN-A321" {
		t.Errorf("aircraft rows = %v, want [VN-A321]", m.Aircraft)
	}
	if len(m.Systems) != 2 {
		t.Fatalf("system columns = %v, want 2 entries", m.Systems)
	}
	if got := m.Cell("VN-A321", "21"); got != SeverityResetRepeat {
		t.Errorf("cell(VN-A321, 21) = %d, want %d", got, SeverityResetRepeat)
	}
	if got := m.Cell("VN-A321", "27"); got != SeverityIneffective {
		t.Errorf("cell(VN-A321, 27) = %d, want %d", got, SeverityIneffective)
	}
	if got := m.Cell("VN-A322", "21"); got != SeverityNone {
		t.Errorf("cell(VN-A322, 21) = %d, want %d", got, SeverityNone)
	}
}

func TestBuildMatrixEmptyReport(t *testing.T) {
	report, err := Analyze(nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if m := BuildMatrix(report); !m.Empty() {
		t.Errorf("empty report should yield an empty matrix, got %+v", m)
	}
}
