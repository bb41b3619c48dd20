package analysis

import (
	"testing"
	"time"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/model"
)

func TestClassifyAction(t *testing.T) {
	tests := []struct {
		action string
		want   model.ActionClass
	}{
		{"REPLACED PACK FLOW CONTROL VALVE.", model.ActionCorrective},
		{"RESET CB AND OPS TEST OK.", model.ActionResetOnly},
		{"BITE TEST CARRIED OUT, NIL FAULT.", model.ActionResetOnly},
		{"RECTIFIED WIRING CHAFING.", model.ActionCorrective},
		// Corrective keywords win when both appear.
		{"REPLACED RELAY AND OPS TEST OK.", model.ActionCorrective},
		{"CREW DEBRIEFED.", model.ActionUnknown},
		{"", model.ActionUnknown},
	}

	for _, tt := range tests {
		if got := ClassifyAction(tt.action); got != tt.want {
			t.Errorf("ClassifyAction(%q) = %s, want %s", tt.action, got, tt.want)
		}
	}
}

func analyzeOne(t *testing.T, records []model.WorkOrderRecord) *DefectGroup {
	t.Helper()
	report, err := Analyze(records, Config{Threshold: 2, ExcludeScheduled: true})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(report.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(report.Groups))
	}
	return &report.Groups[0]
}

func TestVerdictsLaterDayMeansIneffective(t *testing.T) {
	// Three occurrences on distinct days: the first two actions were
	// followed by a recurrence, the last has nothing after it.
	g := analyzeOne(t, []model.WorkOrderRecord{
		record("VN-A321", "21-23", day(1), "RESET CB AND OPS TEST OK.", model.ResolutionPilotReport),
		record("VN-A321", "21-23", day(5), "RESET CB AND OPS TEST OK.", model.ResolutionPilotReport),
		record("VN-A321", "21-23", day(9), "RESET CB AND OPS TEST OK.", model.ResolutionPilotReport),
	})

	want := []model.Verdict{model.VerdictIneffective, model.VerdictIneffective, model.VerdictIndeterminate}
	for i, w := range want {
		if g.Events[i].Verdict != w {
			t.Errorf("event[%d] verdict = %s, want %s", i, g.Events[i].Verdict, w)
		}
	}
	if g.Conclusion != model.ConclusionResetOnlyRepeat {
		t.Errorf("conclusion = %s, want %s", g.Conclusion, model.ConclusionResetOnlyRepeat)
	}
}

func TestVerdictFinalCorrectiveResolved(t *testing.T) {
	g := analyzeOne(t, []model.WorkOrderRecord{
		record("VN-A321", "21-23", day(1), "RESET CB AND OPS TEST OK.", model.ResolutionPilotReport),
		record("VN-A321", "21-23", day(5), "REPLACED FLOW CONTROL VALVE.", model.ResolutionMaintenance),
	})

	if got := g.Events[1].Verdict; got != model.VerdictResolved {
		t.Errorf("final corrective verdict = %s, want %s", got, model.VerdictResolved)
	}
	if g.Conclusion != model.ConclusionCorrectiveOK {
		t.Errorf("conclusion = %s, want %s", g.Conclusion, model.ConclusionCorrectiveOK)
	}
}

func TestSingleRecordAlwaysIndeterminate(t *testing.T) {
	g := analyzeOne(t, []model.WorkOrderRecord{
		record("VN-A321", "21-23", day(1), "REPLACED FLOW CONTROL VALVE.", model.ResolutionMaintenance),
	})

	if got := g.Events[0].Verdict; got != model.VerdictIndeterminate {
		t.Errorf("single-record verdict = %s, want %s", got, model.VerdictIndeterminate)
	}
	if g.Conclusion != model.ConclusionSingleEvent {
		t.Errorf("conclusion = %s, want %s", g.Conclusion, model.ConclusionSingleEvent)
	}
}

func TestRecurrenceAfterCorrectiveIsNotEffective(t *testing.T) {
	g := analyzeOne(t, []model.WorkOrderRecord{
		record("VN-A321", "21-23", day(1), "RESET CB.", model.ResolutionPilotReport),
		record("VN-A321", "21-23", day(5), "REPLACED FLOW CONTROL VALVE.", model.ResolutionMaintenance),
		record("VN-A321", "21-23", day(12), "RESET CB AND OPS TEST OK.", model.ResolutionPilotReport),
	})

	if g.Conclusion != model.ConclusionCorrectiveNotEffective {
		t.Errorf("conclusion = %s, want %s", g.Conclusion, model.ConclusionCorrectiveNotEffective)
	}
	if !g.Conclusion.IsRedFlag() {
		t.Error("corrective-not-effective must be a red flag")
	}
}

func TestSameDayFollowUpDoesNotCondemnCorrective(t *testing.T) {
	// A follow-up on the same calendar day is part of the same
	// rectification, not a recurrence.
	sameDay := day(5).Add(6 * time.Hour)
	g := analyzeOne(t, []model.WorkOrderRecord{
		record("VN-A321", "21-23", day(1), "RESET CB.", model.ResolutionPilotReport),
		record("VN-A321", "21-23", day(5), "REPLACED FLOW CONTROL VALVE.", model.ResolutionMaintenance),
		record("VN-A321", "21-23", sameDay, "OPS TEST SATISFACTORY.", model.ResolutionMaintenance),
	})

	if g.Conclusion != model.ConclusionCorrectiveOK {
		t.Errorf("conclusion = %s, want %s", g.Conclusion, model.ConclusionCorrectiveOK)
	}
	if got := g.Events[1].Verdict; got != model.VerdictResolved {
		t.Errorf("corrective verdict = %s, want %s", got, model.VerdictResolved)
	}
}

func TestRedFlagSet(t *testing.T) {
	records := []model.WorkOrderRecord{
		// Reset-only repeat: flagged.
		record("VN-A321", "21-23", day(1), "RESET CB.", model.ResolutionPilotReport),
		record("VN-A321", "21-23", day(5), "RESET CB.", model.ResolutionPilotReport),
		// Corrective OK: not flagged.
		record("VN-A322", "27-51", day(1), "RESET CB.", model.ResolutionPilotReport),
		record("VN-A322", "27-51", day(5), "REPLACED ACTUATOR.", model.ResolutionMaintenance),
		// Single event: not flagged.
		record("VN-A323", "29-10", day(1), "RESET CB.", model.ResolutionPilotReport),
	}

	report, err := Analyze(records, Config{Threshold: 2, ExcludeScheduled: true})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	flagged := report.RedFlags()
	if len(flagged) != 1 {
		t.Fatalf("expected 1 red flag, got %d", len(flagged))
	}
	if flagged[0].Key != "VN-A321_21-23" {
		t.Errorf("flagged group = %s, want VN-A321_21-23", flagged[0].Key)
	}
}
