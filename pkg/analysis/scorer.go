package analysis

import (
	"strings"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/model"
)

// Keyword lists for action classification. Corrective keywords win over
// reset keywords when both appear: "replaced relay and ops test ok" is a
// corrective action.
var correctiveKeywords = []string{
	"replace", "replaced", "replacement", "rpl",
	"change", "changed", "installation", "install", "installed",
	"repair", "repaired", "fix", "fixed",
	"rectify", "rectified", "wiring", "rewire", "rewired", "chaffing", "chafing",
	"adjust", "adjusted", "modification", "modified", "mod",
	"swap", "swapped",
}

var resetKeywords = []string{
	"reset", "ops test", "operational test", "op test", "bite test",
	"reset cb", "recycle", "power reset", "system reset",
}

// ClassifyAction categorizes a work-order action text as corrective,
// reset-only, or unknown.
func ClassifyAction(action string) model.ActionClass {
	lower := strings.ToLower(action)
	if lower == "" {
		return model.ActionUnknown
	}
	for _, kw := range correctiveKeywords {
		if strings.Contains(lower, kw) {
			return model.ActionCorrective
		}
	}
	for _, kw := range resetKeywords {
		if strings.Contains(lower, kw) {
			return model.ActionResetOnly
		}
	}
	return model.ActionUnknown
}

// scoreGroup assigns per-event verdicts and the group conclusion. Events
// must already be ordered by reported date ascending.
//
// An action is judged against what happened after it, at calendar-day
// granularity: a recurrence on a strictly later day means the action was
// ineffective; a same-day follow-up is part of the same rectification.
func scoreGroup(g *DefectGroup) {
	for i := range g.Events {
		g.Events[i].Verdict = verdictFor(g, i)
	}
	g.Conclusion = concludeGroup(g)
}

func verdictFor(g *DefectGroup, i int) model.Verdict {
	day := dateOf(g.Events[i].Record)
	for j := i + 1; j < len(g.Events); j++ {
		if dateOf(g.Events[j].Record).After(day) {
			return model.VerdictIneffective
		}
	}
	// Nothing recurred after this action. A corrective action with prior
	// history counts as resolving the defect; anything else has too
	// little to conclude from.
	if g.Events[i].Class == model.ActionCorrective && len(g.Events) > 1 {
		return model.VerdictResolved
	}
	return model.VerdictIndeterminate
}

func concludeGroup(g *DefectGroup) model.Conclusion {
	if len(g.Events) == 1 {
		return model.ConclusionSingleEvent
	}

	lastCorrective := -1
	for i, e := range g.Events {
		if e.Class == model.ActionCorrective {
			lastCorrective = i
		}
	}
	if lastCorrective < 0 {
		return model.ConclusionResetOnlyRepeat
	}

	correctiveDay := dateOf(g.Events[lastCorrective].Record)
	for _, e := range g.Events {
		if dateOf(e.Record).After(correctiveDay) {
			return model.ConclusionCorrectiveNotEffective
		}
	}
	return model.ConclusionCorrectiveOK
}

// dateOf truncates a record's reported time to its calendar day.
func dateOf(r model.WorkOrderRecord) dayStamp {
	y, m, d := r.ReportedAt.Date()
	return dayStamp{y, int(m), d}
}

type dayStamp struct{ y, m, d int }

func (a dayStamp) After(b dayStamp) bool {
	if a.y != b.y {
		return a.y > b.y
	}
	if a.m != b.m {
		return a.m > b.m
	}
	return a.d > b.d
}
