package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/model"
)

// Recommendation is the generated engineering guidance for a red-flag
// group: a timeline of what happened, an assessment, and suggested next
// steps. The markdown form feeds the detail panel; the plain form goes
// into exports.
type Recommendation struct {
	Timeline      []string // one line per occurrence, oldest first
	Assessment    string
	Advice        string
	Severe        bool // escalated: repeated pilot reports
	PilotReports  int
	Markdown      string // assembled card for rendering
	TimelinePlain string // newline-joined timeline for exports
}

// severePilotReports is the number of pilot-reported occurrences at which
// the advice escalates to grounding the aircraft for root-cause analysis.
const severePilotReports = 2

// Recommend builds guidance for a group. Returns nil for groups whose
// conclusion needs no action, and for groups below the recurrence gate.
func Recommend(g *DefectGroup) *Recommendation {
	if !g.Recurring || !g.Conclusion.IsRedFlag() {
		return nil
	}

	rec := &Recommendation{PilotReports: g.PilotReports()}
	rec.Severe = rec.PilotReports >= severePilotReports

	for _, e := range g.Events {
		rec.Timeline = append(rec.Timeline, timelineLine(e))
	}
	rec.TimelinePlain = strings.Join(rec.Timeline, "\n")

	switch g.Conclusion {
	case model.ConclusionResetOnlyRepeat:
		rec.Assessment = fmt.Sprintf("ATA %s: recurring defect handled only by reset/ops test so far.", g.ATA)
		if rec.Severe {
			rec.Advice = fmt.Sprintf(
				"%d pilot reports on this defect; it is affecting operations. "+
					"Ground the aircraft for root-cause analysis instead of further reset or swap tests. "+
					"Inspect wiring, connector pins, and the related components.",
				rec.PilotReports)
		} else {
			rec.Advice = "Assess the root cause, check wiring and connector condition, " +
				"and consider proactive replacement to break the failure chain."
		}
	case model.ConclusionCorrectiveNotEffective:
		rec.Assessment = fmt.Sprintf("ATA %s: corrective action taken, but the defect recurred.", g.ATA)
		if rec.Severe {
			rec.Advice = "Defect recurred after repair or replacement. " +
				"Ground the aircraft and re-evaluate the corrective action; the root cause was likely not addressed."
		} else {
			rec.Advice = "Review the effectiveness of the previous action. " +
				"Widen the inspection to adjacent components or run deeper troubleshooting."
		}
	}

	rec.Markdown = buildMarkdown(g, rec)
	return rec
}

func buildMarkdown(g *DefectGroup, rec *Recommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s / ATA %s\n\n", g.Aircraft, g.ATA)
	b.WriteString("**Defect history**\n\n")
	for _, line := range rec.Timeline {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	fmt.Fprintf(&b, "\n**Assessment**: %s\n\n", rec.Assessment)
	fmt.Fprintf(&b, "**Recommendation**: %s\n", rec.Advice)
	if s := rec.statsLine(g); s != "" {
		fmt.Fprintf(&b, "\n*%s*\n", s)
	}
	return b.String()
}

func (rec *Recommendation) statsLine(g *DefectGroup) string {
	if g.Intervals.Count == 0 {
		return ""
	}
	return fmt.Sprintf("%d occurrences over %.0f days, mean interval %.1f days",
		g.RepeatCount(), g.Span().Hours()/24, g.Intervals.MeanDays)
}

// timelineLine renders one occurrence as "02/01 [P] [WO123]: desc -> action".
func timelineLine(e Event) string {
	date := e.Record.ReportedAt.Format("02/01")

	desc := FirstSentence(StripWorkOrderPrefix(e.Record.Description, e.Record.WorkOrder))
	action := FirstSentence(StripWorkOrderPrefix(e.Record.Action, e.Record.WorkOrder))

	parts := []string{date}
	if t := e.Record.ResolutionType; t != model.ResolutionUnknown {
		parts = append(parts, "["+string(t)+"]")
	}
	if e.Record.WorkOrder != "" {
		parts = append(parts, "["+e.Record.WorkOrder+"]")
	}
	line := strings.Join(parts, " ") + ": " + desc
	if action != "" {
		line += " -> " + action
	}
	return line
}

var sentenceEnd = regexp.MustCompile(`[^.!?]*[.!?]`)

// FirstSentence returns text up to and including the first sentence
// terminator, or a truncated prefix when the text never terminates.
func FirstSentence(text string) string {
	text = strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
	if text == "" {
		return ""
	}
	if m := sentenceEnd.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	if runes := []rune(text); len(runes) > 80 {
		return string(runes[:80]) + "..."
	}
	return text
}

var leadingSeparators = regexp.MustCompile(`^[:;\-\s]+`)

// StripWorkOrderPrefix removes a leading repetition of the work-order
// number from free text. Many stations prefix both description and action
// with the WO number, which doubles up in timeline lines.
func StripWorkOrderPrefix(text, wo string) string {
	text = strings.TrimSpace(text)
	if text == "" || wo == "" {
		return text
	}
	pat := regexp.MustCompile(`(?i)^\[?` + regexp.QuoteMeta(strings.TrimSpace(wo)) + `\]?\s*[:;\-\s]*`)
	return leadingSeparators.ReplaceAllString(pat.ReplaceAllString(text, ""), "")
}
