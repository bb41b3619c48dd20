// Package analysis implements recurrence detection and effectiveness
// scoring over normalized work-order records. The whole package is
// deterministic and stateless: analyze(records, config) -> Report, with
// group membership a pure function of the defect-identity key.
package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/model"
)

// Config holds the per-run analysis settings.
type Config struct {
	// Threshold is the minimum number of occurrences for a group to be
	// flagged as recurring.
	Threshold int
	// WindowDays limits the earliest-to-latest span of a recurring group.
	// 0 means no window limit.
	WindowDays int
	// ExcludeScheduled drops scheduled (type S) work orders before
	// grouping.
	ExcludeScheduled bool
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Threshold:        2,
		WindowDays:       0,
		ExcludeScheduled: true,
	}
}

// Validate rejects unusable settings before any analysis runs.
func (c Config) Validate() error {
	if c.Threshold < 1 {
		return fmt.Errorf("recurrence threshold must be at least 1, got %d", c.Threshold)
	}
	if c.WindowDays < 0 {
		return fmt.Errorf("lookback window must not be negative, got %d days", c.WindowDays)
	}
	return nil
}

// Event is one work order inside a defect group, with its action
// classification and effectiveness verdict.
type Event struct {
	Record  model.WorkOrderRecord
	Class   model.ActionClass
	Verdict model.Verdict
}

// DefectGroup is the set of work orders sharing one defect-identity key,
// with its derived classification. Recomputed on every run, never
// persisted.
type DefectGroup struct {
	Key        string
	Aircraft   string
	ATA        string // corrected chapter, xx-xx
	System     string // 2-digit system code
	Events     []Event // ordered by reported date ascending
	Conclusion model.Conclusion
	Recurring  bool
	Intervals  IntervalStats
}

// RepeatCount returns the number of work orders in the group.
func (g *DefectGroup) RepeatCount() int { return len(g.Events) }

// FirstAt returns the earliest reported date in the group.
func (g *DefectGroup) FirstAt() time.Time { return g.Events[0].Record.ReportedAt }

// LastAt returns the most recent reported date in the group.
func (g *DefectGroup) LastAt() time.Time { return g.Events[len(g.Events)-1].Record.ReportedAt }

// Span returns the earliest-to-latest duration of the group.
func (g *DefectGroup) Span() time.Duration { return g.LastAt().Sub(g.FirstAt()) }

// PilotReports counts pilot-reported occurrences, used for severity.
func (g *DefectGroup) PilotReports() int {
	n := 0
	for _, e := range g.Events {
		if e.Record.ResolutionType == model.ResolutionPilotReport {
			n++
		}
	}
	return n
}

// Report is the full result of one analysis run.
type Report struct {
	GeneratedAt time.Time
	Config      Config
	// Groups holds every defect group, ordered by descending repeat
	// count, ties broken by most recent occurrence.
	Groups []DefectGroup
	// ExcludedScheduled counts rows dropped by the type-S filter.
	ExcludedScheduled int
}

// RedFlags returns the groups needing engineering review, in report
// order: those that met the recurrence gate (threshold and lookback
// window) and whose conclusion warrants action. Groups below the gate
// keep their conclusion for display but are never flagged.
func (r *Report) RedFlags() []DefectGroup {
	var flagged []DefectGroup
	for _, g := range r.Groups {
		if g.Recurring && g.Conclusion.IsRedFlag() {
			flagged = append(flagged, g)
		}
	}
	return flagged
}

// RecurringCount returns how many groups met the recurrence gate.
func (r *Report) RecurringCount() int {
	n := 0
	for _, g := range r.Groups {
		if g.Recurring {
			n++
		}
	}
	return n
}

// TotalWorkOrders returns the number of records across all groups.
func (r *Report) TotalWorkOrders() int {
	n := 0
	for _, g := range r.Groups {
		n += g.RepeatCount()
	}
	return n
}

// CountByConclusion returns how many groups carry the given conclusion.
func (r *Report) CountByConclusion(c model.Conclusion) int {
	n := 0
	for _, g := range r.Groups {
		if g.Conclusion == c {
			n++
		}
	}
	return n
}

// Analyze groups records by defect identity and scores each group.
// Empty input yields an empty report, not an error.
func Analyze(records []model.WorkOrderRecord, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAt: time.Now(),
		Config:      cfg,
	}

	grouped := make(map[string][]model.WorkOrderRecord)
	var order []string
	for _, rec := range records {
		if cfg.ExcludeScheduled && rec.ResolutionType.IsScheduled() {
			report.ExcludedScheduled++
			continue
		}
		key := rec.GroupKey()
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], rec)
	}

	for _, key := range order {
		report.Groups = append(report.Groups, buildGroup(key, grouped[key], cfg))
	}

	sort.SliceStable(report.Groups, func(i, j int) bool {
		a, b := &report.Groups[i], &report.Groups[j]
		if a.RepeatCount() != b.RepeatCount() {
			return a.RepeatCount() > b.RepeatCount()
		}
		return a.LastAt().After(b.LastAt())
	})

	return report, nil
}

func buildGroup(key string, records []model.WorkOrderRecord, cfg Config) DefectGroup {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].ReportedAt.Equal(records[j].ReportedAt) {
			return records[i].ReportedAt.Before(records[j].ReportedAt)
		}
		return records[i].SourceLine < records[j].SourceLine
	})

	g := DefectGroup{
		Key:      key,
		Aircraft: records[0].Aircraft,
		ATA:      records[0].ATACorrected,
		System:   records[0].ATASystem,
	}
	for _, rec := range records {
		g.Events = append(g.Events, Event{
			Record: rec,
			Class:  ClassifyAction(rec.Action),
		})
	}

	scoreGroup(&g)
	g.Intervals = computeIntervals(g.Events)
	g.Recurring = g.RepeatCount() >= cfg.Threshold && withinWindow(&g, cfg.WindowDays)
	return g
}

func withinWindow(g *DefectGroup, windowDays int) bool {
	if windowDays == 0 {
		return true
	}
	return g.Span() <= time.Duration(windowDays)*24*time.Hour
}
