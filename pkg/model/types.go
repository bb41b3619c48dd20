package model

import (
	"fmt"
	"time"
)

// WorkOrderRecord represents a single maintenance work order row from the
// upstream export. Records are constructed once by the loader and never
// mutated afterwards.
type WorkOrderRecord struct {
	Aircraft       string         `json:"aircraft"`
	WorkOrder      string         `json:"work_order"`
	ATA            string         `json:"ata"`           // chapter as it appeared in the export
	ATACorrected   string         `json:"ata_corrected"` // xx-xx, corrected from task references
	ATASystem      string         `json:"ata_system"`    // 2-digit system code of the corrected chapter
	Description    string         `json:"description"`
	Action         string         `json:"action"`
	ResolutionType ResolutionType `json:"resolution_type"`
	Station        string         `json:"station,omitempty"`
	ReportedAt     time.Time      `json:"reported_at"`
	SourceLine     int            `json:"source_line,omitempty"`
}

// Validate checks that a record carries enough identity to be analyzed.
func (r *WorkOrderRecord) Validate() error {
	if r.Aircraft == "" {
		return fmt.Errorf("record missing aircraft registration")
	}
	if r.ATACorrected == "" {
		return fmt.Errorf("record missing defect signature (ATA chapter)")
	}
	if r.ReportedAt.IsZero() {
		return fmt.Errorf("record missing reported date")
	}
	return nil
}

// GroupKey returns the defect-identity key this record belongs to.
// Grouping is a pure function of the key; two records with equal keys are
// treated as the same underlying defect regardless of load order.
func (r *WorkOrderRecord) GroupKey() string {
	return r.Aircraft + "_" + r.ATACorrected
}

// ResolutionType is the single-letter work-order type code from the
// maintenance system.
type ResolutionType string

const (
	ResolutionMaintenance ResolutionType = "M" // maintenance defect
	ResolutionCabin       ResolutionType = "C" // cabin defect
	ResolutionPilotReport ResolutionType = "P" // pilot report
	ResolutionScheduled   ResolutionType = "S" // scheduled work, deferred/planned
	ResolutionUnknown     ResolutionType = ""
)

// IsValid returns true if the resolution type is a recognized code.
func (t ResolutionType) IsValid() bool {
	switch t {
	case ResolutionMaintenance, ResolutionCabin, ResolutionPilotReport, ResolutionScheduled, ResolutionUnknown:
		return true
	}
	return false
}

// IsScheduled returns true for scheduled/deferred work orders, which are
// excluded from recurrence analysis when the exclusion filter is on.
func (t ResolutionType) IsScheduled() bool {
	return t == ResolutionScheduled
}

// NormalizeResolutionType maps full type names from older exports to the
// standard single-letter codes. Already-abbreviated values pass through.
func NormalizeResolutionType(raw string) ResolutionType {
	switch v := ResolutionType(normalizeUpper(raw)); v {
	case ResolutionMaintenance, ResolutionCabin, ResolutionPilotReport, ResolutionScheduled, ResolutionUnknown:
		return v
	}

	switch normalizeUpper(raw) {
	case "MAINTENANCE DEFECT":
		return ResolutionMaintenance
	case "CABIN DEFECT":
		return ResolutionCabin
	case "PILOT REPORT":
		return ResolutionPilotReport
	case "SCHEDULED W/O", "SCHEDULED", "SCHEDULE":
		return ResolutionScheduled
	}
	return ResolutionUnknown
}

// ActionClass categorizes what kind of fix a work-order action describes.
type ActionClass string

const (
	ActionCorrective ActionClass = "corrective" // replace, repair, rework
	ActionResetOnly  ActionClass = "reset_only" // reset, ops test, recycle
	ActionUnknown    ActionClass = "unknown"
)

// Verdict is the effectiveness judgement attached to a single action in a
// defect group's timeline.
type Verdict string

const (
	VerdictResolved      Verdict = "resolved"
	VerdictIneffective   Verdict = "ineffective"
	VerdictIndeterminate Verdict = "indeterminate"
)

// IsValid returns true if the verdict is a recognized value.
func (v Verdict) IsValid() bool {
	switch v {
	case VerdictResolved, VerdictIneffective, VerdictIndeterminate:
		return true
	}
	return false
}

// Conclusion is the group-level classification of a defect history.
type Conclusion string

const (
	// ConclusionSingleEvent marks groups with one record: monitoring only.
	ConclusionSingleEvent Conclusion = "single_event"
	// ConclusionResetOnlyRepeat marks repeats where no corrective action
	// was ever taken, only resets and tests.
	ConclusionResetOnlyRepeat Conclusion = "reset_only_repeat"
	// ConclusionCorrectiveOK marks groups whose last corrective action was
	// not followed by another occurrence.
	ConclusionCorrectiveOK Conclusion = "corrective_ok"
	// ConclusionCorrectiveNotEffective marks groups that recurred on a
	// later day than the last corrective action.
	ConclusionCorrectiveNotEffective Conclusion = "corrective_not_effective"
)

// IsRedFlag returns true for conclusions that warrant engineering review.
func (c Conclusion) IsRedFlag() bool {
	return c == ConclusionResetOnlyRepeat || c == ConclusionCorrectiveNotEffective
}

// Verdict maps the group conclusion onto the effectiveness scale.
func (c Conclusion) Verdict() Verdict {
	switch c {
	case ConclusionCorrectiveOK:
		return VerdictResolved
	case ConclusionResetOnlyRepeat, ConclusionCorrectiveNotEffective:
		return VerdictIneffective
	default:
		return VerdictIndeterminate
	}
}

// Label returns a short human-readable description for display.
func (c Conclusion) Label() string {
	switch c {
	case ConclusionSingleEvent:
		return "Monitoring"
	case ConclusionResetOnlyRepeat:
		return "Reset-only repeat"
	case ConclusionCorrectiveOK:
		return "Fixed effectively"
	case ConclusionCorrectiveNotEffective:
		return "Corrective not effective"
	}
	return string(c)
}
