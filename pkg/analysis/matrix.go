package analysis

import (
	"sort"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/model"
)

// Severity levels for matrix cells.
const (
	SeverityNone        = 0
	SeverityResetRepeat = 1 // reset-only repeat
	SeverityIneffective = 2 // corrective not effective
)

// Matrix is the aircraft-by-system overview of red-flag defects. Rows are
// aircraft registrations, columns are 2-digit ATA system codes, cells are
// the worst severity seen for that pair.
type Matrix struct {
	Aircraft []string // sorted row labels
	Systems  []string // sorted column labels
	Cells    [][]int  // [aircraft][system] severity
}

// Cell returns the severity for an aircraft/system pair, or SeverityNone
// when either label is absent.
func (m *Matrix) Cell(aircraft, system string) int {
	ai := sort.SearchStrings(m.Aircraft, aircraft)
	si := sort.SearchStrings(m.Systems, system)
	if ai >= len(m.Aircraft) || m.Aircraft[ai] != aircraft ||
		si >= len(m.Systems) || m.Systems[si] != system {
		return SeverityNone
	}
	return m.Cells[ai][si]
}

// Empty reports whether the matrix has no red-flag cells at all.
func (m *Matrix) Empty() bool { return len(m.Aircraft) == 0 }

// BuildMatrix derives the warning matrix from a report's red flags.
func BuildMatrix(report *Report) *Matrix {
	flagged := report.RedFlags()
	if len(flagged) == 0 {
		return &Matrix{}
	}

	aircraftSet := map[string]bool{}
	systemSet := map[string]bool{}
	for _, g := range flagged {
		aircraftSet[g.Aircraft] = true
		systemSet[g.System] = true
	}

	m := &Matrix{
		Aircraft: sortedKeys(aircraftSet),
		Systems:  sortedKeys(systemSet),
	}
	m.Cells = make([][]int, len(m.Aircraft))
	for i := range m.Cells {
		m.Cells[i] = make([]int, len(m.Systems))
	}

	rowOf := indexOf(m.Aircraft)
	colOf := indexOf(m.Systems)
	for _, g := range flagged {
		sev := SeverityResetRepeat
		if g.Conclusion == model.ConclusionCorrectiveNotEffective {
			sev = SeverityIneffective
		}
		r, c := rowOf[g.Aircraft], colOf[g.System]
		if sev > m.Cells[r][c] {
			m.Cells[r][c] = sev
		}
	}
	return m
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func indexOf(labels []string) map[string]int {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return idx
}
