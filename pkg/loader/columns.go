package loader

import "strings"

// Canonical column names used internally after header normalization.
const (
	ColAircraft       = "A/C"
	ColATA            = "ATA"
	ColWorkOrder      = "WO"
	ColAction         = "W/O Action"
	ColIssued         = "Issued"
	ColDescription    = "W/O Description"
	ColATADescription = "ATA Description"
	ColType           = "Type"
	ColStation        = "Station"
)

// requiredColumns must all resolve after header normalization or the load
// fails with a ValidationError.
var requiredColumns = []string{ColAircraft, ColATA, ColAction, ColIssued}

// columnAliases maps lowercased header variants seen in the wild to the
// canonical names. Exports vary per station and per system version.
var columnAliases = map[string]string{
	"a/c":      ColAircraft,
	"aircraft": ColAircraft,
	"ac":       ColAircraft,
	"reg":      ColAircraft,

	"ata":         ColATA,
	"ata chapter": ColATA,

	"wo":         ColWorkOrder,
	"w/o":        ColWorkOrder,
	"work order": ColWorkOrder,
	"workorder":  ColWorkOrder,

	"w/o action":        ColAction,
	"w/o_action":        ColAction,
	"work order action": ColAction,
	"action":            ColAction,

	"issued":      ColIssued,
	"issue date":  ColIssued,
	"date issued": ColIssued,
	"issue_date":  ColIssued,
	"issued_date": ColIssued,

	"w/o description":        ColDescription,
	"w/o_description":        ColDescription,
	"work order description": ColDescription,

	"description":     ColATADescription,
	"desc":            ColATADescription,
	"ata description": ColATADescription,

	"type":        ColType,
	"wo type":     ColType,
	"work type":   ColType,
	"wo_type":     ColType,
	"w/o_type":    ColType,
	"record_type": ColType,

	"station": ColStation,
	"stn":     ColStation,
}

// headerIndex maps canonical column names to their position in the CSV
// header row.
type headerIndex map[string]int

// resolveHeader normalizes a raw header row into a headerIndex. When two
// raw headers map to the same canonical name the first occurrence wins,
// except that an exact "w/o description" beats the generic "description".
func resolveHeader(header []string) headerIndex {
	idx := make(headerIndex)
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		canonical, ok := columnAliases[name]
		if !ok {
			continue
		}
		if _, exists := idx[canonical]; exists {
			if canonical == ColDescription && name == "w/o description" {
				idx[canonical] = i
			}
			continue
		}
		idx[canonical] = i
	}
	return idx
}

// missingRequired returns the canonical names of required columns absent
// from the header, in declaration order.
func (h headerIndex) missingRequired() []string {
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := h[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// get returns the trimmed cell for a canonical column, or "" when the
// column is absent or the row is short.
func (h headerIndex) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
