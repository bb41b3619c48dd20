package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/analysis"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/model"
)

// GroupRow wraps one defect group for list display and filtering.
type GroupRow struct {
	Group      *analysis.DefectGroup
	HasComment bool
}

// SearchValue is the string fuzzy filtering matches against. Recurring
// groups carry a "recurring" token so they can be filtered as a set.
func (r GroupRow) SearchValue() string {
	parts := []string{
		r.Group.Aircraft,
		r.Group.ATA,
		"ata " + r.Group.System,
		string(r.Group.Conclusion),
		r.Group.Conclusion.Label(),
	}
	if r.Group.Recurring {
		parts = append(parts, "recurring")
	}
	return strings.Join(parts, " ")
}

// Render draws one list row, truncated to width.
func (r GroupRow) Render(width int, selected bool) string {
	badge := conclusionBadge(r.Group)
	note := " "
	if r.HasComment {
		note = "*"
	}
	line := fmt.Sprintf("%s %s %-8s ATA %-6s x%-3d %s",
		badge, note, r.Group.Aircraft, r.Group.ATA, r.Group.RepeatCount(),
		r.Group.LastAt().Format("02/01/06"))
	line = runewidth.Truncate(line, width, "…")

	if selected {
		return SelectedRowStyle.Render(runewidth.FillRight(line, width))
	}
	return line
}

// conclusionBadge colors a group by what it demands: groups below the
// recurrence gate render muted regardless of conclusion.
func conclusionBadge(g *analysis.DefectGroup) string {
	c := g.Conclusion
	if !g.Recurring || c == model.ConclusionSingleEvent {
		return MutedStyle.Render("○")
	}
	style := ConclusionStyle(c.IsRedFlag(), c == model.ConclusionCorrectiveNotEffective)
	return style.Render("●")
}
