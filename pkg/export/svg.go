package export

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/analysis"
)

// Heatmap cell geometry, in pixels.
const (
	cellSize   = 44
	cellGap    = 4
	labelWidth = 90
	labelTop   = 40
	legendPad  = 60
)

var severityFill = map[int]string{
	analysis.SeverityNone:        "#e2e8f0",
	analysis.SeverityResetRepeat: "#f59e0b",
	analysis.SeverityIneffective: "#ef4444",
}

// WriteMatrixSVG renders the aircraft-by-system warning matrix as an SVG
// heatmap. An empty matrix renders a placeholder message.
func WriteMatrixSVG(w io.Writer, m *analysis.Matrix) error {
	canvas := svg.New(w)

	if m.Empty() {
		canvas.Start(420, 100)
		canvas.Text(20, 55, "No recurring defects flagged", "font-family:sans-serif;font-size:16px;fill:#475569")
		canvas.End()
		return nil
	}

	width := labelWidth + len(m.Systems)*(cellSize+cellGap) + cellGap
	height := labelTop + len(m.Aircraft)*(cellSize+cellGap) + legendPad
	canvas.Start(width, height)

	textStyle := "font-family:sans-serif;font-size:12px;fill:#0f172a"
	for c, system := range m.Systems {
		x := labelWidth + c*(cellSize+cellGap) + cellSize/2
		canvas.Text(x, labelTop-12, "ATA "+system, textStyle+";text-anchor:middle")
	}

	for r, aircraft := range m.Aircraft {
		y := labelTop + r*(cellSize+cellGap)
		canvas.Text(8, y+cellSize/2+4, aircraft, textStyle)
		for c := range m.Systems {
			x := labelWidth + c*(cellSize+cellGap)
			fill := severityFill[m.Cells[r][c]]
			canvas.Rect(x, y, cellSize, cellSize, fmt.Sprintf("fill:%s;rx:4", fill))
		}
	}

	legendY := labelTop + len(m.Aircraft)*(cellSize+cellGap) + 24
	legend := []struct {
		severity int
		label    string
	}{
		{analysis.SeverityIneffective, "Corrective not effective"},
		{analysis.SeverityResetRepeat, "Reset-only repeat"},
	}
	x := labelWidth
	for _, item := range legend {
		canvas.Rect(x, legendY-12, 14, 14, "fill:"+severityFill[item.severity])
		canvas.Text(x+20, legendY, item.label, textStyle)
		x += 20 + 8*len(item.label) + 30
	}

	canvas.End()
	return nil
}
