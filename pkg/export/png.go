package export

import (
	"io"

	"git.sr.ht/~sbinet/gg"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/analysis"
)

var severityRGB = map[int][3]float64{
	analysis.SeverityNone:        {0.886, 0.910, 0.941},
	analysis.SeverityResetRepeat: {0.961, 0.620, 0.043},
	analysis.SeverityIneffective: {0.937, 0.267, 0.267},
}

// WriteMatrixPNG renders the warning matrix as a PNG heatmap for pasting
// into reports and chat. Layout mirrors the SVG export.
func WriteMatrixPNG(w io.Writer, m *analysis.Matrix) error {
	if m.Empty() {
		dc := gg.NewContext(420, 100)
		dc.SetRGB(1, 1, 1)
		dc.Clear()
		dc.SetRGB(0.28, 0.33, 0.41)
		dc.DrawString("No recurring defects flagged", 20, 55)
		return dc.EncodePNG(w)
	}

	width := labelWidth + len(m.Systems)*(cellSize+cellGap) + cellGap
	height := labelTop + len(m.Aircraft)*(cellSize+cellGap) + legendPad
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0.06, 0.09, 0.16)
	for c, system := range m.Systems {
		x := float64(labelWidth + c*(cellSize+cellGap) + cellSize/2)
		dc.DrawStringAnchored("ATA "+system, x, float64(labelTop-16), 0.5, 0.5)
	}

	for r, aircraft := range m.Aircraft {
		y := labelTop + r*(cellSize+cellGap)
		dc.SetRGB(0.06, 0.09, 0.16)
		dc.DrawStringAnchored(aircraft, 8, float64(y+cellSize/2), 0, 0.5)
		for c := range m.Systems {
			x := labelWidth + c*(cellSize+cellGap)
			rgb := severityRGB[m.Cells[r][c]]
			dc.SetRGB(rgb[0], rgb[1], rgb[2])
			dc.DrawRectangle(float64(x), float64(y), cellSize, cellSize)
			dc.Fill()
		}
	}

	legendY := float64(labelTop + len(m.Aircraft)*(cellSize+cellGap) + 24)
	x := float64(labelWidth)
	for _, item := range []struct {
		severity int
		label    string
	}{
		{analysis.SeverityIneffective, "Corrective not effective"},
		{analysis.SeverityResetRepeat, "Reset-only repeat"},
	} {
		rgb := severityRGB[item.severity]
		dc.SetRGB(rgb[0], rgb[1], rgb[2])
		dc.DrawRectangle(x, legendY-10, 14, 14)
		dc.Fill()
		dc.SetRGB(0.06, 0.09, 0.16)
		dc.DrawStringAnchored(item.label, x+20, legendY-3, 0, 0.5)
		x += 20 + 8*float64(len(item.label)) + 30
	}

	return dc.EncodePNG(w)
}
