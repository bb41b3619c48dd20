// Package export writes the analysis report to disk: summary and
// red-flag CSVs mirroring the on-screen tables, and the warning matrix as
// SVG and PNG heatmaps.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/analysis"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/model"
)

const dateLayout = "02/01/2006"

// WriteSummaryCSV writes one row per defect group, worst first.
func WriteSummaryCSV(w io.Writer, report *analysis.Report) error {
	cw := csv.NewWriter(w)
	header := []string{"Aircraft", "ATA", "System", "Work Orders", "Dates", "Conclusion", "Recurring", "Mean Interval (days)", "Timeline"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}

	for i := range report.Groups {
		g := &report.Groups[i]
		row := []string{
			g.Aircraft,
			g.ATA,
			g.System,
			strconv.Itoa(g.RepeatCount()),
			joinDates(g),
			g.Conclusion.Label(),
			recurringMark(g),
			meanInterval(g),
			timelineText(g),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRedFlagsCSV writes only the groups needing review, with generated
// recommendations and any stored engineering comments merged in.
func WriteRedFlagsCSV(w io.Writer, report *analysis.Report, stored map[string]model.EngineeringComment) error {
	cw := csv.NewWriter(w)
	header := []string{"Aircraft", "ATA", "System", "Work Orders", "Conclusion", "Assessment", "Recommendation", "Engineering Comment", "Comment Author", "Comment Updated"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write red-flag header: %w", err)
	}

	for _, g := range report.RedFlags() {
		rec := analysis.Recommend(&g)
		if rec == nil {
			continue
		}
		var commentText, commentAuthor, commentUpdated string
		if c, ok := stored[g.Key]; ok {
			commentText = c.Text
			commentAuthor = c.Author
			commentUpdated = c.UpdatedAt.Format(dateLayout)
		}
		row := []string{
			g.Aircraft,
			g.ATA,
			g.System,
			strconv.Itoa(g.RepeatCount()),
			g.Conclusion.Label(),
			rec.Assessment,
			rec.Advice,
			commentText,
			commentAuthor,
			commentUpdated,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write red-flag row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func joinDates(g *analysis.DefectGroup) string {
	dates := make([]string, 0, len(g.Events))
	for _, e := range g.Events {
		dates = append(dates, e.Record.ReportedAt.Format(dateLayout))
	}
	return strings.Join(dates, ", ")
}

func recurringMark(g *analysis.DefectGroup) string {
	if g.Recurring {
		return "yes"
	}
	return ""
}

func meanInterval(g *analysis.DefectGroup) string {
	if g.Intervals.Count == 0 {
		return ""
	}
	return strconv.FormatFloat(g.Intervals.MeanDays, 'f', 1, 64)
}

func timelineText(g *analysis.DefectGroup) string {
	var lines []string
	for _, e := range g.Events {
		desc := analysis.FirstSentence(e.Record.Description)
		action := analysis.FirstSentence(e.Record.Action)
		lines = append(lines, fmt.Sprintf("%s: %s -> %s", e.Record.ReportedAt.Format("02/01"), desc, action))
	}
	return strings.Join(lines, "; ")
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
