package analysis

import (
	"gonum.org/v1/gonum/stat"
)

// IntervalStats summarizes the gaps between consecutive occurrences of a
// defect, in days. A shrinking interval is usually the first sign that a
// fix is not holding.
type IntervalStats struct {
	Count       int     // number of gaps (occurrences - 1)
	MeanDays    float64
	StdDevDays  float64
	ShortestDay float64 // smallest gap, in days
	LongestDay  float64 // largest gap, in days
}

// computeIntervals derives interval statistics from date-ordered events.
// Groups with fewer than two events have nothing to measure.
func computeIntervals(events []Event) IntervalStats {
	if len(events) < 2 {
		return IntervalStats{}
	}

	gaps := make([]float64, 0, len(events)-1)
	for i := 1; i < len(events); i++ {
		d := events[i].Record.ReportedAt.Sub(events[i-1].Record.ReportedAt).Hours() / 24
		gaps = append(gaps, d)
	}

	s := IntervalStats{
		Count:       len(gaps),
		MeanDays:    stat.Mean(gaps, nil),
		ShortestDay: gaps[0],
		LongestDay:  gaps[0],
	}
	if len(gaps) > 1 {
		s.StdDevDays = stat.StdDev(gaps, nil)
	}
	for _, g := range gaps {
		if g < s.ShortestDay {
			s.ShortestDay = g
		}
		if g > s.LongestDay {
			s.LongestDay = g
		}
	}
	return s
}
