package loader

import (
	"regexp"
	"strings"
	"time"
)

// Audit-trail lines the maintenance system appends to description and
// action text. They carry no engineering content and pollute grouping and
// display, so the loader strips them.
var auditLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\s+WORKSTEP\s+ADDED\s+BY\s+\w+\s+ON\s+`),
	regexp.MustCompile(`^ACTION\s+PERFORMED\s+BY\s+\w+\s+ON\s+`),
	regexp.MustCompile(`^DESCRIPTION\s+SIGN\s+\w+`),
	regexp.MustCompile(`^PERFORMED\s+SIGN\s+\w+`),
}

var blankLineRun = regexp.MustCompile(`\n\s*\n+`)

// CleanAuditTrail removes system audit lines from work-order free text and
// collapses the blank lines left behind.
func CleanAuditTrail(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		upper := strings.ToUpper(strings.TrimSpace(line))
		audit := false
		for _, pat := range auditLinePatterns {
			if pat.MatchString(upper) {
				audit = true
				break
			}
		}
		if !audit {
			kept = append(kept, line)
		}
	}

	return blankLineRun.ReplaceAllString(strings.TrimSpace(strings.Join(kept, "\n")), "\n")
}

// dateLayouts are tried in order when parsing the Issued column. Exports
// use day-first dates; ISO forms appear when the sheet was re-saved.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2-Jan-2006",
	"02-Jan-2006",
}

// ParseReportedDate parses the issued date of a work order. Returns the
// zero time and false when no known layout matches.
func ParseReportedDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
