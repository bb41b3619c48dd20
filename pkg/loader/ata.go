package loader

import (
	"regexp"
	"strings"
)

// ATA chapters excluded from recurrence analysis: standard practices,
// servicing, placards, cabin equipment, lights, and the structures range.
// Repeats there are routine work, not reliability signal.
var excludedATASystems = map[string]bool{
	"00": true, "05": true, "08": true, "09": true, "10": true,
	"11": true, "12": true, "13": true, "14": true, "15": true,
	"16": true, "17": true, "18": true, "19": true, "25": true,
	"33": true, "50": true, "51": true, "52": true, "53": true,
	"54": true, "55": true, "56": true, "57": true, "58": true,
	"59": true,
}

// Sub-chapter exclusions for ranges that generate constant routine traffic.
var excludedATAPrefixes = []string{"44-2", "23-3", "32-41"}

// FormatATA normalizes an ATA chapter value to xx-xx form. Four digit
// values are split, bare two-digit chapters get a -00 sub-chapter, and
// anything else passes through trimmed.
func FormatATA(raw string) string {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if s == "" {
		return ""
	}
	if strings.Contains(s, "-") {
		return s
	}
	if len(s) == 4 && isDigits(s) {
		return s[:2] + "-" + s[2:]
	}
	if len(s) == 2 {
		return s + "-00"
	}
	return s
}

// SystemCode extracts the 2-digit system code from an ATA chapter in any
// of the accepted forms (21-23, 21, 2123).
func SystemCode(ata string) string {
	s := strings.TrimSpace(ata)
	if s == "" {
		return ""
	}
	if i := strings.Index(s, "-"); i >= 0 {
		return s[:i]
	}
	if len(s) >= 2 {
		return s[:2]
	}
	return s
}

// ShouldExcludeATA reports whether a chapter is outside the scope of
// recurrence analysis.
func ShouldExcludeATA(ata string) bool {
	if strings.TrimSpace(ata) == "" {
		return false
	}
	if excludedATASystems[SystemCode(ata)] {
		return true
	}
	formatted := FormatATA(ata)
	for _, prefix := range excludedATAPrefixes {
		if strings.HasPrefix(formatted, prefix) {
			return true
		}
	}
	return false
}

// Task-manual reference extraction. Troubleshooting references in the
// free text are more reliable than the chapter the station filed the work
// order under, so they take priority when deriving the defect signature.
//
// Priority order: TSM/AFI/FIM, then IPC/IPD, then AMM.
var referenceKeywords = [][]string{
	{"TSM", "AFI", "FIM"},
	{"IPC", "IPD"},
	{"AMM"},
}

var referencePatterns = func() [][]*regexp.Regexp {
	const ata = `(\d{2}-?\d{2})`
	tiers := make([][]*regexp.Regexp, len(referenceKeywords))
	for i, keywords := range referenceKeywords {
		for _, kw := range keywords {
			tiers[i] = append(tiers[i],
				regexp.MustCompile(kw+`\s*:\s*`+ata),
				regexp.MustCompile(kw+`\s+TASK\s+`+ata),
				regexp.MustCompile(kw+`\s+`+ata),
			)
		}
	}
	return tiers
}()

// CorrectATA returns the chapter a work order should be grouped under.
// It scans description and action text for manual references and falls
// back to the filed chapter when none is found.
func CorrectATA(description, action, filedATA string) string {
	combined := strings.ToUpper(description + " " + action)

	for _, tier := range referencePatterns {
		for _, pat := range tier {
			for _, m := range pat.FindAllStringSubmatch(combined, -1) {
				code := strings.ReplaceAll(m[1], "-", "")
				if len(code) >= 4 && isDigits(code) {
					return code[:2] + "-" + code[2:4]
				}
			}
		}
	}
	return FormatATA(filedATA)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
