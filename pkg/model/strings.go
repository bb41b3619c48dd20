package model

import "strings"

func normalizeUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
