package model

import (
	"strings"
	"time"
)

// EngineeringComment is a persisted free-text assessment entered by an
// engineer for one defect group. Comments are keyed by the group's
// defect-identity key and owned by the comment store; the presenter only
// looks them up.
type EngineeringComment struct {
	ID        int64     `json:"id"`
	GroupKey  string    `json:"group_key"` // aircraft_ata
	Aircraft  string    `json:"aircraft"`
	ATA       string    `json:"ata"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SplitGroupKey separates a defect-identity key back into its aircraft and
// ATA chapter parts. The aircraft registration never contains underscores,
// so the first separator wins.
func SplitGroupKey(key string) (aircraft, ata string) {
	if i := strings.Index(key, "_"); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, ""
}
