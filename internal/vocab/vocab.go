// Package vocab translates between the application-status labels shown on
// recruiter screens and the labels the backend persists. The backend rejects
// display labels, so every outbound status change must pass through
// ToPersisted first.
package vocab

import (
	"strings"

	"careernest/internal/domain/application"
)

var toPersisted = map[string]application.Status{
	"reviewing":   application.StatusReviewed,
	"interviewed": application.StatusShortlisted,
	"accepted":    application.StatusHired,
}

var toDisplay = map[application.Status]string{
	application.StatusReviewed:    "reviewing",
	application.StatusShortlisted: "interviewed",
	application.StatusHired:       "accepted",
}

// ToPersisted maps a display label to its persisted form. Labels outside the
// mapping pass through unchanged, which makes the function idempotent on
// already-persisted input.
func ToPersisted(status string) application.Status {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if mapped, ok := toPersisted[normalized]; ok {
		return mapped
	}
	return application.Status(normalized)
}

// ToDisplay maps a persisted status to the label recruiter screens show.
func ToDisplay(status application.Status) string {
	if mapped, ok := toDisplay[status]; ok {
		return mapped
	}
	return string(status)
}
