// Package uiutil holds formatting helpers shared by templates and handlers.
package uiutil

import (
	"strconv"
	"strings"
	"time"
)

const (
	FriendlyDateLayout     = "Jan 2, 2006"
	FriendlyDateTimeLayout = "Jan 2, 2006 3:04 PM"
)

// RelativeTime describes how long before now t happened: "Just now" under a
// minute, "Nm ago" under an hour, "Nh ago" under a day, otherwise the date.
// Future times count as "Just now".
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return strconv.Itoa(int(diff.Minutes())) + "m ago"
	case diff < 24*time.Hour:
		return strconv.Itoa(int(diff.Hours())) + "h ago"
	default:
		return t.Local().Format(FriendlyDateLayout)
	}
}

// FormatFriendlyDateTime returns a consistent, user-friendly local timestamp.
func FormatFriendlyDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(FriendlyDateTimeLayout)
}

// Initials returns up to two uppercase initials for an avatar badge.
func Initials(first, last, email string) string {
	var b strings.Builder
	for _, part := range []string{first, last} {
		if r := firstRune(part); r != "" {
			b.WriteString(r)
		}
	}
	if b.Len() == 0 {
		return firstRune(email)
	}
	return b.String()
}

func firstRune(s string) string {
	s = strings.TrimSpace(s)
	for _, r := range s {
		return strings.ToUpper(string(r))
	}
	return ""
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r := []rune(strings.ToLower(s))
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
