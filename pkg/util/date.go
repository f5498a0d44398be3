package util

import (
	"fmt"
	"strconv"
	"time"
)

// TimestampStyle is a Discord timestamp markup style.
type TimestampStyle string

const (
	ShortTime     TimestampStyle = "t"
	LongTime      TimestampStyle = "T"
	ShortDate     TimestampStyle = "d"
	LongDate      TimestampStyle = "D"
	ShortDateTime TimestampStyle = "f"
	LongDateTime  TimestampStyle = "F"
	Relative      TimestampStyle = "R"
)

// DiscordTimestamp renders t as <t:unix:style>, which clients show in the
// reader's own time zone.
//
// Example:
//
//	DiscordTimestamp(time.Unix(1699603200, 0), LongDateTime) // "<t:1699603200:F>"
func DiscordTimestamp(t time.Time, style TimestampStyle) string {
	return "<t:" + strconv.FormatInt(t.Unix(), 10) + ":" + string(style) + ">"
}

// FormatDuration renders a minute count the way moderators read it.
//
// Examples:
//
//	FormatDuration(1)    // "1 minute"
//	FormatDuration(90)   // "1 hour and 30 minutes"
//	FormatDuration(120)  // "2 hours"
//	FormatDuration(1500) // "1 day and 1 hour"
func FormatDuration(minutes int64) string {
	if minutes < 60 {
		return plural(minutes, "minute")
	}
	hours := minutes / 60
	rem := minutes % 60
	if hours < 24 {
		if rem > 0 {
			return plural(hours, "hour") + " and " + plural(rem, "minute")
		}
		return plural(hours, "hour")
	}
	days := hours / 24
	remHours := hours % 24
	if remHours > 0 {
		return plural(days, "day") + " and " + plural(remHours, "hour")
	}
	return plural(days, "day")
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
