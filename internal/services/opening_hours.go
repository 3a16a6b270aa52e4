package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// A day schedule is free text like "Monday: 9:00 AM – 6:00 PM, 2:00 PM – 9:00 PM".
// Ranges are kept as minutes since midnight; an overnight range ("6:00 PM –
// 1:00 AM") gets its close pushed past 1440 so the arithmetic stays linear.

type timeRange struct {
	open  int
	close int
}

var dayRangeRe = regexp.MustCompile(
	`(?i)(\d{1,2}):(\d{2})\s*([AP]\.?M\.?)\s*[–—-]\s*(\d{1,2}):(\d{2})\s*([AP]\.?M\.?)`)

// Google pads times with narrow no-break and thin spaces.
var spaceNormalizer = strings.NewReplacer(" ", " ", " ", " ", " ", " ")

func normalizeScheduleText(s string) string {
	return spaceNormalizer.Replace(s)
}

// stripWeekdayLabel drops a leading "Monday:"-style label. The colon is only
// treated as a label separator when nothing numeric precedes it, so bare
// "9:00 AM – 5:00 PM" text survives.
func stripWeekdayLabel(s string) string {
	i := strings.Index(s, ":")
	if i < 0 {
		return s
	}
	if strings.ContainsAny(s[:i], "0123456789") {
		return s
	}
	return strings.TrimSpace(s[i+1:])
}

// to24Hour applies the noon rule: 12 PM stays 12, 12 AM becomes 0, any other
// PM hour gains 12.
func to24Hour(hour int, meridiem string) int {
	m := strings.ToLower(strings.ReplaceAll(meridiem, ".", ""))
	switch {
	case m == "pm" && hour != 12:
		return hour + 12
	case m == "am" && hour == 12:
		return 0
	default:
		return hour
	}
}

func formatMinutes(mins int) string {
	mins %= 24 * 60
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

func parseTimeRanges(schedule string) []timeRange {
	text := stripWeekdayLabel(normalizeScheduleText(schedule))

	var ranges []timeRange
	for _, m := range dayRangeRe.FindAllStringSubmatch(text, -1) {
		openH, _ := strconv.Atoi(m[1])
		openM, _ := strconv.Atoi(m[2])
		closeH, _ := strconv.Atoi(m[4])
		closeM, _ := strconv.Atoi(m[5])

		r := timeRange{
			open:  to24Hour(openH, m[3])*60 + openM,
			close: to24Hour(closeH, m[6])*60 + closeM,
		}
		if r.close <= r.open {
			r.close += 24 * 60
		}
		ranges = append(ranges, r)
	}
	return ranges
}

func withinRange(r timeRange, mins int) bool {
	m := mins
	if m < r.open {
		m += 24 * 60
	}
	return m >= r.open && m < r.close
}

func minutesUntilClose(r timeRange, mins int) int {
	m := mins
	if m < r.open {
		m += 24 * 60
	}
	return r.close - m
}

func isClosedText(schedule string) bool {
	return strings.Contains(strings.ToLower(schedule), "closed")
}

func isAlwaysOpenText(schedule string) bool {
	return strings.Contains(strings.ToLower(schedule), "24 hours")
}

// scheduleFor indexes Sunday-first weekday rows by time.Weekday.
func scheduleFor(hours []string, day time.Weekday) (string, bool) {
	idx := int(day)
	if idx >= len(hours) {
		return "", false
	}
	s := strings.TrimSpace(hours[idx])
	if s == "" {
		return "", false
	}
	return s, true
}
