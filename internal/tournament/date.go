package tournament

import (
	"strconv"
	"strings"
	"time"
)

// ParseLocalDateTime parses sheet dates like "2025/08/19 13:00" or
// "2025-08-19" in loc.
//
// The date part may use "/" or "-" as delimiter. A missing or non-numeric
// year, month or day invalidates the whole value. A missing time defaults to
// midnight and unreadable hour or minute components read as zero. Day of month
// is not range checked: "2025/02/31" rolls over the way time.Date does.
func ParseLocalDateTime(text string, loc *time.Location) (time.Time, bool) {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	// Empty pieces are kept so "2025//08" cannot shift 08 into the month.
	ymd := strings.Split(strings.ReplaceAll(parts[0], "-", "/"), "/")
	if len(ymd) < 3 {
		return time.Time{}, false
	}
	var nums [3]int
	for i := range nums {
		n, err := strconv.Atoi(ymd[i])
		if err != nil || n == 0 {
			return time.Time{}, false
		}
		nums[i] = n
	}

	hour, minute := 0, 0
	if len(parts) > 1 {
		hm := strings.Split(parts[1], ":")
		hour, _ = strconv.Atoi(hm[0])
		if len(hm) > 1 {
			minute, _ = strconv.Atoi(hm[1])
		}
	}

	return time.Date(nums[0], time.Month(nums[1]), nums[2], hour, minute, 0, 0, loc), true
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
