package utils

import "time"

// Seoul time location (KST, +09:00)
var krLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Seoul"); err == nil {
		return loc
	}
	return time.FixedZone("KST", 9*3600)
}()

const isoDateLayout = "2006-01-02"

// ParseISODate parses a YYYY-MM-DD calendar date. The zero time plus false
// signals an unparseable value.
func ParseISODate(s string) (time.Time, bool) {
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TripDays returns the inclusive day count between two calendar dates,
// or 0 when the range is inverted.
func TripDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func NowRFC3339() string {
	return time.Now().In(krLoc).Format(time.RFC3339)
}
