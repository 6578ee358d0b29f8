package tide

import "time"

// DateLayout is the date format the upstream API expects.
const DateLayout = "2006-01-02"

// Taipei is Taiwan standard time. Taiwan observes no daylight saving,
// so a fixed zone avoids depending on tzdata being installed.
var Taipei = time.FixedZone("Asia/Taipei", 8*60*60)

// Today returns the Taiwan calendar date of now.
func Today(now time.Time) string {
	return now.In(Taipei).Format(DateLayout)
}

// TodayAndTomorrow returns the Taiwan calendar dates of now and the day after.
func TodayAndTomorrow(now time.Time) (string, string) {
	local := now.In(Taipei)
	return local.Format(DateLayout), local.AddDate(0, 0, 1).Format(DateLayout)
}
