package tide

import (
	"fmt"
	"strings"

	"tide_notification_bot/internal/domain/location"
)

// DayBlock is the forecast of one region for one date together with its rendering.
// When Err is set the other fields are empty.
type DayBlock struct {
	Date     string
	Forecast *DailyForecast
	Header   string
	Body     string
	Err      error
}

// Failed reports whether the lookup behind the block failed.
func (b DayBlock) Failed() bool {
	return b.Err != nil
}

// Text renders the block, substituting the error label on failure.
func (b DayBlock) Text() string {
	if b.Err != nil {
		return Label(b.Err)
	}
	if b.Header == "" {
		return b.Body
	}
	return b.Header + "\n" + b.Body
}

// RegionSection holds the today and tomorrow blocks of one region.
type RegionSection struct {
	Region   location.Region
	Today    DayBlock
	Tomorrow DayBlock
}

// CountyReport is the compound report of every region in a county.
// It is built per request and never stored.
type CountyReport struct {
	County   string
	Today    string
	Tomorrow string
	Sections []RegionSection
}

// Title is the county-level heading of the report.
func (r *CountyReport) Title() string {
	return fmt.Sprintf("🌊 %s 潮汐預報", r.County)
}

// DateRange is the span of dates covered by the report.
func (r *CountyReport) DateRange() string {
	return fmt.Sprintf("%s ~ %s", r.Today, r.Tomorrow)
}

// FailedLookups counts the day blocks that carry an error.
func (r *CountyReport) FailedLookups() int {
	n := 0
	for _, s := range r.Sections {
		if s.Today.Failed() {
			n++
		}
		if s.Tomorrow.Failed() {
			n++
		}
	}
	return n
}

// PlainText renders the whole report without any chat-specific markup.
func (r *CountyReport) PlainText() string {
	var sb strings.Builder
	sb.WriteString(r.Title())
	sb.WriteString("\n")
	sb.WriteString(r.DateRange())
	sb.WriteString("\n")
	for _, s := range r.Sections {
		sb.WriteString("\n【")
		sb.WriteString(s.Region.Name)
		sb.WriteString("】\n")
		sb.WriteString("今日 ")
		sb.WriteString(s.Today.Text())
		sb.WriteString("\n明日 ")
		sb.WriteString(s.Tomorrow.Text())
		sb.WriteString("\n")
	}
	return sb.String()
}
