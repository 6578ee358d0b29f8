package tide

import "context"

// NotAvailable replaces any field the upstream response left out.
const NotAvailable = "N/A"

// Event is one high or low water entry of a daily forecast.
// Heights are opaque display values and are never validated.
type Event struct {
	Time            string // HH:MM when the upstream timestamp parsed, raw otherwise
	State           string // upstream label, e.g. 滿潮 / 乾潮
	AboveTWVD       string
	AboveLocalMSL   string
	AboveChartDatum string
}

// DailyForecast is the first daily record of an upstream tide forecast.
type DailyForecast struct {
	Date      string
	LunarDate string
	TideRange string
	Events    []Event
}

// Provider fetches the forecast of one region for one Taiwan calendar date (YYYY-MM-DD).
type Provider interface {
	FetchDaily(ctx context.Context, date, regionID string) (*DailyForecast, error)
}
