package cwa

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tide_notification_bot/internal/domain/tide"
)

// The envelope mirrors F-A0021-001 with every field optional, so that
// absence can be told apart from an empty value.
type envelope struct {
	Success flexValue `json:"success"`
	Records *records  `json:"records"`
}

type records struct {
	TideForecasts []forecastEntry `json:"TideForecasts"`
}

type forecastEntry struct {
	Location *struct {
		LocationID   *string `json:"LocationId"`
		LocationName *string `json:"LocationName"`
		TimePeriods  *struct {
			Daily []dailyRecord `json:"Daily"`
		} `json:"TimePeriods"`
	} `json:"Location"`
}

type dailyRecord struct {
	Date      *string      `json:"Date"`
	LunarDate *string      `json:"LunarDate"`
	TideRange *string      `json:"TideRange"`
	Time      []tideRecord `json:"Time"`
}

type tideRecord struct {
	DateTime    *string `json:"DateTime"`
	Tide        *string `json:"Tide"`
	TideHeights *struct {
		AboveTWVD       flexValue `json:"AboveTWVD"`
		AboveLocalMSL   flexValue `json:"AboveLocalMSL"`
		AboveChartDatum flexValue `json:"AboveChartDatum"`
	} `json:"TideHeights"`
}

// flexValue keeps the display text of a JSON string or number. Null and any
// other shape (object, array, bool) decode as absent instead of failing the
// whole document.
type flexValue struct {
	text  string
	valid bool
}

func (v *flexValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = flexValue{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = flexValue{text: s, valid: strings.TrimSpace(s) != ""}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*v = flexValue{}
		return nil
	}
	*v = flexValue{text: n.String(), valid: true}
	return nil
}

func (v flexValue) orNA() string {
	if !v.valid {
		return tide.NotAvailable
	}
	return v.text
}

func strOrNA(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return tide.NotAvailable
	}
	return *s
}

// ParseDaily decodes a response body into the first daily forecast it contains.
func ParseDaily(body []byte) (*tide.DailyForecast, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", tide.ErrMalformedResponse, err)
	}

	if !env.Success.valid || env.Success.text != "true" {
		return nil, tide.ErrStatusFailed
	}
	if env.Records == nil || len(env.Records.TideForecasts) == 0 {
		return nil, tide.ErrNoForecast
	}

	// Only the first forecast entry and its first daily record are used.
	loc := env.Records.TideForecasts[0].Location
	if loc == nil || loc.TimePeriods == nil || len(loc.TimePeriods.Daily) == 0 {
		return nil, tide.ErrNoDailyRecord
	}
	daily := loc.TimePeriods.Daily[0]

	forecast := &tide.DailyForecast{
		Date:      strOrNA(daily.Date),
		LunarDate: strOrNA(daily.LunarDate),
		TideRange: strOrNA(daily.TideRange),
		Events:    make([]tide.Event, 0, len(daily.Time)),
	}
	for _, rec := range daily.Time {
		event := tide.Event{
			Time:            tide.NotAvailable,
			State:           strOrNA(rec.Tide),
			AboveTWVD:       tide.NotAvailable,
			AboveLocalMSL:   tide.NotAvailable,
			AboveChartDatum: tide.NotAvailable,
		}
		if rec.DateTime != nil && *rec.DateTime != "" {
			event.Time = ClockTime(*rec.DateTime)
		}
		if h := rec.TideHeights; h != nil {
			event.AboveTWVD = h.AboveTWVD.orNA()
			event.AboveLocalMSL = h.AboveLocalMSL.orNA()
			event.AboveChartDatum = h.AboveChartDatum.orNA()
		}
		forecast.Events = append(forecast.Events, event)
	}
	return forecast, nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ClockTime reformats an upstream timestamp to HH:MM.
// Unparsable input is returned unchanged.
func ClockTime(raw string) string {
	s := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04")
		}
	}
	return raw
}
