package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tide_notification_bot/internal/domain/chat"
	"tide_notification_bot/internal/domain/tide"
)

type fetchCall struct {
	date     string
	regionID string
}

// fakeProvider returns canned forecasts and records every call.
type fakeProvider struct {
	mu       sync.Mutex
	calls    []fetchCall
	failures map[string]error // keyed by region id
	delay    func(regionID string) time.Duration
}

func (p *fakeProvider) FetchDaily(ctx context.Context, date, regionID string) (*tide.DailyForecast, error) {
	if p.delay != nil {
		time.Sleep(p.delay(regionID))
	}
	p.mu.Lock()
	p.calls = append(p.calls, fetchCall{date: date, regionID: regionID})
	err := p.failures[regionID]
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &tide.DailyForecast{
		Date:      date,
		LunarDate: "初一",
		TideRange: "中",
		Events: []tide.Event{
			{Time: "06:15", State: "滿潮", AboveTWVD: "150", AboveLocalMSL: "140", AboveChartDatum: "160"},
			{Time: "12:30", State: "乾潮", AboveTWVD: "-80", AboveLocalMSL: "-90", AboveChartDatum: "10"},
		},
	}, nil
}

func (p *fakeProvider) Calls() []fetchCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]fetchCall(nil), p.calls...)
}

type sentReport struct {
	target string
	county string
}

// fakeChat records deliveries and can be told to fail.
type fakeChat struct {
	mu         sync.Mutex
	channels   map[string]string // guild/name -> channel id
	channelErr error
	directErr  error
	toChannel  []sentReport
	direct     []sentReport
}

func (c *fakeChat) ResolveChannel(_ context.Context, guildID, name string) (string, error) {
	if id, ok := c.channels[guildID+"/"+name]; ok {
		return id, nil
	}
	return "", chat.ErrChannelNotFound
}

func (c *fakeChat) SendReportToChannel(_ context.Context, channelID string, report *tide.CountyReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channelErr != nil {
		return c.channelErr
	}
	c.toChannel = append(c.toChannel, sentReport{target: channelID, county: report.County})
	return nil
}

func (c *fakeChat) SendReportDirect(_ context.Context, userID string, report *tide.CountyReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.directErr != nil {
		return c.directErr
	}
	c.direct = append(c.direct, sentReport{target: userID, county: report.County})
	return nil
}

func (c *fakeChat) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.toChannel) + len(c.direct)
}

// fixedClock is a settable clock.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *fixedClock { return &fixedClock{t: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

var errBoom = fmt.Errorf("boom")
