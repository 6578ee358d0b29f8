package app

import (
	"context"
	"fmt"
	"time"

	"tide_notification_bot/internal/domain/location"
	"tide_notification_bot/internal/domain/tide"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// TideService looks up forecasts for directory regions and assembles reports.
type TideService struct {
	provider    tide.Provider
	dir         *location.Directory
	concurrency int
	now         func() time.Time
	logger      *logrus.Entry
}

// NewTideService creates the service. concurrency bounds how many region
// lookups of a county report run at once; 1 keeps them strictly sequential.
func NewTideService(provider tide.Provider, dir *location.Directory, concurrency int, logger *logrus.Entry) *TideService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &TideService{
		provider:    provider,
		dir:         dir,
		concurrency: concurrency,
		now:         time.Now,
		logger:      logger,
	}
}

// WithClock replaces the time source, for tests.
func (s *TideService) WithClock(now func() time.Time) *TideService {
	s.now = now
	return s
}

// Directory returns the location directory the service validates against.
func (s *TideService) Directory() *location.Directory {
	return s.dir
}

// LookupDay fetches and renders one region for one date. Failures are
// carried in the returned block instead of being returned.
func (s *TideService) LookupDay(ctx context.Context, date string, region location.Region) tide.DayBlock {
	block := tide.DayBlock{Date: date}

	forecast, err := s.provider.FetchDaily(ctx, date, region.ID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"region":    region.Name,
			"region_id": region.ID,
			"date":      date,
		}).WithError(err).Warn("Tide lookup failed")
		block.Err = err
		return block
	}

	block.Forecast = forecast
	block.Header = FormatHeader(forecast)
	block.Body = FormatTable(forecast.Events)
	return block
}

func (s *TideService) section(ctx context.Context, region location.Region, today, tomorrow string) tide.RegionSection {
	return tide.RegionSection{
		Region:   region,
		Today:    s.LookupDay(ctx, today, region),
		Tomorrow: s.LookupDay(ctx, tomorrow, region),
	}
}

// CountyReport builds the compound report of every region in county, today
// and tomorrow in Taiwan time. Sections follow directory order whatever order
// the lookups complete in. An unknown county yields an empty report and ErrUnknownCounty.
func (s *TideService) CountyReport(ctx context.Context, county string) (*tide.CountyReport, error) {
	today, tomorrow := tide.TodayAndTomorrow(s.now())
	report := &tide.CountyReport{County: county, Today: today, Tomorrow: tomorrow}

	regions := s.dir.Regions(county)
	if len(regions) == 0 {
		return report, fmt.Errorf("%w: %s", ErrUnknownCounty, county)
	}

	started := time.Now()
	report.Sections = make([]tide.RegionSection, len(regions))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, region := range regions {
		g.Go(func() error {
			report.Sections[i] = s.section(ctx, region, today, tomorrow)
			return nil
		})
	}
	_ = g.Wait() // lookups never return errors; failures live in the blocks

	s.logger.WithFields(logrus.Fields{
		"county":   county,
		"regions":  len(regions),
		"failed":   report.FailedLookups(),
		"duration": time.Since(started).String(),
	}).Info("County report assembled")
	return report, nil
}

// RegionReport builds a single-section report for one region of county.
// regionID must come from the directory.
func (s *TideService) RegionReport(ctx context.Context, county, regionID string) (*tide.CountyReport, error) {
	today, tomorrow := tide.TodayAndTomorrow(s.now())
	report := &tide.CountyReport{County: county, Today: today, Tomorrow: tomorrow}

	region, ok := s.dir.Region(county, regionID)
	if !ok {
		return report, fmt.Errorf("%w: %s/%s", ErrUnknownRegion, county, regionID)
	}
	report.Sections = []tide.RegionSection{s.section(ctx, region, today, tomorrow)}
	return report, nil
}
