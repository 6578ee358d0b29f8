package httpapi

import (
	"net/http"
	"time"

	"tide_notification_bot/internal/app"
	"tide_notification_bot/internal/domain/tide"

	"github.com/gin-gonic/gin"
)

// Handler serves tide reports over HTTP.
type Handler struct {
	tides *app.TideService
}

func NewHandler(tides *app.TideService) *Handler {
	return &Handler{tides: tides}
}

// EventResponse is one tide event.
type EventResponse struct {
	Time            string `json:"time"`
	State           string `json:"state"`
	AboveTWVD       string `json:"above_twvd"`
	AboveLocalMSL   string `json:"above_local_msl"`
	AboveChartDatum string `json:"above_chart_datum"`
}

// DayResponse is one region's forecast for one date. Error carries the
// user-facing label when the lookup failed.
type DayResponse struct {
	Date      string          `json:"date"`
	LunarDate string          `json:"lunar_date,omitempty"`
	TideRange string          `json:"tide_range,omitempty"`
	Events    []EventResponse `json:"events,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type RegionResponse struct {
	Name     string       `json:"name"`
	ID       string       `json:"id"`
	Today    *DayResponse `json:"today,omitempty"`
	Tomorrow *DayResponse `json:"tomorrow,omitempty"`
}

type ReportResponse struct {
	County   string           `json:"county"`
	Today    string           `json:"today"`
	Tomorrow string           `json:"tomorrow"`
	Regions  []RegionResponse `json:"regions"`
	Text     string           `json:"text"`
}

func dayResponse(b tide.DayBlock) *DayResponse {
	d := &DayResponse{Date: b.Date}
	if b.Failed() || b.Forecast == nil {
		d.Error = b.Text()
		return d
	}
	d.LunarDate = b.Forecast.LunarDate
	d.TideRange = b.Forecast.TideRange
	for _, e := range b.Forecast.Events {
		d.Events = append(d.Events, EventResponse{
			Time:            e.Time,
			State:           e.State,
			AboveTWVD:       e.AboveTWVD,
			AboveLocalMSL:   e.AboveLocalMSL,
			AboveChartDatum: e.AboveChartDatum,
		})
	}
	return d
}

func reportResponse(r *tide.CountyReport) ReportResponse {
	resp := ReportResponse{
		County:   r.County,
		Today:    r.Today,
		Tomorrow: r.Tomorrow,
		Regions:  make([]RegionResponse, 0, len(r.Sections)),
		Text:     r.PlainText(),
	}
	for _, s := range r.Sections {
		resp.Regions = append(resp.Regions, RegionResponse{
			Name:     s.Region.Name,
			ID:       s.Region.ID,
			Today:    dayResponse(s.Today),
			Tomorrow: dayResponse(s.Tomorrow),
		})
	}
	return resp
}

// ListCounties handles GET /v1/counties.
func (h *Handler) ListCounties(c *gin.Context) {
	counties := h.tides.Directory().Counties()
	c.JSON(http.StatusOK, gin.H{
		"counties": counties,
		"count":    len(counties),
	})
}

// ListRegions handles GET /v1/counties/:county/regions.
func (h *Handler) ListRegions(c *gin.Context) {
	county := c.Param("county")
	regions := h.tides.Directory().Regions(county)
	if regions == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown county: " + county})
		return
	}

	resp := make([]RegionResponse, len(regions))
	for i, r := range regions {
		resp[i] = RegionResponse{Name: r.Name, ID: r.ID}
	}
	c.JSON(http.StatusOK, gin.H{
		"county":  county,
		"regions": resp,
		"count":   len(resp),
	})
}

// GetCountyReport handles GET /v1/counties/:county/report.
func (h *Handler) GetCountyReport(c *gin.Context) {
	county := c.Param("county")
	if !h.tides.Directory().Has(county) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown county: " + county})
		return
	}

	report, err := h.tides.CountyReport(c.Request.Context(), county)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reportResponse(report))
}

// GetRegionReport handles GET /v1/regions/:id/report.
func (h *Handler) GetRegionReport(c *gin.Context) {
	id := c.Param("id")
	county, region, ok := h.tides.Directory().FindRegion(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown region id: " + id})
		return
	}

	report, err := h.tides.RegionReport(c.Request.Context(), county, region.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reportResponse(report))
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
