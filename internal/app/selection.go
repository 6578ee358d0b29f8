package app

import (
	"sync"
	"time"

	"tide_notification_bot/internal/domain/location"

	"github.com/google/uuid"
)

// SelectionMode chooses between the one-step and two-step menu flows.
type SelectionMode int

const (
	// ModeCountyReport reports on every region as soon as a county is picked.
	ModeCountyReport SelectionMode = iota
	// ModeRegionPick asks for a region after the county and reports on that region only.
	ModeRegionPick
)

type SelectionState int

const (
	StateAwaitingCounty SelectionState = iota
	StateAwaitingRegion
	StateTerminal
)

func (s SelectionState) String() string {
	switch s {
	case StateAwaitingCounty:
		return "awaiting_county"
	case StateAwaitingRegion:
		return "awaiting_region"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// SelectionAction tells the caller what to render after a transition.
type SelectionAction int

const (
	ActionShowRegions SelectionAction = iota + 1
	ActionCountyReport
	ActionRegionReport
)

// MenuOption is one entry of a single-choice menu.
type MenuOption struct {
	Label string
	Value string
}

// Outcome is the result of a successful transition.
type Outcome struct {
	Action  SelectionAction
	County  string
	Region  location.Region
	Options []MenuOption // set for ActionShowRegions
}

// Selection is one user's menu session. It is a plain value; Advance returns
// the next value rather than mutating the receiver.
type Selection struct {
	ID           string
	UserID       string
	Mode         SelectionMode
	State        SelectionState
	County       string
	LastActivity time.Time
}

// Expired reports whether the session has been idle for longer than idle.
func (s Selection) Expired(now time.Time, idle time.Duration) bool {
	return now.Sub(s.LastActivity) > idle
}

// Advance applies a menu choice. On error the returned selection equals the receiver.
func (s Selection) Advance(dir *location.Directory, value string, now time.Time) (Selection, Outcome, error) {
	next := s
	switch s.State {
	case StateAwaitingCounty:
		if !dir.Has(value) {
			return s, Outcome{}, ErrUnknownCounty
		}
		next.County = value
		next.LastActivity = now
		if s.Mode == ModeCountyReport {
			next.State = StateTerminal
			return next, Outcome{Action: ActionCountyReport, County: value}, nil
		}
		next.State = StateAwaitingRegion
		return next, Outcome{Action: ActionShowRegions, County: value, Options: RegionOptions(dir, value)}, nil

	case StateAwaitingRegion:
		region, ok := dir.Region(s.County, value)
		if !ok {
			return s, Outcome{}, ErrUnknownRegion
		}
		next.State = StateTerminal
		next.LastActivity = now
		return next, Outcome{Action: ActionRegionReport, County: s.County, Region: region}, nil

	default:
		return s, Outcome{}, ErrSelectionClosed
	}
}

// CountyOptions lists every county, sorted, as menu options.
func CountyOptions(dir *location.Directory) []MenuOption {
	counties := dir.Counties()
	options := make([]MenuOption, 0, len(counties))
	for _, c := range counties {
		options = append(options, MenuOption{Label: c, Value: c})
	}
	return options
}

// RegionOptions lists the regions of county in directory order.
func RegionOptions(dir *location.Directory, county string) []MenuOption {
	regions := dir.Regions(county)
	options := make([]MenuOption, 0, len(regions))
	for _, r := range regions {
		options = append(options, MenuOption{Label: r.Name, Value: r.ID})
	}
	return options
}

// SelectionController keeps the live menu sessions and enforces their idle lifetime.
// Finished and expired sessions are dropped and never come back.
type SelectionController struct {
	dir   *location.Directory
	idle  time.Duration
	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	sessions map[string]Selection
}

func NewSelectionController(dir *location.Directory, idle time.Duration) *SelectionController {
	return &SelectionController{
		dir:      dir,
		idle:     idle,
		now:      time.Now,
		newID:    uuid.NewString,
		sessions: make(map[string]Selection),
	}
}

// WithClock replaces the time source, for tests.
func (c *SelectionController) WithClock(now func() time.Time) *SelectionController {
	c.now = now
	return c
}

// IdleTimeout is how long a session may sit without a choice.
func (c *SelectionController) IdleTimeout() time.Duration {
	return c.idle
}

// Begin opens a new session for userID and returns it with the county menu.
func (c *SelectionController) Begin(userID string, mode SelectionMode) (Selection, []MenuOption) {
	sel := Selection{
		ID:           c.newID(),
		UserID:       userID,
		Mode:         mode,
		State:        StateAwaitingCounty,
		LastActivity: c.now(),
	}

	c.mu.Lock()
	c.sessions[sel.ID] = sel
	c.mu.Unlock()

	return sel, CountyOptions(c.dir)
}

// Choose applies userID's choice to the session. The check for expiry and the
// state update happen under one lock so a session cannot advance twice.
func (c *SelectionController) Choose(sessionID, userID, value string) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sel, ok := c.sessions[sessionID]
	if !ok {
		return Outcome{}, ErrSelectionNotFound
	}
	if sel.UserID != userID {
		return Outcome{}, ErrSelectionForeignUser
	}
	now := c.now()
	if sel.Expired(now, c.idle) {
		delete(c.sessions, sessionID)
		return Outcome{}, ErrSelectionExpired
	}

	next, out, err := sel.Advance(c.dir, value, now)
	if err != nil {
		return Outcome{}, err
	}
	if next.State == StateTerminal {
		delete(c.sessions, sessionID)
	} else {
		c.sessions[sessionID] = next
	}
	return out, nil
}

// SweepExpired drops idle sessions and returns how many were removed.
func (c *SelectionController) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for id, sel := range c.sessions {
		if sel.Expired(now, c.idle) {
			delete(c.sessions, id)
			removed++
		}
	}
	return removed
}

// Active returns the number of open sessions.
func (c *SelectionController) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}
