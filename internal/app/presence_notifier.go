package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tide_notification_bot/internal/domain/chat"
	"tide_notification_bot/internal/domain/ledger"
	"tide_notification_bot/internal/domain/location"
	"tide_notification_bot/internal/domain/tide"

	"github.com/sirupsen/logrus"
)

// StatusOnline is the presence status that triggers a notification.
const StatusOnline = "online"

// PresenceEvent is a user's new presence status as observed in a guild.
type PresenceEvent struct {
	GuildID     string
	UserID      string
	DisplayName string
	Status      string
}

// NotifyOutcome describes what HandlePresence did with an event.
type NotifyOutcome int

const (
	OutcomeDisabled NotifyOutcome = iota
	OutcomeNotOnlineTransition
	OutcomeAlreadyNotified
	OutcomeNoCounty
	OutcomeDeliveredChannel
	OutcomeDeliveredDirect
	OutcomeFailed
)

func (o NotifyOutcome) String() string {
	switch o {
	case OutcomeDisabled:
		return "disabled"
	case OutcomeNotOnlineTransition:
		return "not_online_transition"
	case OutcomeAlreadyNotified:
		return "already_notified"
	case OutcomeNoCounty:
		return "no_county"
	case OutcomeDeliveredChannel:
		return "delivered_channel"
	case OutcomeDeliveredDirect:
		return "delivered_direct"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Delivered reports whether a report reached the user or the broadcast channel.
func (o NotifyOutcome) Delivered() bool {
	return o == OutcomeDeliveredChannel || o == OutcomeDeliveredDirect
}

// CountyReporter builds the compound report of a county.
type CountyReporter interface {
	CountyReport(ctx context.Context, county string) (*tide.CountyReport, error)
}

// PresenceNotifierConfig holds the static settings of the notifier.
type PresenceNotifierConfig struct {
	Enabled     bool
	ChannelName string // broadcast destination; empty sends direct messages only
}

// PresenceNotifier sends a county tide report the first time each day a user comes online.
type PresenceNotifier struct {
	cfg      PresenceNotifierConfig
	ledger   ledger.Repository
	reporter CountyReporter
	client   chat.Client
	dir      *location.Directory
	rules    []location.KeywordRule
	now      func() time.Time
	logger   *logrus.Entry

	statusMu sync.Mutex
	statuses map[string]string

	userLocks keyedMutex
}

func NewPresenceNotifier(
	cfg PresenceNotifierConfig,
	ledgerRepo ledger.Repository,
	reporter CountyReporter,
	client chat.Client,
	dir *location.Directory,
	logger *logrus.Entry,
) *PresenceNotifier {
	return &PresenceNotifier{
		cfg:      cfg,
		ledger:   ledgerRepo,
		reporter: reporter,
		client:   client,
		dir:      dir,
		rules:    location.DefaultKeywords,
		now:      time.Now,
		logger:   logger,
		statuses: make(map[string]string),
	}
}

// WithClock replaces the time source, for tests.
func (n *PresenceNotifier) WithClock(now func() time.Time) *PresenceNotifier {
	n.now = now
	return n
}

// Enabled reports the static on/off flag.
func (n *PresenceNotifier) Enabled() bool {
	return n.cfg.Enabled
}

// observe records the user's new status and returns the previous one.
// A user never seen before counts as not online.
func (n *PresenceNotifier) observe(userID, status string) string {
	n.statusMu.Lock()
	defer n.statusMu.Unlock()
	prev := n.statuses[userID]
	n.statuses[userID] = status
	return prev
}

// Seed records a status observed outside an update, such as the member list
// delivered on connect, so a user already online is not mistaken for one
// coming online at their next update.
func (n *PresenceNotifier) Seed(userID, status string) {
	if !n.cfg.Enabled || userID == "" {
		return
	}
	n.observe(userID, status)
}

// HandlePresence reacts to a presence change. At most one report per user is
// sent per Taiwan calendar day; the ledger is claimed before the report is
// fetched so concurrent events for the same user cannot both pass the check.
func (n *PresenceNotifier) HandlePresence(ctx context.Context, ev PresenceEvent) (NotifyOutcome, error) {
	if !n.cfg.Enabled {
		return OutcomeDisabled, nil
	}

	prev := n.observe(ev.UserID, ev.Status)
	if ev.Status != StatusOnline || prev == StatusOnline {
		return OutcomeNotOnlineTransition, nil
	}

	log := n.logger.WithFields(logrus.Fields{
		"user_id":      ev.UserID,
		"display_name": ev.DisplayName,
		"guild_id":     ev.GuildID,
	})
	today := tide.Today(n.now())

	county, proceed, outcome, err := n.claim(ctx, ev, today)
	if !proceed {
		return outcome, err
	}
	log = log.WithField("county", county)

	report, err := n.reporter.CountyReport(ctx, county)
	if err != nil {
		log.WithError(err).Error("Failed to build county report for presence notification")
		return OutcomeFailed, fmt.Errorf("building report for %s: %w", county, err)
	}

	return n.deliver(ctx, log, ev, report)
}

// claim runs the ledger check-then-write under the user's lock. When proceed
// is false, outcome and err say why the event stops here.
func (n *PresenceNotifier) claim(ctx context.Context, ev PresenceEvent, today string) (county string, proceed bool, outcome NotifyOutcome, err error) {
	unlock := n.userLocks.Lock(ev.UserID)
	defer unlock()

	last, found, err := n.ledger.LastNotified(ctx, ev.UserID)
	if err != nil {
		return "", false, OutcomeFailed, fmt.Errorf("reading notification ledger: %w", err)
	}
	if found && last == today {
		return "", false, OutcomeAlreadyNotified, nil
	}

	county, ok := location.InferCountyWith(n.rules, ev.DisplayName)
	if !ok || !n.dir.Has(county) {
		return "", false, OutcomeNoCounty, nil
	}

	if err := n.ledger.MarkNotified(ctx, ev.UserID, today); err != nil {
		return "", false, OutcomeFailed, fmt.Errorf("writing notification ledger: %w", err)
	}
	return county, true, 0, nil
}

// deliver posts to the broadcast channel when it resolves, falling back to a direct message.
func (n *PresenceNotifier) deliver(ctx context.Context, log *logrus.Entry, ev PresenceEvent, report *tide.CountyReport) (NotifyOutcome, error) {
	if n.cfg.ChannelName != "" && ev.GuildID != "" {
		channelID, err := n.client.ResolveChannel(ctx, ev.GuildID, n.cfg.ChannelName)
		if err == nil {
			if err = n.client.SendReportToChannel(ctx, channelID, report); err == nil {
				log.WithField("channel_id", channelID).Info("Presence notification sent to channel")
				return OutcomeDeliveredChannel, nil
			}
		}
		log.WithError(err).WithField("channel", n.cfg.ChannelName).Warn("Broadcast channel unavailable, falling back to direct message")
	}

	if err := n.client.SendReportDirect(ctx, ev.UserID, report); err != nil {
		log.WithError(err).Error("Failed to send presence notification")
		return OutcomeFailed, fmt.Errorf("sending direct message: %w", err)
	}
	log.Info("Presence notification sent by direct message")
	return OutcomeDeliveredDirect, nil
}

// keyedMutex serialises work per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
