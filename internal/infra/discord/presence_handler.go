package discord

import (
	"context"
	"time"

	"tide_notification_bot/internal/app"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// PresenceHandler forwards gateway presence updates to the notifier.
type PresenceHandler struct {
	notifier *app.PresenceNotifier
	timeout  time.Duration
	logger   *logrus.Entry
}

func NewPresenceHandler(notifier *app.PresenceNotifier, logger *logrus.Entry) *PresenceHandler {
	return &PresenceHandler{notifier: notifier, timeout: 5 * time.Minute, logger: logger}
}

// OnGuildCreate seeds the notifier with the presences delivered when a guild
// becomes available, so users already online are not reported at their next update.
func (h *PresenceHandler) OnGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	if !h.notifier.Enabled() || g.Guild == nil {
		return
	}
	seeded := h.seed(g.Guild)
	h.logger.WithFields(logrus.Fields{"guild_id": g.ID, "presences": seeded}).Debug("Presence statuses seeded")
}

func (h *PresenceHandler) seed(g *discordgo.Guild) int {
	n := 0
	for _, p := range g.Presences {
		if p == nil || p.User == nil || p.User.Bot {
			continue
		}
		h.notifier.Seed(p.User.ID, string(p.Status))
		n++
	}
	return n
}

// OnPresenceUpdate is registered with discordgo.
func (h *PresenceHandler) OnPresenceUpdate(s *discordgo.Session, p *discordgo.PresenceUpdate) {
	if !h.notifier.Enabled() || p.User == nil {
		return
	}
	h.handle(p, lookupMember(s, p.GuildID, p.User.ID))
}

func (h *PresenceHandler) handle(p *discordgo.PresenceUpdate, member *discordgo.Member) app.NotifyOutcome {
	ev, ok := presenceEvent(p, member)
	if !ok {
		return app.OutcomeNotOnlineTransition
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	outcome, err := h.notifier.HandlePresence(ctx, ev)
	log := h.logger.WithFields(logrus.Fields{"user_id": ev.UserID, "outcome": outcome.String()})
	if err != nil {
		log.WithError(err).Warn("Presence notification failed")
		return outcome
	}
	log.Debug("Presence update handled")
	return outcome
}

// presenceEvent maps a gateway update to the notifier's event. Bots are skipped.
func presenceEvent(p *discordgo.PresenceUpdate, member *discordgo.Member) (app.PresenceEvent, bool) {
	if p.User == nil || isBot(p.User, member) {
		return app.PresenceEvent{}, false
	}
	return app.PresenceEvent{
		GuildID:     p.GuildID,
		UserID:      p.User.ID,
		DisplayName: displayName(p.User, member),
		Status:      string(p.Status),
	}, true
}

// lookupMember prefers the state cache and falls back to the REST API.
func lookupMember(s *discordgo.Session, guildID, userID string) *discordgo.Member {
	if guildID == "" {
		return nil
	}
	if s.State != nil {
		if m, err := s.State.Member(guildID, userID); err == nil {
			return m
		}
	}
	m, err := s.GuildMember(guildID, userID)
	if err != nil {
		return nil
	}
	return m
}

func isBot(u *discordgo.User, m *discordgo.Member) bool {
	if u.Bot {
		return true
	}
	return m != nil && m.User != nil && m.User.Bot
}

// displayName is the guild nickname, then the global name, then the username.
// Presence payloads often carry only the user ID, so the member's user wins
// over the payload's.
func displayName(u *discordgo.User, m *discordgo.Member) string {
	if m != nil && m.Nick != "" {
		return m.Nick
	}
	user := u
	if m != nil && m.User != nil {
		user = m.User
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	if user.Username != "" {
		return user.Username
	}
	return u.Username
}
