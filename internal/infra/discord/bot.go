package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// Intents needed for slash commands, presence updates and member nicknames.
const Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildPresences | discordgo.IntentsGuildMembers

// NewSession creates a gateway session with presence tracking enabled.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("could not create discord session: %w", err)
	}
	s.Identify.Intents = Intents
	s.State.TrackPresences = true
	s.State.TrackMembers = true
	return s, nil
}

// RegisterHandlers attaches the interaction and presence handlers to the session.
func RegisterHandlers(s *discordgo.Session, interactions *InteractionHandlers, presence *PresenceHandler, logger *logrus.Entry) {
	s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.WithFields(logrus.Fields{
			"user":   r.User.Username,
			"guilds": len(r.Guilds),
		}).Info("Connected to Discord gateway")
	})
	s.AddHandler(interactions.OnInteractionCreate)
	s.AddHandler(presence.OnGuildCreate)
	s.AddHandler(presence.OnPresenceUpdate)
}

// RegisterCommands replaces the bot's slash commands. An empty guildID
// registers them globally.
func RegisterCommands(s *discordgo.Session, guildID string) error {
	if s.State == nil || s.State.User == nil {
		return fmt.Errorf("could not register commands: session is not open")
	}
	if _, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, guildID, Commands); err != nil {
		return fmt.Errorf("could not register commands: %w", err)
	}
	return nil
}
