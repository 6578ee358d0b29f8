package discord

import (
	"context"
	"fmt"
	"strings"

	"tide_notification_bot/internal/domain/chat"
	"tide_notification_bot/internal/domain/tide"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// restAPI is the part of *discordgo.Session the adapter uses.
type restAPI interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
}

// Adapter implements chat.Client on top of discordgo.
type Adapter struct {
	api    restAPI
	state  *discordgo.State // optional cache consulted before the REST API
	logger *logrus.Entry
}

var _ chat.Client = (*Adapter)(nil)

func NewAdapter(s *discordgo.Session, logger *logrus.Entry) *Adapter {
	return &Adapter{api: s, state: s.State, logger: logger}
}

// ResolveChannel finds a text channel of guildID by name, ignoring case.
func (a *Adapter) ResolveChannel(ctx context.Context, guildID, name string) (string, error) {
	var channels []*discordgo.Channel
	if a.state != nil {
		if g, err := a.state.Guild(guildID); err == nil {
			channels = g.Channels
		}
	}
	if len(channels) == 0 {
		var err error
		channels, err = a.api.GuildChannels(guildID, discordgo.WithContext(ctx))
		if err != nil {
			return "", fmt.Errorf("listing channels of guild %s: %w", guildID, err)
		}
	}

	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && strings.EqualFold(ch.Name, name) {
			return ch.ID, nil
		}
	}
	return "", fmt.Errorf("%w: #%s in guild %s", chat.ErrChannelNotFound, name, guildID)
}

// SendReportToChannel posts the report, one message per embed chunk.
func (a *Adapter) SendReportToChannel(ctx context.Context, channelID string, report *tide.CountyReport) error {
	for i, embed := range CountyReportEmbeds(report) {
		_, err := a.api.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{embed},
		}, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("sending report part %d to channel %s: %w", i+1, channelID, err)
		}
	}
	return nil
}

// SendReportDirect opens a private channel with the user and posts the report there.
func (a *Adapter) SendReportDirect(ctx context.Context, userID string, report *tide.CountyReport) error {
	ch, err := a.api.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("opening direct channel with %s: %w", userID, err)
	}
	return a.SendReportToChannel(ctx, ch.ID, report)
}
