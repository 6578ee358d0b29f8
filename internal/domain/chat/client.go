package chat

import (
	"context"
	"errors"

	"tide_notification_bot/internal/domain/tide"
)

// ErrChannelNotFound is returned when a named channel cannot be resolved.
var ErrChannelNotFound = errors.New("channel not found")

// Client delivers tide reports outside of an interaction.
// This keeps the application logic independent of the chat library.
type Client interface {
	ResolveChannel(ctx context.Context, guildID, name string) (string, error)
	SendReportToChannel(ctx context.Context, channelID string, report *tide.CountyReport) error
	SendReportDirect(ctx context.Context, userID string, report *tide.CountyReport) error
}
