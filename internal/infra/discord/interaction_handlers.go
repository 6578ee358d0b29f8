package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tide_notification_bot/internal/app"
	"tide_notification_bot/internal/domain/tide"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// Slash command names.
const (
	commandCountyReport = "tide"
	commandRegionReport = "tide_region"
)

// Commands are registered on startup.
var Commands = []*discordgo.ApplicationCommand{
	{Name: commandCountyReport, Description: "選擇縣市，查詢所有測站今明兩日潮汐"},
	{Name: commandRegionReport, Description: "選擇縣市與鄉鎮，查詢單一地點今明兩日潮汐"},
}

// interactionAPI is the part of *discordgo.Session the interaction handlers use.
type interactionAPI interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// InteractionHandlers drives the selection menus from slash commands and menu clicks.
type InteractionHandlers struct {
	selections    *app.SelectionController
	tides         *app.TideService
	reportTimeout time.Duration
	logger        *logrus.Entry
}

func NewInteractionHandlers(selections *app.SelectionController, tides *app.TideService, logger *logrus.Entry) *InteractionHandlers {
	return &InteractionHandlers{
		selections:    selections,
		tides:         tides,
		reportTimeout: 5 * time.Minute, // a county is up to 22 sequential lookups
		logger:        logger,
	}
}

// OnInteractionCreate is registered with discordgo.
func (h *InteractionHandlers) OnInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.handle(s, i.Interaction)
}

func (h *InteractionHandlers) handle(api interactionAPI, i *discordgo.Interaction) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleCommand(api, i)
	case discordgo.InteractionMessageComponent:
		h.handleComponent(api, i)
	}
}

func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func (h *InteractionHandlers) handleCommand(api interactionAPI, i *discordgo.Interaction) {
	name := i.ApplicationCommandData().Name
	userID := interactionUserID(i)
	log := h.logger.WithFields(logrus.Fields{"command": name, "user_id": userID})

	var mode app.SelectionMode
	switch name {
	case commandCountyReport:
		mode = app.ModeCountyReport
	case commandRegionReport:
		mode = app.ModeRegionPick
	default:
		log.Warn("Unknown command")
		return
	}

	sel, options := h.selections.Begin(userID, mode)
	log = log.WithField("session_id", sel.ID)
	log.Info("Command received, county menu opened")

	err := api.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    fmt.Sprintf("請選擇縣市（%d 秒內有效）", int(h.selections.IdleTimeout().Seconds())),
			Components: selectMenu(customID(menuCounty, sel.ID), "選擇縣市", options),
		},
	})
	if err != nil {
		log.WithError(err).Error("Failed to send county menu")
	}
}

func (h *InteractionHandlers) handleComponent(api interactionAPI, i *discordgo.Interaction) {
	data := i.MessageComponentData()
	kind, sessionID, ok := parseCustomID(data.CustomID)
	if !ok || len(data.Values) == 0 {
		return // not one of ours
	}
	userID := interactionUserID(i)
	log := h.logger.WithFields(logrus.Fields{
		"menu":       kind,
		"session_id": sessionID,
		"user_id":    userID,
		"value":      data.Values[0],
	})

	out, err := h.selections.Choose(sessionID, userID, data.Values[0])
	if err != nil {
		h.rejectChoice(api, i, log, err)
		return
	}
	log.WithField("action", out.Action).Info("Menu choice accepted")

	switch out.Action {
	case app.ActionShowRegions:
		err = api.InteractionRespond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Content:    fmt.Sprintf("%s：請選擇鄉鎮（%d 秒內有效）", out.County, int(h.selections.IdleTimeout().Seconds())),
				Components: selectMenu(customID(menuRegion, sessionID), "選擇鄉鎮", out.Options),
			},
		})
		if err != nil {
			log.WithError(err).Error("Failed to show region menu")
		}
	case app.ActionCountyReport, app.ActionRegionReport:
		h.respondWithReport(api, i, log, out)
	}
}

func (h *InteractionHandlers) rejectChoice(api interactionAPI, i *discordgo.Interaction, log *logrus.Entry, err error) {
	var resp *discordgo.InteractionResponse
	switch {
	case errors.Is(err, app.ErrSelectionExpired), errors.Is(err, app.ErrSelectionNotFound), errors.Is(err, app.ErrSelectionClosed):
		log.WithError(err).Info("Choice on an expired menu")
		content := "⌛ 選單已逾時，請重新輸入指令。"
		resp = &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{Content: content, Components: []discordgo.MessageComponent{}},
		}
	case errors.Is(err, app.ErrSelectionForeignUser):
		log.Warn("Choice on another user's menu")
		resp = ephemeral("這不是你的選單，請自行輸入指令查詢。")
	default:
		log.WithError(err).Warn("Invalid menu choice")
		resp = ephemeral("無效的選項，請重新選擇。")
	}
	if rerr := api.InteractionRespond(i, resp); rerr != nil {
		log.WithError(rerr).Error("Failed to answer rejected choice")
	}
}

func ephemeral(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: discordgo.MessageFlagsEphemeral},
	}
}

// respondWithReport acknowledges the click, builds the report and replaces the
// menu message with it. If the interaction can no longer be edited the report
// is posted to the channel instead.
func (h *InteractionHandlers) respondWithReport(api interactionAPI, i *discordgo.Interaction, log *logrus.Entry, out app.Outcome) {
	if err := api.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		log.WithError(err).Warn("Failed to defer menu update")
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.reportTimeout)
	defer cancel()

	var (
		report *tide.CountyReport
		embeds []*discordgo.MessageEmbed
		err    error
	)
	if out.Action == app.ActionRegionReport {
		report, err = h.tides.RegionReport(ctx, out.County, out.Region.ID)
		embeds = []*discordgo.MessageEmbed{RegionReportEmbed(report)}
	} else {
		report, err = h.tides.CountyReport(ctx, out.County)
		embeds = CountyReportEmbeds(report)
	}
	if err != nil {
		log.WithError(err).Warn("Report built with errors")
	}

	content := ""
	_, err = api.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &[]*discordgo.MessageEmbed{embeds[0]},
		Components: &[]discordgo.MessageComponent{},
	})
	if err != nil {
		log.WithError(err).Warn("Failed to edit interaction response, posting to channel instead")
		h.postToChannel(api, i.ChannelID, log, embeds)
		return
	}

	for _, e := range embeds[1:] {
		if _, err := api.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
			Embeds: []*discordgo.MessageEmbed{e},
		}); err != nil {
			log.WithError(err).Warn("Failed to send report follow-up, posting to channel instead")
			h.postToChannel(api, i.ChannelID, log, []*discordgo.MessageEmbed{e})
		}
	}
}

func (h *InteractionHandlers) postToChannel(api interactionAPI, channelID string, log *logrus.Entry, embeds []*discordgo.MessageEmbed) {
	for _, e := range embeds {
		if _, err := api.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{e},
		}); err != nil {
			log.WithError(err).Error("Failed to deliver report")
			return
		}
	}
}
