package discord

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"tide_notification_bot/internal/app"
	"tide_notification_bot/internal/domain/chat"
	"tide_notification_bot/internal/domain/location"
	"tide_notification_bot/internal/domain/tide"
	"tide_notification_bot/internal/infra/database"
	"tide_notification_bot/internal/infra/logger"

	"github.com/bwmarrin/discordgo"
)

// fakeAPI records every call the handlers and the adapter make.
type fakeAPI struct {
	mu        sync.Mutex
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
	followups []*discordgo.WebhookParams
	sent      map[string][]*discordgo.MessageSend
	channels  []*discordgo.Channel
	editErr   error
	sendErr   error
	dmErr     error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{sent: make(map[string][]*discordgo.MessageSend)}
}

func (f *fakeAPI) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeAPI) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return nil, f.editErr
	}
	f.edits = append(f.edits, edit)
	return &discordgo.Message{}, nil
}

func (f *fakeAPI) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, data)
	return &discordgo.Message{}, nil
}

func (f *fakeAPI) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent[channelID] = append(f.sent[channelID], data)
	return &discordgo.Message{}, nil
}

func (f *fakeAPI) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if f.dmErr != nil {
		return nil, f.dmErr
	}
	return &discordgo.Channel{ID: "dm-" + recipientID, Type: discordgo.ChannelTypeDM}, nil
}

func (f *fakeAPI) GuildChannels(string, ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	return f.channels, nil
}

type stubProvider struct{}

func (stubProvider) FetchDaily(_ context.Context, date, _ string) (*tide.DailyForecast, error) {
	return &tide.DailyForecast{
		Date:      date,
		LunarDate: "初二",
		TideRange: "大",
		Events:    []tide.Event{{Time: "04:10", State: "滿潮", AboveTWVD: "120", AboveLocalMSL: "110", AboveChartDatum: "200"}},
	}, nil
}

func sampleReport(regions int) *tide.CountyReport {
	r := &tide.CountyReport{County: "新北市", Today: "2025-01-01", Tomorrow: "2025-01-02"}
	for i := 0; i < regions; i++ {
		block := tide.DayBlock{
			Date:     "2025-01-01",
			Forecast: &tide.DailyForecast{LunarDate: "初二", TideRange: "大"},
			Header:   "日期：2025-01-01",
			Body:     strings.Repeat("x", 40),
		}
		r.Sections = append(r.Sections, tide.RegionSection{
			Region:   location.Region{Name: "區" + string(rune('A'+i%26)), ID: "id"},
			Today:    block,
			Tomorrow: tide.DayBlock{Date: "2025-01-02", Err: tide.ErrNoForecast},
		})
	}
	return r
}

func TestParseCustomID(t *testing.T) {
	kind, id, ok := parseCustomID(customID(menuRegion, "abc"))
	if !ok || kind != menuRegion || id != "abc" {
		t.Errorf("round trip = %q %q %v", kind, id, ok)
	}
	for _, bad := range []string{"", "tide", "tide:county:", "other:county:abc", "tide:weather:abc"} {
		if _, _, ok := parseCustomID(bad); ok {
			t.Errorf("parseCustomID(%q) accepted", bad)
		}
	}
}

func TestCountyReportEmbeds_KeepsOrderAcrossChunks(t *testing.T) {
	report := sampleReport(30)
	embeds := CountyReportEmbeds(report)
	if len(embeds) < 2 {
		t.Fatalf("embeds = %d, want the report split", len(embeds))
	}

	var names []string
	for _, e := range embeds {
		if len(e.Fields) > maxFieldsPerEmbed {
			t.Errorf("embed has %d fields", len(e.Fields))
		}
		if embedSize(e) > embedBudget {
			t.Errorf("embed header too large")
		}
		for _, f := range e.Fields {
			names = append(names, f.Name)
		}
	}
	if len(names) != 30 {
		t.Fatalf("fields = %d, want 30", len(names))
	}
	for i, s := range report.Sections {
		if names[i] != "📍 "+s.Region.Name {
			t.Errorf("field %d = %q, want %q", i, names[i], s.Region.Name)
		}
	}
	if !strings.Contains(embeds[0].Fields[0].Value, tide.Label(tide.ErrNoForecast)) {
		t.Error("failed block label missing from field")
	}
	if !strings.HasSuffix(embeds[1].Title, "（2）") {
		t.Errorf("second embed title = %q", embeds[1].Title)
	}
}

func TestCountyReportEmbeds_EmptyReport(t *testing.T) {
	embeds := CountyReportEmbeds(&tide.CountyReport{County: "火星市"})
	if len(embeds) != 1 || len(embeds[0].Fields) != 0 {
		t.Fatalf("embeds = %+v", embeds)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("潮汐預報", 10); got != "潮汐預報" {
		t.Errorf("short string changed: %q", got)
	}
	got := truncate(strings.Repeat("潮", 20), 5)
	if got != "潮潮潮潮…" {
		t.Errorf("truncate = %q", got)
	}
}

func TestRegionReportEmbed(t *testing.T) {
	r := sampleReport(1)
	e := RegionReportEmbed(r)
	if !strings.Contains(e.Title, "區A") {
		t.Errorf("title = %q", e.Title)
	}
	if !strings.Contains(e.Description, "```") || !strings.Contains(e.Description, tide.Label(tide.ErrNoForecast)) {
		t.Errorf("description = %q", e.Description)
	}
}

func TestRegionReportEmbed_LongTablesKeepFencesClosed(t *testing.T) {
	r := sampleReport(1)
	long := strings.Repeat("│ 06:15 │ 滿潮 │ 150 │ 140 │ 160 │\n", 200)
	r.Sections[0].Today.Body = long
	r.Sections[0].Tomorrow = tide.DayBlock{Date: "2025-01-02", Header: "日期：2025-01-02", Body: long}

	e := RegionReportEmbed(r)
	if n := utf8.RuneCountInString(e.Description); n > maxEmbedDescription {
		t.Errorf("description length = %d, want <= %d", n, maxEmbedDescription)
	}
	if fences := strings.Count(e.Description, "```"); fences != 4 {
		t.Errorf("code fences = %d, want 4", fences)
	}
	if !strings.HasSuffix(e.Description, "```\n") {
		t.Errorf("description does not end with a closed block: %q", e.Description[len(e.Description)-20:])
	}
}

func TestAdapter_ResolveChannel(t *testing.T) {
	api := newFakeAPI()
	api.channels = []*discordgo.Channel{
		{ID: "v1", Name: "tide", Type: discordgo.ChannelTypeGuildVoice},
		{ID: "t1", Name: "Tide", Type: discordgo.ChannelTypeGuildText},
	}
	a := &Adapter{api: api, logger: logger.Discard()}

	id, err := a.ResolveChannel(context.Background(), "g1", "tide")
	if err != nil || id != "t1" {
		t.Errorf("ResolveChannel() = %q, %v", id, err)
	}
	if _, err := a.ResolveChannel(context.Background(), "g1", "general"); !errors.Is(err, chat.ErrChannelNotFound) {
		t.Errorf("missing channel error = %v", err)
	}
}

func TestAdapter_SendReportDirect(t *testing.T) {
	api := newFakeAPI()
	a := &Adapter{api: api, logger: logger.Discard()}

	if err := a.SendReportDirect(context.Background(), "u1", sampleReport(2)); err != nil {
		t.Fatalf("SendReportDirect() error = %v", err)
	}
	if len(api.sent["dm-u1"]) != 1 {
		t.Errorf("direct messages = %d, want 1", len(api.sent["dm-u1"]))
	}

	api.dmErr = errors.New("cannot send messages to this user")
	if err := a.SendReportDirect(context.Background(), "u2", sampleReport(1)); err == nil {
		t.Error("SendReportDirect() ignored a closed DM channel")
	}
}

func newTestPresenceHandler(api *fakeAPI) *PresenceHandler {
	dir := location.Default()
	svc := app.NewTideService(stubProvider{}, dir, 1, logger.Discard())
	notifier := app.NewPresenceNotifier(
		app.PresenceNotifierConfig{Enabled: true},
		database.NewMemoryLedgerRepository(),
		svc,
		&Adapter{api: api, logger: logger.Discard()},
		dir,
		logger.Discard(),
	)
	return NewPresenceHandler(notifier, logger.Discard())
}

func presenceUpdate(userID string, status discordgo.Status) *discordgo.PresenceUpdate {
	return &discordgo.PresenceUpdate{
		GuildID:  "g1",
		Presence: discordgo.Presence{User: &discordgo.User{ID: userID}, Status: status},
	}
}

func TestPresenceEvent(t *testing.T) {
	member := &discordgo.Member{Nick: "阿明@台中", User: &discordgo.User{ID: "u1", Username: "ming"}}
	ev, ok := presenceEvent(presenceUpdate("u1", discordgo.StatusOnline), member)
	if !ok {
		t.Fatal("presenceEvent() skipped a regular user")
	}
	want := app.PresenceEvent{GuildID: "g1", UserID: "u1", DisplayName: "阿明@台中", Status: app.StatusOnline}
	if ev != want {
		t.Errorf("presenceEvent() = %+v, want %+v", ev, want)
	}

	bot := &discordgo.Member{User: &discordgo.User{ID: "b1", Bot: true}}
	if _, ok := presenceEvent(presenceUpdate("b1", discordgo.StatusOnline), bot); ok {
		t.Error("presenceEvent() accepted a bot")
	}
}

func TestPresenceHandler_UsersOnlineAtConnectAreNotReported(t *testing.T) {
	api := newFakeAPI()
	h := newTestPresenceHandler(api)
	member := &discordgo.Member{Nick: "阿明@台中", User: &discordgo.User{ID: "u1"}}

	h.OnGuildCreate(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{
		ID: "g1",
		Presences: []*discordgo.Presence{
			{User: &discordgo.User{ID: "u1"}, Status: discordgo.StatusOnline},
			{User: &discordgo.User{ID: "b1", Bot: true}, Status: discordgo.StatusOnline},
		},
	}})

	// An activity change keeps the status online.
	if outcome := h.handle(presenceUpdate("u1", discordgo.StatusOnline), member); outcome != app.OutcomeNotOnlineTransition {
		t.Errorf("outcome = %v, want not_online_transition", outcome)
	}
	if len(api.sent) != 0 {
		t.Fatalf("sent = %v, want nothing", api.sent)
	}

	h.handle(presenceUpdate("u1", discordgo.StatusIdle), member)
	if outcome := h.handle(presenceUpdate("u1", discordgo.StatusOnline), member); outcome != app.OutcomeDeliveredDirect {
		t.Errorf("idle -> online = %v, want delivered_direct", outcome)
	}
	if len(api.sent["dm-u1"]) == 0 {
		t.Error("report was not sent by direct message")
	}
}

func TestDisplayName(t *testing.T) {
	u := &discordgo.User{ID: "1", Username: "sailor", GlobalName: "基隆阿明"}
	if got := displayName(u, &discordgo.Member{Nick: "宜蘭小王"}); got != "宜蘭小王" {
		t.Errorf("nick: %q", got)
	}
	if got := displayName(u, nil); got != "基隆阿明" {
		t.Errorf("global name: %q", got)
	}
	if got := displayName(&discordgo.User{ID: "1"}, &discordgo.Member{User: &discordgo.User{Username: "hualien"}}); got != "hualien" {
		t.Errorf("member username: %q", got)
	}
}

func newTestHandlers() *InteractionHandlers {
	dir := location.Default()
	svc := app.NewTideService(stubProvider{}, dir, 1, logger.Discard())
	return NewInteractionHandlers(app.NewSelectionController(dir, time.Minute), svc, logger.Discard())
}

func commandInteraction(name, userID string) *discordgo.Interaction {
	return &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "c1",
		Member:    &discordgo.Member{User: &discordgo.User{ID: userID}},
		Data:      discordgo.ApplicationCommandInteractionData{Name: name},
	}
}

func menuInteraction(customID, userID, value string) *discordgo.Interaction {
	return &discordgo.Interaction{
		Type:      discordgo.InteractionMessageComponent,
		ChannelID: "c1",
		Member:    &discordgo.Member{User: &discordgo.User{ID: userID}},
		Data:      discordgo.MessageComponentInteractionData{CustomID: customID, Values: []string{value}},
	}
}

func menuCustomID(t *testing.T, resp *discordgo.InteractionResponse) string {
	t.Helper()
	row, ok := resp.Data.Components[0].(discordgo.ActionsRow)
	if !ok {
		t.Fatalf("component = %T", resp.Data.Components[0])
	}
	menu, ok := row.Components[0].(discordgo.SelectMenu)
	if !ok {
		t.Fatalf("row component = %T", row.Components[0])
	}
	return menu.CustomID
}

func TestInteractionHandlers_RegionFlow(t *testing.T) {
	h := newTestHandlers()
	api := newFakeAPI()

	h.handle(api, commandInteraction(commandRegionReport, "u1"))
	if len(api.responses) != 1 {
		t.Fatalf("responses = %d", len(api.responses))
	}
	countyMenu := menuCustomID(t, api.responses[0])

	h.handle(api, menuInteraction(countyMenu, "u1", "基隆市"))
	if len(api.responses) != 2 || api.responses[1].Type != discordgo.InteractionResponseUpdateMessage {
		t.Fatalf("region menu not shown: %+v", api.responses)
	}
	regionMenu := menuCustomID(t, api.responses[1])
	if kind, _, _ := parseCustomID(regionMenu); kind != menuRegion {
		t.Errorf("second menu kind = %q", kind)
	}

	h.handle(api, menuInteraction(regionMenu, "u1", "10017010"))
	if api.responses[2].Type != discordgo.InteractionResponseDeferredMessageUpdate {
		t.Errorf("report was not deferred")
	}
	if len(api.edits) != 1 || len(*api.edits[0].Embeds) != 1 {
		t.Fatalf("edits = %+v", api.edits)
	}
	if title := (*api.edits[0].Embeds)[0].Title; !strings.Contains(title, "中正區") {
		t.Errorf("report title = %q", title)
	}
	if len(*api.edits[0].Components) != 0 {
		t.Error("menu was not removed from the message")
	}

	// The finished session does not accept another choice.
	h.handle(api, menuInteraction(regionMenu, "u1", "10017050"))
	last := api.responses[len(api.responses)-1]
	if !strings.Contains(last.Data.Content, "逾時") {
		t.Errorf("reuse answered with %q", last.Data.Content)
	}
}

func TestInteractionHandlers_ForeignUserIsRejectedPrivately(t *testing.T) {
	h := newTestHandlers()
	api := newFakeAPI()

	h.handle(api, commandInteraction(commandCountyReport, "u1"))
	countyMenu := menuCustomID(t, api.responses[0])

	h.handle(api, menuInteraction(countyMenu, "intruder", "基隆市"))
	resp := api.responses[1]
	if resp.Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Error("rejection was not ephemeral")
	}

	// The owner can still use the menu.
	h.handle(api, menuInteraction(countyMenu, "u1", "基隆市"))
	if len(api.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(api.edits))
	}
	if got := len((*api.edits[0].Embeds)[0].Fields); got != 3 {
		t.Errorf("fields = %d, want 3 regions", got)
	}
}

func TestInteractionHandlers_EditFailureFallsBackToChannel(t *testing.T) {
	h := newTestHandlers()
	api := newFakeAPI()
	api.editErr = errors.New("unknown interaction")

	h.handle(api, commandInteraction(commandCountyReport, "u1"))
	h.handle(api, menuInteraction(menuCustomID(t, api.responses[0]), "u1", "基隆市"))

	if len(api.sent["c1"]) != 1 {
		t.Errorf("channel messages = %d, want 1", len(api.sent["c1"]))
	}
}

func TestInteractionHandlers_IgnoresForeignComponents(t *testing.T) {
	h := newTestHandlers()
	api := newFakeAPI()

	h.handle(api, menuInteraction("poll:vote:1", "u1", "yes"))
	if len(api.responses) != 0 {
		t.Errorf("answered a component it does not own")
	}
}
