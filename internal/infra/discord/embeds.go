package discord

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"tide_notification_bot/internal/app"
	"tide_notification_bot/internal/domain/tide"

	"github.com/bwmarrin/discordgo"
)

// Discord embed limits, counted in characters.
const (
	maxFieldValue       = 1024
	maxFieldsPerEmbed   = 25
	maxEmbedDescription = 4096
	embedBudget         = 5500 // headroom for title and footer

	// Per-day parts of a region embed; two days with labels and fences stay under maxEmbedDescription.
	maxDayHeader = 120
	maxDayBody   = 1800
)

const reportColor = 0x1E88E5

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

func compactDay(label string, b tide.DayBlock) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s %s**\n", label, b.Date)
	if b.Failed() || b.Forecast == nil {
		sb.WriteString("⚠️ ")
		sb.WriteString(b.Text())
		return sb.String()
	}
	fmt.Fprintf(&sb, "農曆 %s｜潮差 %s\n", b.Forecast.LunarDate, b.Forecast.TideRange)
	sb.WriteString(app.FormatCompact(b.Forecast.Events))
	return sb.String()
}

func sectionField(s tide.RegionSection) *discordgo.MessageEmbedField {
	value := compactDay("今日", s.Today) + "\n" + compactDay("明日", s.Tomorrow)
	return &discordgo.MessageEmbedField{
		Name:  "📍 " + s.Region.Name,
		Value: truncate(value, maxFieldValue),
	}
}

// CountyReportEmbeds renders a compound report as one or more embeds, each
// within Discord's size limits. Region order is preserved across embeds.
func CountyReportEmbeds(r *tide.CountyReport) []*discordgo.MessageEmbed {
	newEmbed := func(part int) *discordgo.MessageEmbed {
		title := r.Title()
		if part > 1 {
			title = fmt.Sprintf("%s（%d）", title, part)
		}
		return &discordgo.MessageEmbed{
			Title:       title,
			Description: r.DateRange(),
			Color:       reportColor,
			Footer:      &discordgo.MessageEmbedFooter{Text: "資料來源：中央氣象署"},
		}
	}

	if len(r.Sections) == 0 {
		e := newEmbed(1)
		e.Description = r.DateRange() + "\n查無此縣市的潮汐測站"
		return []*discordgo.MessageEmbed{e}
	}

	var embeds []*discordgo.MessageEmbed
	current := newEmbed(1)
	size := embedSize(current)
	for _, s := range r.Sections {
		field := sectionField(s)
		fieldSize := utf8.RuneCountInString(field.Name) + utf8.RuneCountInString(field.Value)
		if len(current.Fields) > 0 && (len(current.Fields) == maxFieldsPerEmbed || size+fieldSize > embedBudget) {
			embeds = append(embeds, current)
			current = newEmbed(len(embeds) + 1)
			size = embedSize(current)
		}
		current.Fields = append(current.Fields, field)
		size += fieldSize
	}
	return append(embeds, current)
}

func embedSize(e *discordgo.MessageEmbed) int {
	n := utf8.RuneCountInString(e.Title) + utf8.RuneCountInString(e.Description)
	if e.Footer != nil {
		n += utf8.RuneCountInString(e.Footer.Text)
	}
	return n
}

// RegionReportEmbed renders a single-region report with full tables.
func RegionReportEmbed(r *tide.CountyReport) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:  r.Title(),
		Color:  reportColor,
		Footer: &discordgo.MessageEmbedFooter{Text: "資料來源：中央氣象署"},
	}
	if len(r.Sections) == 0 {
		e.Description = "查無此地點的潮汐資料"
		return e
	}
	s := r.Sections[0]
	e.Title = fmt.Sprintf("🌊 %s %s 潮汐預報", r.County, s.Region.Name)

	var sb strings.Builder
	for i, day := range []struct {
		label string
		block tide.DayBlock
	}{{"今日", s.Today}, {"明日", s.Tomorrow}} {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "**%s %s**\n", day.label, day.block.Date)
		if day.block.Failed() {
			sb.WriteString("⚠️ " + truncate(day.block.Text(), maxDayHeader) + "\n")
			continue
		}
		// The body is cut before fencing so the code block always closes.
		sb.WriteString(truncate(day.block.Header, maxDayHeader) + "\n```\n" + truncate(day.block.Body, maxDayBody) + "\n```\n")
	}
	e.Description = sb.String()
	return e
}

// selectMenu builds a single-choice menu row.
func selectMenu(id, placeholder string, options []app.MenuOption) []discordgo.MessageComponent {
	menuOptions := make([]discordgo.SelectMenuOption, 0, len(options))
	for _, o := range options {
		menuOptions = append(menuOptions, discordgo.SelectMenuOption{Label: o.Label, Value: o.Value})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    id,
					Placeholder: placeholder,
					Options:     menuOptions,
				},
			},
		},
	}
}
