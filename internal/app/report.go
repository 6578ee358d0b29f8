package app

import (
	"fmt"
	"strings"

	"tide_notification_bot/internal/domain/tide"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Column headings of the tide table, in display order.
var tableHeaders = []string{"時間", "潮汐", "臺灣高程", "當地平均海平面", "海圖基準"}

// FormatHeader renders the date, lunar date and tide range of a forecast.
func FormatHeader(f *tide.DailyForecast) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("日期：%s｜農曆：%s｜潮差：%s", orNA(f.Date), orNA(f.LunarDate), orNA(f.TideRange))
}

// FormatTable renders events as a fixed-width table, one row per event in upstream order.
func FormatTable(events []tide.Event) string {
	if len(events) == 0 {
		return "（無潮汐時段資料）"
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, eventColumns(e))
	}
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style { return cell }).
		Headers(tableHeaders...).
		Rows(rows...)
	return t.String()
}

// FormatCompact renders events one per line in the table's column order,
// for places where a box table does not fit such as embed fields.
func FormatCompact(events []tide.Event) string {
	if len(events) == 0 {
		return "（無潮汐時段資料）"
	}
	var sb strings.Builder
	for i, e := range events {
		if i > 0 {
			sb.WriteString("\n")
		}
		c := eventColumns(e)
		fmt.Fprintf(&sb, "`%s` %s｜臺灣 %s｜當地 %s｜海圖 %s", c[0], c[1], c[2], c[3], c[4])
	}
	return sb.String()
}

func eventColumns(e tide.Event) []string {
	return []string{orNA(e.Time), orNA(e.State), orNA(e.AboveTWVD), orNA(e.AboveLocalMSL), orNA(e.AboveChartDatum)}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return tide.NotAvailable
	}
	return s
}
