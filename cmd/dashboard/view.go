package main

import (
	"fmt"
	"strings"

	"trading-dashboard/internal/dashboard"
	"trading-dashboard/internal/services/analysis"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Styles.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	symbolStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	gainStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	volumeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	onlineStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10"))
	offlineStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("9"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

const (
	defaultBarWidth = 40
	minBarWidth     = 10
)

func formatPrice(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// formatChange renders a signed change, e.g. "+1.25" or "-0.40".
func formatChange(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}

func (m model) View() string {
	a := m.app
	var b strings.Builder

	b.WriteString(titleStyle.Render("Trading Dashboard"))
	b.WriteString("  ")
	if a.Online {
		b.WriteString(onlineStyle.Render(" Online "))
	} else {
		b.WriteString(offlineStyle.Render(" Offline "))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderStocks())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Methode: ") + a.MethodName())
	b.WriteString("\n\n")

	if !a.HasData() {
		b.WriteString(panelStyle.Render("Keine Daten verfügbar"))
	} else {
		b.WriteString(panelStyle.Render(m.renderDetail()))
	}
	b.WriteString("\n")

	if a.LastErr != nil {
		b.WriteString(errorStyle.Render("Fehler: "+a.LastErr.Error()) + "\n")
	}
	b.WriteString(dimStyle.Render(a.StatusLine()))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ Aktie  m Methode  o Online/Offline  r Aktualisieren  q Beenden"))
	b.WriteString("\n")
	return b.String()
}

func (m model) renderStocks() string {
	if len(m.app.Stocks) == 0 {
		return dimStyle.Render("Lade Aktien...") + "\n"
	}
	parts := make([]string, 0, len(m.app.Stocks))
	for _, s := range m.app.Stocks {
		if s.Symbol == m.app.Selected {
			parts = append(parts, selectedStyle.Render(" "+s.Symbol+" "))
		} else {
			parts = append(parts, symbolStyle.Render(" "+s.Symbol+" "))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n"
	if t, ok := m.app.SelectedTicker(); ok {
		line += dimStyle.Render(t.CompanyName+" · "+t.Sector) + "\n"
	}
	return line
}

func (m model) renderDetail() string {
	a := m.app
	var b strings.Builder

	change := formatChange(a.State.PriceChange)
	if a.State.PriceChange >= 0 {
		change = gainStyle.Render(change)
	} else {
		change = lossStyle.Render(change)
	}
	fmt.Fprintf(&b, "%s  %s  %s\n", symbolStyle.Render(a.Selected), titleStyle.Render(formatPrice(a.State.CurrentPrice)), change)
	fmt.Fprintf(&b, "%s %d  %s %d Tage\n\n", dimStyle.Render("Datenpunkte:"), len(a.Series), dimStyle.Render("Zeitraum:"), len(a.Series))

	switch a.Method {
	case "volume":
		b.WriteString(m.renderVolume())
	case "basic":
		b.WriteString(m.renderBasic())
	default:
		b.WriteString(m.renderPriceChart())
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m model) barWidth() int {
	w := defaultBarWidth
	if m.width > 0 && m.width-40 < w {
		w = m.width - 40
	}
	if w < minBarWidth {
		w = minBarWidth
	}
	return w
}

// renderPriceChart draws one horizontal bar per chart window entry. Bar
// length follows the bar height, where the latest close is full scale.
func (m model) renderPriceChart() string {
	width := m.barWidth()
	var b strings.Builder
	for _, bar := range m.app.State.ChartWindow {
		n := int(bar.Height / dashboard.BarScale * float64(width))
		if n > width {
			n = width
		}
		style := lossStyle
		if bar.Up {
			style = gainStyle
		}
		fmt.Fprintf(&b, "%s %s %s\n", dimStyle.Render(bar.Date), style.Render(padBar(n, width)), formatPrice(bar.Close))
	}
	return b.String()
}

func (m model) renderVolume() string {
	window := m.app.Series[len(m.app.Series)-len(m.app.State.ChartWindow):]
	var peak int64
	for _, r := range window {
		if r.Volume > peak {
			peak = r.Volume
		}
	}
	width := m.barWidth()
	var b strings.Builder
	for _, r := range window {
		n := 0
		if peak > 0 {
			n = int(float64(r.Volume) / float64(peak) * float64(width))
		}
		fmt.Fprintf(&b, "%s %s %d\n", dimStyle.Render(r.Date), volumeStyle.Render(padBar(n, width)), r.Volume)
	}
	return b.String()
}

func (m model) renderBasic() string {
	rep, err := analysis.Analyze("basic", m.app.Series)
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	s := rep.Summary
	rows := [][2]string{
		{"Letzter Kurs", formatPrice(s.Last)},
		{"Minimum", formatPrice(s.Min)},
		{"Maximum", formatPrice(s.Max)},
		{"Durchschnitt", formatPrice(s.Average)},
		{"Veränderung", formatChange(s.ChangePercent) + "%"},
		{"RSI(14)", optional(s.RSI14)},
		{"ATR(14)", optional(s.ATR14)},
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%-14s %s\n", dimStyle.Render(r[0]), r[1])
	}
	return b.String()
}

func optional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return decimal.NewFromFloat(*v).StringFixed(2)
}

func padBar(n, width int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat("█", n) + strings.Repeat(" ", width-n)
}

