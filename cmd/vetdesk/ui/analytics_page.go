package ui

import (
	"fmt"
	"strconv"
	"strings"

	analyticsservice "github.com/ivenhartford/LCH-sub002/internal/analytics/service"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultWindowMonths = 6
	maxWindowMonths     = 24
	barWidth            = 30
)

type analyticsModel struct {
	report  analyticsservice.Report
	months  int
	loaded  bool
	errText string
	styles  Styles
}

func newAnalytics(styles Styles) analyticsModel {
	return analyticsModel{months: defaultWindowMonths, styles: styles}
}

func (m analyticsModel) update(msg tea.Msg, deps Deps) (analyticsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case analyticsLoadedMsg:
		if msg.err != nil {
			m.errText = userMessage(msg.err)
			return m, nil
		}
		m.errText = ""
		m.loaded = true
		m.report = msg.report
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "[":
			if m.months > 1 {
				m.months--
				return m, deps.loadAnalyticsCmd(m.months)
			}
		case "]":
			if m.months < maxWindowMonths {
				m.months++
				return m, deps.loadAnalyticsCmd(m.months)
			}
		}
	}
	return m, nil
}

func (m analyticsModel) view(width int) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Analytics"))
	b.WriteString("  " + m.styles.Badge.Render(fmt.Sprintf("%d months", m.months)))
	b.WriteString("\n")

	if m.errText != "" {
		b.WriteString(m.styles.Error.Render(m.errText))
		return b.String()
	}
	if !m.loaded {
		b.WriteString(m.styles.Muted.Render("loading analytics..."))
		return b.String()
	}

	b.WriteString(m.styles.Subtitle.Render("Revenue"))
	b.WriteString("\n")
	m.writeSeries(&b, m.report.Revenue, formatCents)
	b.WriteString("\n")

	b.WriteString(m.styles.Subtitle.Render("Appointments"))
	b.WriteString("\n")
	m.writeSeries(&b, m.report.Appointments, func(v int64) string {
		return strconv.FormatInt(v, 10)
	})
	b.WriteString("\n")

	b.WriteString(m.styles.Subtitle.Render("Species mix"))
	b.WriteString("\n")
	if len(m.report.SpeciesMix) == 0 {
		b.WriteString(m.styles.Muted.Render("No active patients."))
		b.WriteString("\n")
	}
	for _, share := range m.report.SpeciesMix {
		b.WriteString(fmt.Sprintf("%-10s %s %d (%d%%)\n",
			share.Species,
			m.styles.Bar.Render(bar(int64(share.Percent), 100)),
			share.Count,
			share.Percent,
		))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("[ narrower · ] wider"))
	return b.String()
}

func (m analyticsModel) writeSeries(b *strings.Builder, s analyticsservice.Series, format func(int64) string) {
	if len(s.Labels) == 0 {
		b.WriteString(m.styles.Muted.Render("No data."))
		b.WriteString("\n")
		return
	}
	for i, label := range s.Labels {
		var value int64
		if i < len(s.Values) {
			value = s.Values[i]
		}
		b.WriteString(fmt.Sprintf("%-8s %s %s\n",
			label,
			m.styles.Bar.Render(bar(value, s.Max)),
			m.styles.Muted.Render(format(value)),
		))
	}
}

// bar scales value against max onto a fixed-width block bar. A non-zero
// value always paints at least one block so small months stay visible.
func bar(value, max int64) string {
	if max <= 0 || value <= 0 {
		return strings.Repeat("·", barWidth)
	}
	n := int(value * barWidth / max)
	if n < 1 {
		n = 1
	}
	if n > barWidth {
		n = barWidth
	}
	return strings.Repeat("█", n) + strings.Repeat("·", barWidth-n)
}
