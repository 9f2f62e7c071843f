package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ivenhartford/LCH-sub002/internal/search"
	"github.com/ivenhartford/LCH-sub002/platform/apperr"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

const overlayWidth = 64

// searchRow is one selectable line in the overlay, flattened across groups.
type searchRow struct {
	kind  search.Kind
	id    uuid.UUID
	label string
}

// overlayModel renders the global search box over whatever page is open.
// All state transitions come from aggregator snapshots; the overlay itself
// only owns the text input and the selection cursor.
type overlayModel struct {
	active bool
	input  textinput.Model
	spin   spinner.Model
	snap   search.Snapshot
	cursor int
	styles Styles
}

func newOverlay(styles Styles) overlayModel {
	input := textinput.New()
	input.Placeholder = "clients, patients, appointments..."
	input.Prompt = "search> "
	input.CharLimit = 100

	spin := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	spin.Style = styles.Subtitle

	return overlayModel{input: input, spin: spin, styles: styles}
}

func (o *overlayModel) open() tea.Cmd {
	o.active = true
	o.cursor = 0
	o.snap = search.Snapshot{}
	o.input.Reset()
	return o.input.Focus()
}

func (o *overlayModel) close() {
	o.active = false
	o.input.Blur()
}

// setSnapshot applies an aggregator snapshot and keeps the cursor inside
// the new result set.
func (o *overlayModel) setSnapshot(snap search.Snapshot) {
	o.snap = snap
	if total := snap.Groups.Total(); o.cursor >= total {
		o.cursor = 0
	}
}

func (o *overlayModel) moveCursor(delta int) {
	total := o.snap.Groups.Total()
	if total == 0 {
		o.cursor = 0
		return
	}
	o.cursor = (o.cursor + delta + total) % total
}

// selected returns the hit under the cursor.
func (o *overlayModel) selected() (search.Kind, uuid.UUID, bool) {
	rows := o.rows()
	if o.cursor < 0 || o.cursor >= len(rows) {
		return "", uuid.Nil, false
	}
	row := rows[o.cursor]
	return row.kind, row.id, true
}

func (o *overlayModel) rows() []searchRow {
	groups := o.snap.Groups
	rows := make([]searchRow, 0, groups.Total())
	for _, c := range groups.Clients {
		label := c.DisplayName()
		if c.Email != "" {
			label += "  " + o.styles.Muted.Render(c.Email)
		} else if c.PhonePrimary != "" {
			label += "  " + o.styles.Muted.Render(c.PhonePrimary)
		}
		rows = append(rows, searchRow{kind: search.KindClient, id: c.ID, label: label})
	}
	for _, p := range groups.Patients {
		label := p.Name
		if p.Breed != "" {
			label += "  " + o.styles.Muted.Render(p.Breed)
		}
		if p.OwnerName != "" {
			label += o.styles.Muted.Render(" · "+p.OwnerName)
		}
		rows = append(rows, searchRow{kind: search.KindPatient, id: p.ID, label: label})
	}
	for _, a := range groups.Appointments {
		label := swatch(a.TypeColor) + a.Title +
			"  " + o.styles.Muted.Render(a.StartTime.Format("Jan 2 15:04")) +
			o.styles.Muted.Render(" · "+a.PatientName)
		rows = append(rows, searchRow{kind: search.KindAppointment, id: a.ID, label: label})
	}
	return rows
}

func (o *overlayModel) View() string {
	var b strings.Builder
	b.WriteString(o.input.View())
	b.WriteString("\n")

	switch {
	case o.snap.Loading:
		b.WriteString(o.spin.View() + " " + o.styles.Muted.Render("searching..."))
		if o.snap.Groups.Total() > 0 {
			b.WriteString("\n")
			o.writeGroups(&b)
		}
	case o.snap.Phase == search.PhaseError:
		b.WriteString(o.styles.Error.Render(userMessage(o.snap.Err)))
	case o.snap.Empty():
		b.WriteString(o.styles.Muted.Render(fmt.Sprintf("No results for %q", strings.TrimSpace(o.snap.Query))))
	case o.snap.Groups.Total() > 0:
		o.writeGroups(&b)
	default:
		b.WriteString(o.styles.Muted.Render("Type at least two characters to search"))
	}

	b.WriteString("\n")
	b.WriteString(o.styles.Muted.Render("↑/↓ select · enter open · esc close"))
	return o.styles.Overlay.Width(overlayWidth).Render(b.String())
}

// writeGroups renders the three groups in fixed order. Count labels always
// show, zero matches included, so the groups read Clients (1) / Patients (0)
// / Appointments (0).
func (o *overlayModel) writeGroups(b *strings.Builder) {
	rows := o.rows()
	idx := 0
	groups := o.snap.Groups

	writeGroup := func(label string, n int) {
		b.WriteString(o.styles.GroupLabel.Render(fmt.Sprintf("%s (%d)", label, n)))
		b.WriteString("\n")
		for i := 0; i < n; i++ {
			line := "  " + rows[idx].label
			if idx == o.cursor {
				line = o.styles.Selected.Render("> " + rows[idx].label)
			}
			b.WriteString(line)
			b.WriteString("\n")
			idx++
		}
	}

	writeGroup("Clients", len(groups.Clients))
	writeGroup("Patients", len(groups.Patients))
	writeGroup("Appointments", len(groups.Appointments))
}

// userMessage prefers the typed error's message over the wrapped chain.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	var typed *apperr.Error
	if errors.As(err, &typed) {
		return typed.Message
	}
	return err.Error()
}
