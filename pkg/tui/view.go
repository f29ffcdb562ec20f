package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harveywai/leadflow/pkg/dashboard"
	"github.com/harveywai/leadflow/pkg/format"
	"github.com/harveywai/leadflow/pkg/render"
)

// Column widths of the lead tables.
const (
	nameWidth        = 26
	descriptionWidth = 52
	badgeWidth       = 13
	createdWidth     = 16
	barWidth         = 30
)

// View renders the whole screen.
func (model Model) View() string {
	page := render.BuildPage(model.state.Snapshot(), model.syncs(), model.clock.Now())

	var b strings.Builder
	b.WriteString(model.renderTabs(page))
	b.WriteString("\n\n")
	b.WriteString(model.theme.Title.Render(page.Header.Title))
	b.WriteString("  ")
	b.WriteString(model.theme.Subtitle.Render(page.Header.Subtitle))
	b.WriteString("\n")
	b.WriteString(model.renderStatus(page))
	b.WriteString("\n\n")

	if model.modal != nil {
		b.WriteString(model.renderModal(*model.modal))
	} else {
		switch page.View {
		case dashboard.ViewDashboard:
			b.WriteString(model.renderCards(page.Cards))
			b.WriteString("\n")
			b.WriteString(model.renderTable(page.Recent, false))
		case dashboard.ViewLeads:
			b.WriteString(model.renderFilters(page))
			b.WriteString("\n\n")
			b.WriteString(model.renderTable(page.All, true))
		case dashboard.ViewAnalytics:
			b.WriteString(model.renderAnalytics(page.Analytics))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(model.help.View(model.keys))
	return b.String()
}

func (model Model) renderTabs(page render.Page) string {
	tabs := make([]string, 0, len(page.Nav))
	for i, item := range page.Nav {
		label := fmt.Sprintf("%d %s", i+1, item.Label)
		if item.Active {
			tabs = append(tabs, model.theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, model.theme.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (model Model) renderStatus(page render.Page) string {
	line := model.theme.accent(page.Status.Accent, "● "+page.Status.Label)
	line += model.theme.Muted.Render("  last sync " + page.LastSync)
	if model.loading {
		line += "  " + model.spinner.View()
	}
	return line
}

func (model Model) renderCards(cards []render.StatCard) string {
	boxes := make([]string, 0, len(cards))
	for _, card := range cards {
		boxes = append(boxes, model.theme.Card.Render(
			model.theme.Muted.Render(card.Label)+"\n"+model.theme.Title.Render(card.Value),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (model Model) renderFilters(page render.Page) string {
	return model.theme.Muted.Render("Status: ") + selectedLabel(page.StatusOptions) +
		model.theme.Muted.Render("   Priority: ") + selectedLabel(page.PriorityOptions)
}

func selectedLabel(options []render.Option) string {
	for _, o := range options {
		if o.Selected {
			return o.Label
		}
	}
	return options[0].Label
}

func (model Model) renderTable(table render.Table, withDescription bool) string {
	var b strings.Builder

	header := cell("Name", nameWidth)
	if withDescription {
		header += cell("Description", descriptionWidth)
	}
	header += cell("Status", badgeWidth) + cell("Priority", badgeWidth) + cell("Created", createdWidth)
	b.WriteString(model.theme.Header.Render(header))
	b.WriteString("\n")

	if msg := table.Message; msg != nil {
		style := model.theme.Muted
		if msg.Kind == render.MessageError {
			style = model.theme.Error
		}
		b.WriteString(style.Render(msg.Text))
		if msg.Hint != "" {
			b.WriteString("\n")
			b.WriteString(model.theme.Muted.Render(msg.Hint))
		}
		return b.String()
	}

	for i, row := range table.Rows {
		line := cell(row.Name, nameWidth)
		if withDescription {
			line += cell(row.Description, descriptionWidth)
		}
		line += model.badgeCell(row.Status) + model.badgeCell(row.Priority) + cell(row.Created, createdWidth)
		if i == model.cursor {
			line = model.theme.Selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (model Model) badgeCell(badge render.Badge) string {
	return lipgloss.NewStyle().Width(badgeWidth).Render(model.theme.badge(badge))
}

// cell truncates s and pads it to width runes.
func cell(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(format.TruncateText(s, width-4))
}

func (model Model) renderAnalytics(a render.Analytics) string {
	var b strings.Builder

	b.WriteString(model.theme.Header.Render("Leads by Status"))
	b.WriteString("\n")
	for _, bar := range a.ByStatus {
		b.WriteString(model.renderBar(bar))
	}
	b.WriteString("\n")
	b.WriteString(model.theme.Header.Render("Leads by Priority"))
	b.WriteString("\n")
	for _, bar := range a.ByPriority {
		b.WriteString(model.renderBar(bar))
	}

	b.WriteString("\n")
	b.WriteString(model.theme.Header.Render("Sync History"))
	b.WriteString("\n")
	if len(a.Syncs) == 0 {
		b.WriteString(model.theme.Muted.Render("No sync recorded yet."))
		return b.String()
	}
	for _, s := range a.Syncs {
		result := s.Result
		if !s.OK {
			result = model.theme.Error.Render(result)
		}
		fmt.Fprintf(&b, "#%-4d %-16s %-8s %3d leads  %s\n", s.Generation, s.When, s.Duration, s.Leads, result)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (model Model) renderBar(bar render.Breakdown) string {
	filled := bar.Percent * barWidth / 100
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	color := model.theme.Badges[bar.Class]
	graph := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		model.theme.Muted.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %s %d (%d%%)\n", cell(bar.Label, badgeWidth), graph, bar.Count, bar.Percent)
}

func (model Model) renderModal(modal render.Modal) string {
	switch {
	case modal.Loading:
		return model.theme.Modal.Render(model.spinner.View() + " " + render.DetailLoadingText)
	case modal.Error != "":
		return model.theme.Modal.Render(model.theme.Error.Render(modal.Error))
	}

	d := modal.Detail
	lines := []string{
		model.theme.Title.Render(d.Name),
		model.theme.badge(d.Status) + "  " + model.theme.badge(d.Priority),
		"",
		model.theme.Header.Render("Description"),
		d.Description,
		"",
		model.theme.Muted.Render("Created  ") + d.Created,
		model.theme.Muted.Render("Updated  ") + d.Updated,
	}
	if d.Source != "" {
		lines = append(lines, model.theme.Muted.Render("Source   ")+d.Source)
	}
	if d.Link != "" {
		lines = append(lines, "", model.theme.Link.Render(d.LinkText)+" "+model.theme.Muted.Render(d.Link))
	}
	return model.theme.Modal.Render(strings.Join(lines, "\n"))
}
