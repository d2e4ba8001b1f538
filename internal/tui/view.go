package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/catalog/internal/core/styles"
)

const (
	titleText = "Items List"
	emptyText = "No items available"
)

func (m Model) View() string {
	header := m.renderHeader()
	footer := m.renderFooter()

	bodyHeight := 0
	if m.height > 0 {
		bodyHeight = max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)
	}

	body := m.renderBody(bodyHeight)
	if bodyHeight > 0 {
		body = lipgloss.PlaceVertical(bodyHeight, lipgloss.Top, body)
	}

	frame := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return m.toastView.Overlay(frame, m.width, m.height)
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render(styles.IconCatalog + " " + titleText)
	if !m.state.HasError() {
		return title
	}

	banner := styles.ErrorBannerStyle
	if m.width > 0 {
		banner = banner.Width(m.width)
	}
	msg := fmt.Sprintf("%s %s  %s", styles.IconNotifyError, m.state.Error,
		styles.MutedStyle.Render("(e to dismiss, r to retry)"))
	return lipgloss.JoinVertical(lipgloss.Left, title, banner.Render(msg))
}

// renderBody draws the list. An error hides the list until it is cleared;
// the preserved items come back afterwards.
func (m Model) renderBody(height int) string {
	if m.state.HasError() || m.state.Items.IsEmpty() {
		if m.state.Loading && !m.state.HasError() {
			return styles.EmptyStyle.Render(m.spinner.View() + " Loading items…")
		}
		return styles.EmptyStyle.Render(emptyText)
	}

	m.listView.SetSize(m.width, height)
	return m.listView.Render()
}

func (m Model) renderFooter() string {
	var parts []string
	switch {
	case m.state.Loading:
		parts = append(parts, m.spinner.View()+" refreshing")
	case !m.state.UpdatedAt.IsZero():
		parts = append(parts, fmt.Sprintf("%d items in %d lists", m.state.Items.Len(), len(m.state.Items.Groups)),
			"updated "+m.state.UpdatedAt.Local().Format("15:04:05"))
	}
	if label := m.build.Label(); label != "" {
		parts = append(parts, label)
	}

	status := styles.StatusStyle.Render(strings.Join(parts, " · "))
	return lipgloss.JoinVertical(lipgloss.Left, status, styles.HelpStyle.Render(m.help.View(m.keys)))
}
