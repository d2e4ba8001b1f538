package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/catalog/internal/core/notify"
	"github.com/colonyops/catalog/internal/core/styles"
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastView renders toast notifications and composites them over a frame.
type ToastView struct {
	controller *ToastController
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{controller: controller}
}

// View stacks the toasts vertically, oldest first.
func (v *ToastView) View() string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, renderToast(t))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

func renderToast(t toast) string {
	var (
		icon  string
		style lipgloss.Style
	)

	switch t.notification.Level {
	case notify.LevelError:
		icon = styles.IconNotifyError
		style = styles.ToastErrorStyle
	case notify.LevelWarning:
		icon = styles.IconNotifyWarning
		style = styles.ToastWarningStyle
	default:
		icon = styles.IconNotifyInfo
		style = styles.ToastInfoStyle
	}

	return style.Width(toastWidth).Render(icon + " " + t.notification.Message)
}

// Overlay draws the toast stack over the lower-right corner of background.
// Background lines under the stack are cut at the toast's left edge.
func (v *ToastView) Overlay(background string, width, height int) string {
	stack := v.View()
	if stack == "" {
		return background
	}

	bg := strings.Split(background, "\n")
	for len(bg) < height {
		bg = append(bg, "")
	}

	fg := strings.Split(stack, "\n")
	stackW := lipgloss.Width(stack)
	left := max(width-stackW-1, 0)
	top := max(len(bg)-len(fg), 0)

	for i, line := range fg {
		row := top + i
		if row >= len(bg) {
			break
		}
		prefix := ansi.Truncate(bg[row], left, "")
		if pad := left - ansi.StringWidth(prefix); pad > 0 {
			prefix += strings.Repeat(" ", pad)
		}
		bg[row] = prefix + line
	}

	return strings.Join(bg, "\n")
}
