// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import "github.com/charmbracelet/lipgloss"

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	SuccessStyle       lipgloss.Style
	WarningStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style
	MutedStyle         lipgloss.Style

	// Catalog view.
	TitleStyle          lipgloss.Style
	HeaderStyle         lipgloss.Style
	HeaderSelectedStyle lipgloss.Style
	ItemStyle           lipgloss.Style
	ItemSelectedStyle   lipgloss.Style
	EmptyStyle          lipgloss.Style
	ErrorBannerStyle    lipgloss.Style
	StatusStyle         lipgloss.Style
	HelpStyle           lipgloss.Style

	// Toasts.
	ToastInfoStyle    lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	selection := Blend(p.Surface, p.Primary, 0.25)

	CommandHeaderStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	DividerStyle = lipgloss.NewStyle().Foreground(p.Muted)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	WarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	MutedStyle = lipgloss.NewStyle().Foreground(p.Muted)

	TitleStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		Padding(0, 1)
	HeaderStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Bold(true)
	HeaderSelectedStyle = HeaderStyle.
		Background(selection)
	ItemStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		PaddingLeft(4)
	ItemSelectedStyle = ItemStyle.
		Background(selection)
	EmptyStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true).
		Padding(1, 2)
	ErrorBannerStyle = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Error).
		Bold(true).
		Padding(0, 1)
	StatusStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 1)
	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 1)

	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Foreground(p.Foreground)
	ToastInfoStyle = toast.BorderForeground(p.Primary)
	ToastWarningStyle = toast.BorderForeground(p.Warning)
	ToastErrorStyle = toast.BorderForeground(p.Error)
}

func init() {
	p, _ := GetPalette(DefaultTheme)
	SetTheme(p)
}
