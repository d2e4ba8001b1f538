package catalog

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/catalog/internal/core/styles"
)

// View renders a Controller into a fixed-height window that scrolls to keep
// the cursor visible.
type View struct {
	ctrl   *Controller
	width  int
	height int
	offset int
}

// NewView creates a view over ctrl.
func NewView(ctrl *Controller) *View {
	return &View{ctrl: ctrl}
}

// SetSize sets the drawable area.
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Offset returns the index of the first visible row.
func (v *View) Offset() int {
	return v.offset
}

// Render draws the visible rows.
func (v *View) Render() string {
	rows := v.ctrl.Rows()
	if len(rows) == 0 {
		return ""
	}

	v.scrollToCursor(len(rows))

	end := len(rows)
	if v.height > 0 {
		end = min(end, v.offset+v.height)
	}

	lines := make([]string, 0, end-v.offset)
	for i := v.offset; i < end; i++ {
		lines = append(lines, v.renderRow(rows[i], i == v.ctrl.Cursor()))
	}
	return strings.Join(lines, "\n")
}

func (v *View) scrollToCursor(total int) {
	if v.height <= 0 {
		v.offset = 0
		return
	}

	cursor := v.ctrl.Cursor()
	if cursor < v.offset {
		v.offset = cursor
	}
	if cursor >= v.offset+v.height {
		v.offset = cursor - v.height + 1
	}
	v.offset = max(0, min(v.offset, total-v.height))
}

func (v *View) renderRow(r Row, selected bool) string {
	var (
		text  string
		style lipgloss.Style
	)

	switch r.Kind {
	case RowHeader:
		icon := styles.IconCollapsed
		if v.ctrl.IsExpanded(r.ListID) {
			icon = styles.IconExpanded
		}
		text = fmt.Sprintf("%s List %d %s", icon, r.ListID, styles.MutedStyle.Render(fmt.Sprintf("(%d)", r.Count)))
		style = styles.HeaderStyle
		if selected {
			style = styles.HeaderSelectedStyle
		}
	default:
		text = r.Item.Name
		style = styles.ItemStyle
		if selected {
			style = styles.ItemSelectedStyle
		}
	}

	if v.width > 0 {
		style = style.Width(v.width).MaxWidth(v.width)
	}
	return style.Render(text)
}
