// Package catalog renders the grouped item list as collapsible sections.
package catalog

import (
	"slices"

	"github.com/colonyops/catalog/internal/core/item"
)

// RowKind distinguishes list headers from item rows.
type RowKind int

const (
	RowHeader RowKind = iota
	RowItem
)

// Row is one visible line of the list.
type Row struct {
	Kind   RowKind
	ListID int
	Count  int       // items in the group, headers only
	Item   item.Item // item rows only
}

// Controller tracks which groups are expanded and where the cursor is.
// It contains pure data logic with no Bubble Tea dependencies.
type Controller struct {
	collection item.Collection
	expanded   map[int]bool
	rows       []Row
	cursor     int
}

// NewController creates a controller with the given lists expanded.
func NewController(expanded []int) *Controller {
	c := &Controller{expanded: make(map[int]bool, len(expanded))}
	for _, id := range expanded {
		c.expanded[id] = true
	}
	return c
}

// SetCollection replaces the data. The cursor stays on the same list header
// or item when it still exists.
func (c *Controller) SetCollection(coll item.Collection) {
	var anchor *Row
	if r, ok := c.Selected(); ok {
		anchor = &r
	}

	c.collection = coll
	c.rebuild()

	if anchor != nil {
		c.cursor = c.find(*anchor)
	}
	c.clamp()
}

// Rows returns the visible rows in display order.
func (c *Controller) Rows() []Row {
	return c.rows
}

// Cursor returns the index of the selected row.
func (c *Controller) Cursor() int {
	return c.cursor
}

// Selected returns the row under the cursor.
func (c *Controller) Selected() (Row, bool) {
	if c.cursor < 0 || c.cursor >= len(c.rows) {
		return Row{}, false
	}
	return c.rows[c.cursor], true
}

// IsExpanded reports whether the list is expanded.
func (c *Controller) IsExpanded(listID int) bool {
	return c.expanded[listID]
}

// Expanded returns the expanded list IDs that exist in the current
// collection, ascending.
func (c *Controller) Expanded() []int {
	ids := make([]int, 0, len(c.expanded))
	for _, id := range c.collection.ListIDs() {
		if c.expanded[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// MoveUp moves the cursor up by n rows.
func (c *Controller) MoveUp(n int) {
	c.cursor -= n
	c.clamp()
}

// MoveDown moves the cursor down by n rows.
func (c *Controller) MoveDown(n int) {
	c.cursor += n
	c.clamp()
}

// Top moves the cursor to the first row.
func (c *Controller) Top() {
	c.cursor = 0
	c.clamp()
}

// Bottom moves the cursor to the last row.
func (c *Controller) Bottom() {
	c.cursor = len(c.rows) - 1
	c.clamp()
}

// Toggle expands or collapses the group under the cursor. On an item row
// the owning group collapses and the cursor moves to its header.
func (c *Controller) Toggle() {
	r, ok := c.Selected()
	if !ok {
		return
	}

	c.expanded[r.ListID] = !c.expanded[r.ListID]
	c.rebuild()
	c.cursor = c.find(Row{Kind: RowHeader, ListID: r.ListID})
	c.clamp()
}

// ToggleAll expands every group, or collapses them all when every group is
// already expanded.
func (c *Controller) ToggleAll() {
	ids := c.collection.ListIDs()
	allOpen := len(ids) > 0
	for _, id := range ids {
		if !c.expanded[id] {
			allOpen = false
			break
		}
	}

	var anchor int
	if r, ok := c.Selected(); ok {
		anchor = r.ListID
	}

	for _, id := range ids {
		c.expanded[id] = !allOpen
	}
	c.rebuild()
	c.cursor = c.find(Row{Kind: RowHeader, ListID: anchor})
	c.clamp()
}

func (c *Controller) rebuild() {
	rows := make([]Row, 0, len(c.collection.Groups))
	for _, g := range c.collection.Groups {
		rows = append(rows, Row{Kind: RowHeader, ListID: g.ListID, Count: len(g.Items)})
		if !c.expanded[g.ListID] {
			continue
		}
		for _, it := range g.Items {
			rows = append(rows, Row{Kind: RowItem, ListID: g.ListID, Item: it})
		}
	}
	c.rows = rows
}

// find returns the index of target, falling back to its group header and
// then to the first row.
func (c *Controller) find(target Row) int {
	if i := slices.IndexFunc(c.rows, func(r Row) bool {
		return r.Kind == target.Kind && r.ListID == target.ListID && r.Item.ID == target.Item.ID
	}); i >= 0 {
		return i
	}
	if i := slices.IndexFunc(c.rows, func(r Row) bool {
		return r.Kind == RowHeader && r.ListID == target.ListID
	}); i >= 0 {
		return i
	}
	return 0
}

func (c *Controller) clamp() {
	c.cursor = max(0, min(c.cursor, len(c.rows)-1))
}
