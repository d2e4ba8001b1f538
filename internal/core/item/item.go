// Package item defines catalog item domain types and the transform that
// turns a raw fetch payload into grouped, display-ready collections.
package item

import "strings"

// RawItem is a catalog entry as decoded from the remote endpoint, before
// validity filtering. Name is nil when the payload carries null or omits it.
type RawItem struct {
	ID     int     `json:"id"`
	ListID int     `json:"listId"`
	Name   *string `json:"name"`
}

// Valid reports whether the item has a name that is non-empty after trimming.
func (r RawItem) Valid() bool {
	return IsValid(r)
}

// IsValid reports whether r may appear in a Collection.
func IsValid(r RawItem) bool {
	return r.Name != nil && strings.TrimSpace(*r.Name) != ""
}

// Item is a validated catalog entry.
type Item struct {
	ID     int    `json:"id"`
	ListID int    `json:"listId"`
	Name   string `json:"name"`
}

// NewRaw is a convenience constructor for a RawItem with a present name.
func NewRaw(id, listID int, name string) RawItem {
	return RawItem{ID: id, ListID: listID, Name: &name}
}
