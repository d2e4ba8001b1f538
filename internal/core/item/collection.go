package item

import (
	"cmp"
	"slices"
)

// Group holds the valid items that share a ListID, sorted by name then id.
type Group struct {
	ListID int    `json:"listId"`
	Items  []Item `json:"items"`
}

// Collection is the ordered output of BuildCollection. Groups are sorted by
// ascending ListID and none of them is empty.
type Collection struct {
	Groups []Group `json:"groups"`
}

// Len returns the total number of items across all groups.
func (c Collection) Len() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Items)
	}
	return n
}

// IsEmpty returns true when the collection has no groups.
func (c Collection) IsEmpty() bool {
	return len(c.Groups) == 0
}

// ListIDs returns the group keys in display order.
func (c Collection) ListIDs() []int {
	ids := make([]int, len(c.Groups))
	for i, g := range c.Groups {
		ids[i] = g.ListID
	}
	return ids
}

// Group returns the group for listID, if present.
func (c Collection) Group(listID int) (Group, bool) {
	i, found := slices.BinarySearchFunc(c.Groups, listID, func(g Group, id int) int {
		return cmp.Compare(g.ListID, id)
	})
	if !found {
		return Group{}, false
	}
	return c.Groups[i], true
}

// BuildCollection filters out invalid items, groups the rest by ListID and
// sorts them. Groups come out ordered by ascending ListID; within a group
// items are ordered by Name (byte-wise, case-sensitive) with ties broken by
// ascending ID. Duplicate IDs are kept. The input slice is not modified.
func BuildCollection(raw []RawItem) Collection {
	if len(raw) == 0 {
		return Collection{}
	}

	groups := make(map[int][]Item)
	for _, r := range raw {
		if !IsValid(r) {
			continue
		}
		groups[r.ListID] = append(groups[r.ListID], Item{
			ID:     r.ID,
			ListID: r.ListID,
			Name:   *r.Name,
		})
	}

	result := make([]Group, 0, len(groups))
	for listID, items := range groups {
		sortItems(items)
		result = append(result, Group{ListID: listID, Items: items})
	}

	slices.SortFunc(result, func(a, b Group) int {
		return cmp.Compare(a.ListID, b.ListID)
	})

	return Collection{Groups: result}
}

// sortItems orders items by name, then id. Stable so exact duplicates keep
// their payload order.
func sortItems(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
