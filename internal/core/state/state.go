// Package state holds the catalog's observable FetchState and the Store that
// drives refreshes and publishes new snapshots to subscribers.
package state

import (
	"fmt"
	"time"

	"github.com/colonyops/catalog/internal/core/fetch"
	"github.com/colonyops/catalog/internal/core/item"
)

// FetchState is the value presentation layers render. It is never persisted.
type FetchState struct {
	Items item.Collection
	// Error is the user-facing message of the last failed refresh. Empty
	// means no error is set.
	Error   string
	Loading bool
	// UpdatedAt is when Items were last replaced by a successful refresh.
	UpdatedAt time.Time
}

// HasError reports whether an error message is set.
func (s FetchState) HasError() bool {
	return s.Error != ""
}

// ErrorMessage converts a fetch failure into the message stored in
// FetchState.Error.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	if pe, ok := fetch.AsProtocolError(err); ok {
		text := pe.StatusText
		if text == "" {
			text = "Unknown error"
		}
		return fmt.Sprintf("Error: %d - %s", pe.StatusCode, text)
	}

	return "An error occurred: " + err.Error()
}
