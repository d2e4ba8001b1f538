package state

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/catalog/internal/core/fetch"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"protocol", &fetch.ProtocolError{StatusCode: 404, StatusText: "Not Found"}, "Error: 404 - Not Found"},
		{"protocol empty text", &fetch.ProtocolError{StatusCode: 500}, "Error: 500 - Unknown error"},
		{"wrapped protocol", fmt.Errorf("fetch: %w", &fetch.ProtocolError{StatusCode: 503, StatusText: "Service Unavailable"}), "Error: 503 - Service Unavailable"},
		{"transport", &fetch.TransportError{Err: errors.New("Network error")}, "An error occurred: Network error"},
		{"other", errors.New("boom"), "An error occurred: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

func TestFetchState_HasError(t *testing.T) {
	assert.False(t, FetchState{}.HasError())
	assert.True(t, FetchState{Error: "x"}.HasError())
}
