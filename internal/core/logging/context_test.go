package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithRefreshID(t *testing.T) {
	ctx := WithRefreshID(context.Background(), "refresh-123")
	assert.Equal(t, "refresh-123", GetRefreshID(ctx))
}

func TestWithTrigger(t *testing.T) {
	ctx := WithTrigger(context.Background(), "manual")
	assert.Equal(t, "manual", GetTrigger(ctx))
}

func TestContextValues_NotPresent(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRefreshID(ctx))
	assert.Empty(t, GetTrigger(ctx))
}
