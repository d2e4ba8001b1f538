package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  map[string]string
		wantEmpty []string
	}{
		{
			name: "refresh id and trigger",
			setupCtx: func() context.Context {
				ctx := WithRefreshID(context.Background(), "r-1")
				return WithTrigger(ctx, "interval")
			},
			wantKeys: map[string]string{"refresh_id": "r-1", "trigger": "interval"},
		},
		{
			name: "only refresh id",
			setupCtx: func() context.Context {
				return WithRefreshID(context.Background(), "r-2")
			},
			wantKeys:  map[string]string{"refresh_id": "r-2"},
			wantEmpty: []string{"trigger"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"refresh_id", "trigger"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Hook(ContextHook{})

			logger.Info().Ctx(tt.setupCtx()).Msg("hello")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			for k, v := range tt.wantKeys {
				assert.Equal(t, v, entry[k], "key %s", k)
			}
			for _, k := range tt.wantEmpty {
				assert.NotContains(t, entry, k)
			}
		})
	}
}
