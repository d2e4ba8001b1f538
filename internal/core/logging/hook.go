package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies refresh_id and trigger from the event context onto the
// log line. Events must carry a context via (*zerolog.Event).Ctx.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if id := GetRefreshID(ctx); id != "" {
		e.Str("refresh_id", id)
	}

	if t := GetTrigger(ctx); t != "" {
		e.Str("trigger", t)
	}
}
