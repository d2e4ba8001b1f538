package eventbus

import (
	"fmt"

	"github.com/colonyops/catalog/internal/core/notify"
)

// NotificationRouter maps catalog events to user-facing notifications.
type NotificationRouter struct {
	bus *EventBus
}

// NewNotificationRouter constructs a router for event-to-notification mappings.
func NewNotificationRouter(bus *EventBus) *NotificationRouter {
	return &NotificationRouter{bus: bus}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil {
		return
	}

	r.bus.SubscribeCatalogRefreshed(func(p CatalogRefreshedPayload) {
		r.notifyf(notify.LevelInfo, "loaded %d items in %d lists", p.Items, p.Groups)
	})

	r.bus.SubscribeCatalogRefreshFailed(func(p CatalogRefreshFailedPayload) {
		if p.Message == "" {
			return
		}
		r.notifyf(notify.LevelError, "%s", p.Message)
	})
}

func (r *NotificationRouter) notifyf(level notify.Level, format string, args ...any) {
	r.bus.PublishNotificationPublished(NotificationPublishedPayload{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}
