// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within catalog.
package eventbus

import (
	"time"

	"github.com/colonyops/catalog/internal/core/notify"
)

// Keep list sorted A-Z.
const (
	EventCatalogErrorCleared   Event = "catalog.error-cleared"
	EventCatalogRefreshFailed  Event = "catalog.refresh-failed"
	EventCatalogRefreshed      Event = "catalog.refreshed"
	EventNotificationPublished Event = "notification.published"
)

// CatalogRefreshedPayload is emitted after a successful refresh is published.
type CatalogRefreshedPayload struct {
	RefreshID  string
	Groups     int
	Items      int
	FinishedAt time.Time
}

// CatalogRefreshFailedPayload is emitted after a failed refresh is published.
type CatalogRefreshFailedPayload struct {
	RefreshID string
	Message   string
}

// CatalogErrorClearedPayload is emitted when the store error is cleared by the user.
type CatalogErrorClearedPayload struct{}

// NotificationPublishedPayload carries a user-facing notification.
type NotificationPublishedPayload struct {
	Level   notify.Level
	Message string
}

// PublishCatalogRefreshed queues a catalog.refreshed event.
func (b *EventBus) PublishCatalogRefreshed(p CatalogRefreshedPayload) {
	b.publish(EventCatalogRefreshed, p)
}

// SubscribeCatalogRefreshed registers fn for catalog.refreshed events.
func (b *EventBus) SubscribeCatalogRefreshed(fn func(CatalogRefreshedPayload)) {
	b.subscribe(EventCatalogRefreshed, func(p any) { fn(p.(CatalogRefreshedPayload)) })
}

// PublishCatalogRefreshFailed queues a catalog.refresh-failed event.
func (b *EventBus) PublishCatalogRefreshFailed(p CatalogRefreshFailedPayload) {
	b.publish(EventCatalogRefreshFailed, p)
}

// SubscribeCatalogRefreshFailed registers fn for catalog.refresh-failed events.
func (b *EventBus) SubscribeCatalogRefreshFailed(fn func(CatalogRefreshFailedPayload)) {
	b.subscribe(EventCatalogRefreshFailed, func(p any) { fn(p.(CatalogRefreshFailedPayload)) })
}

// PublishCatalogErrorCleared queues a catalog.error-cleared event.
func (b *EventBus) PublishCatalogErrorCleared(p CatalogErrorClearedPayload) {
	b.publish(EventCatalogErrorCleared, p)
}

// SubscribeCatalogErrorCleared registers fn for catalog.error-cleared events.
func (b *EventBus) SubscribeCatalogErrorCleared(fn func(CatalogErrorClearedPayload)) {
	b.subscribe(EventCatalogErrorCleared, func(p any) { fn(p.(CatalogErrorClearedPayload)) })
}

// PublishNotificationPublished queues a notification.published event.
func (b *EventBus) PublishNotificationPublished(p NotificationPublishedPayload) {
	b.publish(EventNotificationPublished, p)
}

// SubscribeNotificationPublished registers fn for notification.published events.
func (b *EventBus) SubscribeNotificationPublished(fn func(NotificationPublishedPayload)) {
	b.subscribe(EventNotificationPublished, func(p any) { fn(p.(NotificationPublishedPayload)) })
}
