package observability

import (
	"context"

	"go.uber.org/zap"

	"github.com/epicevents/crm/internal/events"
)

// auditedEvents are recorded at info level; everything else stays at debug.
var auditedEvents = map[events.EventType]bool{
	events.EventCollaboratorCreated: true,
	events.EventCollaboratorUpdated: true,
	events.EventCollaboratorDeleted: true,
	events.EventClientCreated:       true,
	events.EventClientUpdated:       true,
	events.EventEventCreated:        true,
}

// RegisterAuditLog subscribes a structured log line for every event type.
func RegisterAuditLog(d events.Dispatcher, logger *zap.Logger) {
	types := []events.EventType{
		events.EventSessionIssued,
		events.EventSessionReused,
		events.EventSessionCleared,
		events.EventCollaboratorCreated,
		events.EventCollaboratorUpdated,
		events.EventCollaboratorDeleted,
		events.EventClientCreated,
		events.EventClientUpdated,
		events.EventEventCreated,
	}
	for _, eventType := range types {
		d.Subscribe(eventType, auditHandler(logger))
	}
}

func auditHandler(logger *zap.Logger) events.EventHandler {
	return func(_ context.Context, e events.Event) error {
		fields := []zap.Field{
			zap.String("event", string(e.Type)),
			zap.Time("at", e.Timestamp),
			zap.Any("payload", e.Payload),
		}
		if e.Actor != nil {
			fields = append(fields, zap.Int64("actor_id", e.Actor.ID), zap.String("actor", e.Actor.Name))
		}
		if auditedEvents[e.Type] {
			logger.Info("audit", fields...)
		} else {
			logger.Debug("audit", fields...)
		}
		return nil
	}
}
