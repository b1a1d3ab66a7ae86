package eventbus

import (
	"context"
	"log/slog"

	"github.com/flowmatic/flowmatic/pkg/events"
	"github.com/flowmatic/flowmatic/pkg/protocol"
)

// ActivityLog implements protocol.ActivityLog by publishing one NodeExecuted
// event per history record. Appends are fire-and-forget: publish errors are
// logged and swallowed so a broken bus never fails a run.
type ActivityLog struct {
	bus    EventBus
	logger *slog.Logger
}

func NewActivityLog(bus EventBus, logger *slog.Logger) *ActivityLog {
	return &ActivityLog{bus: bus, logger: logger}
}

func (l *ActivityLog) Append(ctx context.Context, entry protocol.ActivityEntry) {
	event := events.NodeExecuted{
		BaseEvent: events.NewBaseEvent(events.NodeExecutedEvent, entry.ExecutionID, entry.WorkflowID, entry.UserID),
		Record:    entry.Record,
	}

	if err := l.bus.Publish(ctx, event); err != nil {
		l.logger.Error("Failed to publish activity entry",
			"execution_id", entry.ExecutionID,
			"node_id", entry.Record.NodeID,
			"error", err)
	}
}
