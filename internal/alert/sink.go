package alert

import (
	"context"

	"wisefido-guardian/internal/models"
)

// Sink 报警接收端接口
// 状态机只要求调用发生，不要求同步成功（fire-and-forget）
type Sink interface {
	// Notify 投递一个报警事件
	Notify(ctx context.Context, event *models.AlertEvent) error
}

// EventStore 报警事件持久化接口（由 repository 实现）
type EventStore interface {
	CreateAlertEvent(ctx context.Context, event *models.AlertEvent) error
}

// EventCache 报警事件缓存接口（由 cache 实现）
type EventCache interface {
	UpdateSessionAlerts(ctx context.Context, sessionID string, events []models.AlertEvent) error
}
