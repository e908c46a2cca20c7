package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wisefido-guardian/internal/models"
)

// Dispatcher 报警分发器
// 构建报警事件，扇出到所有接收端，并尽力写入持久化存储与缓存；
// 单个接收端/存储的失败只记录日志，不会中断监测循环
type Dispatcher struct {
	sessionID string
	sinks     []Sink
	store     EventStore // 可为 nil（未启用数据库）
	cache     EventCache // 可为 nil（未启用 Redis）
	logger    *zap.Logger

	// 当前会话已触发的报警（用于刷新缓存）
	events []models.AlertEvent
}

// NewDispatcher 创建报警分发器
func NewDispatcher(
	sessionID string,
	sinks []Sink,
	store EventStore,
	cache EventCache,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		sessionID: sessionID,
		sinks:     sinks,
		store:     store,
		cache:     cache,
		logger:    logger,
	}
}

// Dispatch 触发一次报警
func (d *Dispatcher) Dispatch(ctx context.Context, trigger models.AlertTrigger) error {
	event, err := d.buildEvent(trigger)
	if err != nil {
		return fmt.Errorf("failed to build alert event: %w", err)
	}

	// 扇出到所有接收端
	for _, sink := range d.sinks {
		if err := sink.Notify(ctx, event); err != nil {
			d.logger.Error("Failed to deliver alert",
				zap.String("event_id", event.EventID),
				zap.Error(err),
			)
			// 继续投递其他接收端，不中断
		}
	}

	// 持久化报警事件
	if d.store != nil {
		if err := d.store.CreateAlertEvent(ctx, event); err != nil {
			d.logger.Error("Failed to persist alert event",
				zap.String("event_id", event.EventID),
				zap.Error(err),
			)
		}
	}

	// 刷新会话报警缓存
	d.events = append(d.events, *event)
	if d.cache != nil {
		if err := d.cache.UpdateSessionAlerts(ctx, d.sessionID, d.events); err != nil {
			d.logger.Error("Failed to update alert cache",
				zap.String("session_id", d.sessionID),
				zap.Error(err),
			)
		}
	}

	d.logger.Info("Alert dispatched",
		zap.String("event_id", event.EventID),
		zap.String("reason", trigger.Reason),
		zap.Int("score", trigger.Score),
		zap.Bool("repeat", trigger.Repeat),
	)

	return nil
}

// buildEvent 构建报警事件
func (d *Dispatcher) buildEvent(trigger models.AlertTrigger) (*models.AlertEvent, error) {
	now := time.Now()

	triggerData := models.TriggerData{
		Score:    trigger.Score,
		Reason:   trigger.Reason,
		Repeat:   trigger.Repeat,
		Readings: trigger.Readings,
	}
	triggerDataJSON, err := json.Marshal(triggerData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trigger data: %w", err)
	}

	eventType := "SafetyEscalation"
	if trigger.Reason == "final_check_failed" {
		eventType = "FinalSafetyCheck"
	}

	// 高评分报警提升级别
	alarmLevel := "ALERT"
	if trigger.Score > 70 {
		alarmLevel = "CRIT"
	}

	return &models.AlertEvent{
		EventID:     uuid.New().String(),
		SessionID:   d.sessionID,
		EventType:   eventType,
		AlarmLevel:  alarmLevel,
		AlarmStatus: "active",
		TriggeredAt: now,
		TriggerData: string(triggerDataJSON),
		CreatedAt:   now,
	}, nil
}
