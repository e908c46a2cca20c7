package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"wisefido-guardian/internal/models"
)

// AlertEventsRepository 报警事件仓库
type AlertEventsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAlertEventsRepository 创建报警事件仓库
func NewAlertEventsRepository(db *sql.DB, logger *zap.Logger) *AlertEventsRepository {
	return &AlertEventsRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAlertEvent 写入报警事件
func (r *AlertEventsRepository) CreateAlertEvent(ctx context.Context, event *models.AlertEvent) error {
	if event.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if event.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}

	query := `
		INSERT INTO alert_events (
			event_id,
			session_id,
			event_type,
			alarm_level,
			alarm_status,
			triggered_at,
			trigger_data,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.EventID,
		event.SessionID,
		event.EventType,
		event.AlarmLevel,
		event.AlarmStatus,
		event.TriggeredAt,
		event.TriggerData,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create alert event: %w", err)
	}

	r.logger.Debug("Alert event created",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
	)

	return nil
}

// ListSessionEvents 查询某个会话的报警事件（按触发时间倒序）
func (r *AlertEventsRepository) ListSessionEvents(ctx context.Context, sessionID string) ([]models.AlertEvent, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}

	query := `
		SELECT
			event_id,
			session_id,
			event_type,
			alarm_level,
			alarm_status,
			triggered_at,
			trigger_data,
			created_at
		FROM alert_events
		WHERE session_id = $1
		ORDER BY triggered_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert events: %w", err)
	}
	defer rows.Close()

	var events []models.AlertEvent
	for rows.Next() {
		var event models.AlertEvent
		err := rows.Scan(
			&event.EventID,
			&event.SessionID,
			&event.EventType,
			&event.AlarmLevel,
			&event.AlarmStatus,
			&event.TriggeredAt,
			&event.TriggerData,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alert events: %w", err)
	}

	return events, nil
}
