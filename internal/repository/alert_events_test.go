package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wisefido-guardian/internal/models"
)

func setupMockAlertEventsDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *AlertEventsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewAlertEventsRepository(db, zap.NewNop())

	return db, mock, repo
}

func TestCreateAlertEvent_Success(t *testing.T) {
	db, mock, repo := setupMockAlertEventsDB(t)
	defer db.Close()

	now := time.Now()
	event := &models.AlertEvent{
		EventID:     uuid.New().String(),
		SessionID:   uuid.New().String(),
		EventType:   "SafetyEscalation",
		AlarmLevel:  "ALERT",
		AlarmStatus: "active",
		TriggeredAt: now,
		TriggerData: `{"score": 60, "reason": "no_response"}`,
		CreatedAt:   now,
	}

	mock.ExpectExec(`INSERT INTO alert_events`).
		WithArgs(
			event.EventID,
			event.SessionID,
			event.EventType,
			event.AlarmLevel,
			event.AlarmStatus,
			event.TriggeredAt,
			event.TriggerData,
			event.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateAlertEvent(context.Background(), event)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAlertEvent_MissingEventID(t *testing.T) {
	db, mock, repo := setupMockAlertEventsDB(t)
	defer db.Close()

	event := &models.AlertEvent{
		SessionID: uuid.New().String(),
	}

	err := repo.CreateAlertEvent(context.Background(), event)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "event_id is required")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAlertEvent_DBError(t *testing.T) {
	db, mock, repo := setupMockAlertEventsDB(t)
	defer db.Close()

	event := &models.AlertEvent{
		EventID:   uuid.New().String(),
		SessionID: uuid.New().String(),
	}

	mock.ExpectExec(`INSERT INTO alert_events`).
		WillReturnError(sql.ErrConnDone)

	err := repo.CreateAlertEvent(context.Background(), event)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create alert event")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListSessionEvents_Success(t *testing.T) {
	db, mock, repo := setupMockAlertEventsDB(t)
	defer db.Close()

	sessionID := uuid.New().String()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"event_id", "session_id", "event_type", "alarm_level",
		"alarm_status", "triggered_at", "trigger_data", "created_at",
	}).AddRow(
		"event-2", sessionID, "SafetyEscalation", "CRIT",
		"active", now, `{"score": 100}`, now,
	).AddRow(
		"event-1", sessionID, "SafetyEscalation", "ALERT",
		"active", now.Add(-time.Minute), `{"score": 60}`, now.Add(-time.Minute),
	)

	mock.ExpectQuery(`SELECT`).
		WithArgs(sessionID).
		WillReturnRows(rows)

	events, err := repo.ListSessionEvents(context.Background(), sessionID)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "event-2", events[0].EventID)
	assert.Equal(t, "CRIT", events[0].AlarmLevel)
	assert.Equal(t, sessionID, events[1].SessionID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListSessionEvents_MissingSessionID(t *testing.T) {
	db, mock, repo := setupMockAlertEventsDB(t)
	defer db.Close()

	events, err := repo.ListSessionEvents(context.Background(), "")

	assert.Error(t, err)
	assert.Nil(t, events)
	assert.Contains(t, err.Error(), "session_id is required")
	require.NoError(t, mock.ExpectationsWereMet())
}
