package models

import (
	"time"
)

// AlertEvent 报警事件（对应 alert_events 表）
type AlertEvent struct {
	EventID     string    `json:"event_id" db:"event_id"`
	SessionID   string    `json:"session_id" db:"session_id"`
	EventType   string    `json:"event_type" db:"event_type"` // SafetyEscalation, FinalSafetyCheck
	AlarmLevel  string    `json:"alarm_level" db:"alarm_level"` // ALERT, CRIT
	AlarmStatus string    `json:"alarm_status" db:"alarm_status"` // active, acknowledged
	TriggeredAt time.Time `json:"triggered_at" db:"triggered_at"`
	TriggerData string    `json:"trigger_data" db:"trigger_data"` // JSONB
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TriggerData 触发数据快照（JSONB 结构）
type TriggerData struct {
	Score    int       `json:"score"`
	Reason   string    `json:"reason"` // no_response, unsafe_response, final_check_failed
	Repeat   bool      `json:"repeat"` // 是否为未应答后的重复报警
	Readings []Reading `json:"readings,omitempty"`
}

// AlertTrigger 报警触发请求（由状态机传给报警分发器）
type AlertTrigger struct {
	Reason   string
	Score    int
	Repeat   bool
	Readings []Reading
}
