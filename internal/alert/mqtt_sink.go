package alert

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"wisefido-guardian/internal/models"
	"wisefido-guardian/internal/mqtt"
)

// MQTTSink 生产环境报警接收端
// 将报警事件以 JSON 发布到报警主题，由下游消息/寻呼服务消费
type MQTTSink struct {
	client *mqtt.Client
	topic  string
	logger *zap.Logger
}

// NewMQTTSink 创建MQTT报警接收端
func NewMQTTSink(client *mqtt.Client, topic string, logger *zap.Logger) *MQTTSink {
	return &MQTTSink{
		client: client,
		topic:  topic,
		logger: logger,
	}
}

// Notify 发布报警事件
func (s *MQTTSink) Notify(ctx context.Context, event *models.AlertEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	if err := s.client.Publish(s.topic, 1, false, payload); err != nil {
		return fmt.Errorf("failed to publish alert event: %w", err)
	}

	s.logger.Info("Alert published to MQTT",
		zap.String("event_id", event.EventID),
		zap.String("topic", s.topic),
	)

	return nil
}
