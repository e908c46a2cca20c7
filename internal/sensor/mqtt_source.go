package sensor

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"wisefido-guardian/internal/models"
	"wisefido-guardian/internal/mqtt"
)

// MQTTSource 生产环境遥测数据源
// 订阅可穿戴设备的遥测主题，将 JSON 读数写入缓冲通道，
// Next 每周期取出最近一条（无数据时阻塞等待）
type MQTTSource struct {
	client   *mqtt.Client
	topic    string
	readings chan models.Reading
	logger   *zap.Logger
}

// NewMQTTSource 创建MQTT遥测数据源并订阅主题
func NewMQTTSource(client *mqtt.Client, topic string, logger *zap.Logger) (*MQTTSource, error) {
	s := &MQTTSource{
		client:   client,
		topic:    topic,
		readings: make(chan models.Reading, 16),
		logger:   logger,
	}

	if err := client.Subscribe(topic, 1, s.handleMessage); err != nil {
		return nil, fmt.Errorf("failed to subscribe to telemetry topic: %w", err)
	}

	logger.Info("MQTT telemetry source started",
		zap.String("topic", topic),
	)

	return s, nil
}

// handleMessage 解码遥测消息
func (s *MQTTSource) handleMessage(topic string, payload []byte) error {
	var reading models.Reading
	if err := json.Unmarshal(payload, &reading); err != nil {
		return fmt.Errorf("failed to unmarshal telemetry payload: %w", err)
	}

	select {
	case s.readings <- reading:
	default:
		// 通道满时丢弃最旧数据，保证读到的是新读数
		select {
		case <-s.readings:
		default:
		}
		s.readings <- reading
		s.logger.Debug("Telemetry buffer full, dropped oldest reading",
			zap.String("topic", topic),
		)
	}

	return nil
}

// Next 等待下一个遥测读数
func (s *MQTTSource) Next(ctx context.Context) (models.Reading, error) {
	select {
	case <-ctx.Done():
		return models.Reading{}, ctx.Err()
	case reading := <-s.readings:
		return reading, nil
	}
}

// Close 取消订阅
func (s *MQTTSource) Close() error {
	return s.client.Unsubscribe(s.topic)
}
