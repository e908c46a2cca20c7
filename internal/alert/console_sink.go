package alert

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"wisefido-guardian/internal/models"
)

// ConsoleSink 控制台报警接收端（模拟向预存紧急联系人发送通知）
// 生产变体为 MQTTSink，可对接短信/推送网关
type ConsoleSink struct {
	out      io.Writer
	contacts []string
	logger   *zap.Logger
}

// NewConsoleSink 创建控制台报警接收端
func NewConsoleSink(out io.Writer, logger *zap.Logger) *ConsoleSink {
	return &ConsoleSink{
		out: out,
		// 模拟的预存紧急联系人
		contacts: []string{
			"Mother - (123) 456-7890",
			"Father - (123) 456-7891",
			"Trusted Friend - (123) 456-7892",
		},
		logger: logger,
	}
}

// Notify 打印模拟的紧急通知
func (s *ConsoleSink) Notify(ctx context.Context, event *models.AlertEvent) error {
	fmt.Fprintln(s.out, "\n!!! EMERGENCY ALERT SENT TO PRE-SAVED CONTACTS !!!")
	for _, contact := range s.contacts {
		fmt.Fprintf(s.out, "  notified: %s\n", contact)
	}
	fmt.Fprintln(s.out, "  message: 'Safety concern detected. Please check on me.'")

	s.logger.Info("Alert delivered to console sink",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.Int("contact_count", len(s.contacts)),
	)

	return nil
}
