package sensor

import (
	"context"

	"wisefido-guardian/internal/models"
)

// Source 读数数据源接口
// 模拟实现（Simulator）和生产实现（MQTTSource）可互换
type Source interface {
	// Next 获取下一个读数，每个监测周期调用一次
	Next(ctx context.Context) (models.Reading, error)
}
