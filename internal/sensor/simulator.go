package sensor

import (
	"context"
	"math/rand"

	"wisefido-guardian/internal/models"
)

// Simulator 模拟传感器数据源
// 按加权分布生成读数：约 60% 无运动；心率 40% 落在正常区间 [50,80]，
// 其余在 [80,130]（心动过速）和 [40,50]（心动过缓）之间各半
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator 创建模拟数据源
func NewSimulator(seed int64) *Simulator {
	return &Simulator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Next 生成一个模拟读数
func (s *Simulator) Next(ctx context.Context) (models.Reading, error) {
	select {
	case <-ctx.Done():
		return models.Reading{}, ctx.Err()
	default:
	}

	// 60% 概率无运动（静坐场景下才参与异常评分）
	motion := s.rng.Float64() > 0.6

	var heartRate int
	if s.rng.Float64() < 0.4 {
		// 正常静息心率
		heartRate = s.randRange(50, 80)
	} else if s.rng.Float64() < 0.5 {
		// 心动过速
		heartRate = s.randRange(80, 130)
	} else {
		// 心动过缓
		heartRate = s.randRange(40, 50)
	}

	return models.Reading{
		HeartRate: heartRate,
		Motion:    motion,
	}, nil
}

// randRange 生成 [min, max] 区间内的随机整数
func (s *Simulator) randRange(min, max int) int {
	return min + s.rng.Intn(max-min+1)
}
