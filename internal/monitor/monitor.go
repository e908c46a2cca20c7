package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wisefido-guardian/internal/config"
	"wisefido-guardian/internal/prompt"
	"wisefido-guardian/internal/scorer"
	"wisefido-guardian/internal/sensor"
)

// Monitor 监测会话循环
// 每周期：取读数 → 滑动窗口 → 评分 → 状态机 → 周期间等待；
// 任一终止路径（摘除、取消、周期错误）都先经过最终安全确认
type Monitor struct {
	source     sensor.Source
	window     *scorer.Window
	engine     *Engine
	gateway    prompt.Gateway
	cycleDelay time.Duration
	logger     *zap.Logger

	cycle int
}

// NewMonitor 创建监测循环
func NewMonitor(
	cfg *config.Config,
	source sensor.Source,
	gateway prompt.Gateway,
	engine *Engine,
	logger *zap.Logger,
) *Monitor {
	return &Monitor{
		source:     source,
		window:     scorer.NewWindow(cfg.Monitor.WindowSize),
		engine:     engine,
		gateway:    gateway,
		cycleDelay: time.Duration(cfg.Monitor.CycleDelay) * time.Second,
		logger:     logger,
	}
}

// Run 运行监测会话直到摘除、取消或不可恢复的周期错误
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("Safety monitoring started")

	for {
		m.cycle++

		reading, err := m.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				m.logger.Info("Monitoring interrupted",
					zap.Int("cycle", m.cycle),
				)
				m.finalCheck()
				return nil
			}
			m.logger.Error("Failed to read sensor",
				zap.Int("cycle", m.cycle),
				zap.Error(err),
			)
			m.finalCheck()
			return fmt.Errorf("sensor read failed: %w", err)
		}

		m.window.Push(reading)
		score := scorer.Score(m.window)

		if !m.window.IsFull() {
			// 冷启动阶段：仅收集数据，评分恒为 0
			m.logger.Info("Collecting initial data",
				zap.Int("cycle", m.cycle),
				zap.Int("window_fill", m.window.Len()),
				zap.Int("heart_rate", reading.HeartRate),
				zap.Bool("motion", reading.Motion),
			)
		} else {
			m.logger.Info("Cycle reading",
				zap.Int("cycle", m.cycle),
				zap.Int("heart_rate", reading.HeartRate),
				zap.Bool("motion", reading.Motion),
				zap.Int("score", score),
			)
		}

		res, err := m.engine.ProcessCycle(ctx, score, m.window.Readings())
		if err != nil {
			if errors.Is(err, ErrRemovalRequested) {
				m.logger.Info("Watch removal detected")
				m.finalCheck()
				return nil
			}
			if ctx.Err() != nil {
				m.finalCheck()
				return nil
			}
			// 不可恢复的周期错误：先做最终确认再优雅终止，
			// 不允许带着损坏的状态继续
			m.logger.Error("Cycle processing failed",
				zap.Int("cycle", m.cycle),
				zap.Error(err),
			)
			m.finalCheck()
			return fmt.Errorf("cycle %d failed: %w", m.cycle, err)
		}

		if res.Prompted {
			m.logger.Info("Safety prompt completed",
				zap.String("reason", res.PromptReason),
				zap.String("outcome", res.Outcome.String()),
				zap.Bool("alert_fired", res.AlertFired),
			)
		}

		// 周期间等待，期间接受 REMOVE 命令
		outcome, err := m.gateway.AwaitCycle(ctx, m.cycleDelay)
		if outcome == prompt.OutcomeRemoved {
			m.logger.Info("Watch removal detected")
			m.finalCheck()
			return nil
		}
		if err != nil {
			m.logger.Info("Monitoring interrupted",
				zap.Int("cycle", m.cycle),
			)
			m.finalCheck()
			return nil
		}
	}
}

// finalCheck 最终安全确认
// 会话上下文可能已取消，这里使用独立的上下文保证确认仍可进行
func (m *Monitor) finalCheck() {
	m.engine.FinalSafetyCheck(context.Background())
}
