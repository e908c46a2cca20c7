package monitor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"wisefido-guardian/internal/config"
	"wisefido-guardian/internal/models"
	"wisefido-guardian/internal/prompt"
)

// ErrRemovalRequested 用户通过 REMOVE 命令（PIN 校验通过）请求结束会话
var ErrRemovalRequested = errors.New("watch removal requested")

// Alerter 报警分发接口（由 alert.Dispatcher 实现）
type Alerter interface {
	Dispatch(ctx context.Context, trigger models.AlertTrigger) error
}

// CycleResult 单个周期的处理结果
type CycleResult struct {
	Prompted     bool
	PromptReason string // mandatory_recheck, first_detection, sharp_jump, consecutive_abnormal
	Outcome      prompt.Outcome
	AlertFired   bool
}

// Engine 升级状态机
// 每周期接收一个评分，决定是否提示用户确认安全、如何解释应答、
// 以及是否触发报警
type Engine struct {
	escalationThreshold int
	sharpJumpThreshold  int
	responseTimeout     time.Duration
	gateway             prompt.Gateway
	alerter             Alerter
	logger              *zap.Logger

	state State
}

// NewEngine 创建升级状态机
func NewEngine(
	cfg *config.Config,
	gateway prompt.Gateway,
	alerter Alerter,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		escalationThreshold: cfg.Monitor.EscalationThreshold,
		sharpJumpThreshold:  cfg.Monitor.SharpJumpThreshold,
		responseTimeout:     time.Duration(cfg.Monitor.ResponseTimeout) * time.Second,
		gateway:             gateway,
		alerter:             alerter,
		logger:              logger,
	}
}

// State 返回当前状态的副本
func (e *Engine) State() State {
	return e.state
}

// ProcessCycle 处理一个监测周期
// 转移规则：
//  1. AwaitingResponse 为 true 时无条件重新提示，与评分无关
//  2. 评分 <= 升级阈值：连续异常计数归零，其余字段不变
//  3. 评分 > 升级阈值：首次检出立即提示；已确认过安全则先看评分突变
//     （|score - last| > 突变阈值立即提示），否则递增计数，满 3 次提示并清零
//  4. 提示结果：确认安全重置状态；超时/不安全/PIN 错误统一进入报警分支，
//     并置 AwaitingResponse 强制下周期重新提示；REMOVE 返回 ErrRemovalRequested
//  5. 周期结束时无条件更新 LastAbnormality
func (e *Engine) ProcessCycle(ctx context.Context, score int, readings []models.Reading) (CycleResult, error) {
	var res CycleResult
	wasAwaiting := e.state.AwaitingResponse

	promptReason := ""
	switch {
	case wasAwaiting:
		promptReason = "mandatory_recheck"
		e.logger.Warn("Previous cycle had no response, checking again",
			zap.Int("score", score),
		)

	case score <= e.escalationThreshold:
		// 正常周期：打断连续异常序列
		e.state.ConsecutiveAbnormalAfterYes = 0

	case !e.state.UserPreviouslySaidSafe:
		// 首次检出异常，立即确认
		promptReason = "first_detection"

	case abs(score-e.state.LastAbnormality) > e.sharpJumpThreshold:
		// 评分突变优先于连续计数
		promptReason = "sharp_jump"
		e.logger.Warn("Sharp jump detected",
			zap.Int("score", score),
			zap.Int("last_score", e.state.LastAbnormality),
		)

	default:
		e.state.ConsecutiveAbnormalAfterYes++
		if e.state.ConsecutiveAbnormalAfterYes >= 3 {
			promptReason = "consecutive_abnormal"
			e.state.ConsecutiveAbnormalAfterYes = 0
		} else {
			e.logger.Info("Abnormal cycle after user confirmed safe, tracking",
				zap.Int("score", score),
				zap.Int("consecutive_count", e.state.ConsecutiveAbnormalAfterYes),
			)
		}
	}

	if promptReason != "" {
		res.Prompted = true
		res.PromptReason = promptReason

		outcome, err := e.gateway.AskSafety(ctx, e.responseTimeout, true)
		if err != nil {
			e.state.LastAbnormality = score
			return res, err
		}
		res.Outcome = outcome

		switch outcome {
		case prompt.OutcomeSafe:
			if e.state.AlertSent {
				e.logger.Info("User confirmed safety after alert, contacts should be informed")
			} else {
				e.logger.Info("User confirmed safety")
			}
			e.state.UserPreviouslySaidSafe = true
			e.state.AwaitingResponse = false
			e.state.AlertSent = false
			e.state.ConsecutiveAbnormalAfterYes = 0

		case prompt.OutcomeRemoved:
			e.state.LastAbnormality = score
			return res, ErrRemovalRequested

		case prompt.OutcomeUnsafe, prompt.OutcomeTimeout:
			// 超时、明确不安全与 PIN 错误统一处理，不做区分
			e.state.AwaitingResponse = true
			e.fireAlert(ctx, models.AlertTrigger{
				Reason:   alertReason(outcome),
				Score:    score,
				Repeat:   wasAwaiting,
				Readings: readings,
			})
			res.AlertFired = true
		}
	}

	e.state.LastAbnormality = score
	return res, nil
}

// FinalSafetyCheck 会话结束前的最终安全确认，无视阈值无条件执行
// 未确认安全（超时/不安全/摘除）即触发报警
func (e *Engine) FinalSafetyCheck(ctx context.Context) {
	e.logger.Info("Final safety check before ending session")

	outcome, err := e.gateway.AskSafety(ctx, e.responseTimeout, false)
	if err != nil {
		outcome = prompt.OutcomeTimeout
	}

	if outcome == prompt.OutcomeSafe {
		e.logger.Info("User confirmed safety, monitoring session ended")
		return
	}

	e.logger.Warn("No safe confirmation on final check, sending alert",
		zap.String("outcome", outcome.String()),
	)
	e.fireAlert(ctx, models.AlertTrigger{
		Reason: "final_check_failed",
		Score:  e.state.LastAbnormality,
		Repeat: e.state.AlertSent,
	})
	e.state.AlertSent = true
}

// fireAlert 触发报警
// 状态机只要求调用发生；分发失败记录日志后继续
func (e *Engine) fireAlert(ctx context.Context, trigger models.AlertTrigger) {
	if err := e.alerter.Dispatch(ctx, trigger); err != nil {
		e.logger.Error("Failed to dispatch alert",
			zap.String("reason", trigger.Reason),
			zap.Error(err),
		)
	}
	e.state.AlertSent = true
}

// alertReason 报警原因标识
func alertReason(outcome prompt.Outcome) string {
	if outcome == prompt.OutcomeTimeout {
		return "no_response"
	}
	return "unsafe_response"
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
