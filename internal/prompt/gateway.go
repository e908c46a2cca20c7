package prompt

import (
	"context"
	"time"
)

// Outcome 安全确认的结果
type Outcome int

const (
	// OutcomeSafe 用户确认安全（YES + 正确 PIN）
	OutcomeSafe Outcome = iota
	// OutcomeUnsafe 明确不安全：空应答、其他输入或 PIN 校验失败
	// PIN 错误与"否"不区分，避免暴露校验失败的具体原因
	OutcomeUnsafe
	// OutcomeTimeout 超时未应答
	OutcomeTimeout
	// OutcomeRemoved 用户请求摘除手表（REMOVE + 正确 PIN），结束会话
	OutcomeRemoved
)

// String 结果名称
func (o Outcome) String() string {
	switch o {
	case OutcomeSafe:
		return "safe"
	case OutcomeUnsafe:
		return "unsafe"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Gateway 安全确认网关接口
// 控制台实现（ConsoleGateway）和测试桩可互换
type Gateway interface {
	// AskSafety 向用户发起安全确认，在 timeout 内等待应答
	// timeout <= 0 时降级为无限等待（平台不支持定时的场景）
	AskSafety(ctx context.Context, timeout time.Duration, requirePIN bool) (Outcome, error)

	// AwaitCycle 周期间等待：等待 delay 时长，期间接受 REMOVE 命令
	// 返回 OutcomeRemoved 表示用户请求结束会话，其余情况返回 OutcomeTimeout
	AwaitCycle(ctx context.Context, delay time.Duration) (Outcome, error)
}
