package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ConsoleGateway 控制台安全确认网关
// 单独的 goroutine 持续读取输入行并送入通道，
// AskSafety/AwaitCycle 在通道、定时器和 ctx 之间做有界等待，
// 定时器在所有退出路径上都会被释放，不会泄漏到后续提示
type ConsoleGateway struct {
	out    io.Writer
	pin    string
	lines  chan string
	logger *zap.Logger
}

// NewConsoleGateway 创建控制台网关
// pin 为空表示不启用 PIN 校验
func NewConsoleGateway(in io.Reader, out io.Writer, pin string, logger *zap.Logger) *ConsoleGateway {
	g := &ConsoleGateway{
		out:    out,
		pin:    pin,
		lines:  make(chan string),
		logger: logger,
	}

	go g.readLines(in)

	return g
}

// readLines 持续读取输入行，输入结束时关闭通道
func (g *ConsoleGateway) readLines(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		g.lines <- scanner.Text()
	}
	close(g.lines)
}

// AskSafety 发起安全确认
func (g *ConsoleGateway) AskSafety(ctx context.Context, timeout time.Duration, requirePIN bool) (Outcome, error) {
	if requirePIN && g.pin != "" {
		fmt.Fprintf(g.out, "\nAre you okay? Type 'YES [PIN]' within %d seconds\n", int(timeout.Seconds()))
		fmt.Fprintf(g.out, "(or type 'REMOVE [PIN]' to end monitoring)\n")
	} else {
		fmt.Fprintf(g.out, "\nAre you okay? Type YES within %d seconds\n", int(timeout.Seconds()))
	}

	var timerC <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timerC = timer.C
	} else {
		// 平台不支持有界等待时降级为无限等待，不中断会话
		g.logger.Warn("Response timeout disabled, waiting unbounded")
	}

	lines := g.lines
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				// 输入已关闭，按超时处理
				g.logger.Warn("Input closed during safety prompt")
				return OutcomeTimeout, nil
			}
			return g.parseResponse(line, requirePIN), nil
		case <-timerC:
			fmt.Fprintln(g.out, "\nTime expired - no response received")
			return OutcomeTimeout, nil
		case <-ctx.Done():
			return OutcomeTimeout, ctx.Err()
		}
	}
}

// AwaitCycle 周期间等待，期间接受 REMOVE 命令
func (g *ConsoleGateway) AwaitCycle(ctx context.Context, delay time.Duration) (Outcome, error) {
	fmt.Fprintf(g.out, "\nNext cycle in %d seconds... (Enter to continue, REMOVE to end)\n", int(delay.Seconds()))

	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case line, ok := <-g.lines:
			if !ok {
				return OutcomeTimeout, nil
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				// 回车直接进入下一周期
				return OutcomeTimeout, nil
			}
			if strings.ToUpper(fields[0]) == "REMOVE" {
				if g.pin != "" && (len(fields) < 2 || fields[1] != g.pin) {
					fmt.Fprintln(g.out, "Incorrect or missing PIN - continuing monitoring")
					return OutcomeTimeout, nil
				}
				return OutcomeRemoved, nil
			}
			// 其他输入也直接进入下一周期
			return OutcomeTimeout, nil
		case <-timer.C:
			return OutcomeTimeout, nil
		case <-ctx.Done():
			return OutcomeTimeout, ctx.Err()
		}
	}
}

// parseResponse 解析应答：YES/REMOVE 可带可选 PIN
func (g *ConsoleGateway) parseResponse(line string, requirePIN bool) Outcome {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return OutcomeUnsafe
	}

	command := strings.ToUpper(fields[0])

	if requirePIN && g.pin != "" {
		// PIN 缺失或错误统一按不安全处理，不提示具体失败原因
		if len(fields) < 2 || fields[1] != g.pin {
			return OutcomeUnsafe
		}
	}

	switch command {
	case "REMOVE":
		return OutcomeRemoved
	case "YES":
		return OutcomeSafe
	default:
		return OutcomeUnsafe
	}
}
