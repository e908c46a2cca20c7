package setup

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"wisefido-guardian/internal/config"
)

// 交互式会话配置：采集静息心率基线和可选的安全 PIN
// PIN 用于防止他人替用户应答 YES 或摘除手表

const (
	minBaselineHR = 40
	maxBaselineHR = 100
	minPINLength  = 4
	maxPINLength  = 6
)

// Run 执行交互式配置，结果写回 cfg.Monitor
func Run(in *bufio.Reader, out io.Writer, cfg *config.Config, logger *zap.Logger) error {
	fmt.Fprintln(out, "=== PERSONAL SAFETY MONITORING SYSTEM ===")
	fmt.Fprintln(out, "This system monitors your vital signs to detect potential")
	fmt.Fprintln(out, "safety issues and can alert your emergency contacts.")

	baseline, err := readBaseline(in, out, cfg.Monitor.BaselineHeartRate)
	if err != nil {
		return fmt.Errorf("failed to read baseline heart rate: %w", err)
	}
	cfg.Monitor.BaselineHeartRate = baseline

	pin, err := readPIN(in, out)
	if err != nil {
		return fmt.Errorf("failed to read safety PIN: %w", err)
	}
	if pin != "" {
		cfg.Monitor.SafetyPIN = pin
	}

	logger.Info("Session configured",
		zap.Int("baseline_heart_rate", cfg.Monitor.BaselineHeartRate),
		zap.Bool("pin_enabled", cfg.Monitor.SafetyPIN != ""),
		zap.Int("escalation_threshold", cfg.Monitor.EscalationThreshold),
		zap.Int("sharp_jump_threshold", cfg.Monitor.SharpJumpThreshold),
		zap.Int("response_timeout_sec", cfg.Monitor.ResponseTimeout),
	)

	return nil
}

// readBaseline 读取静息心率基线，空输入使用默认值，非法输入重新提示
func readBaseline(in *bufio.Reader, out io.Writer, defaultHR int) (int, error) {
	for {
		fmt.Fprintf(out, "Enter your usual resting heart rate (bpm) [default: %d]: ", defaultHR)

		line, err := readLine(in)
		if err != nil {
			return 0, err
		}
		if line == "" {
			return defaultHR, nil
		}

		hr, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(out, "Please enter a valid number")
			continue
		}
		if hr < minBaselineHR || hr > maxBaselineHR {
			fmt.Fprintf(out, "Please enter a realistic heart rate between %d-%d bpm\n", minBaselineHR, maxBaselineHR)
			continue
		}
		return hr, nil
	}
}

// readPIN 读取可选 PIN：空输入跳过；长度不合法或两次输入不一致时本次会话不启用 PIN
func readPIN(in *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprintf(out, "Enter a %d-%d digit PIN [or press Enter to skip]: ", minPINLength, maxPINLength)

	pin, err := readLine(in)
	if err != nil {
		return "", err
	}
	if pin == "" {
		fmt.Fprintln(out, "No PIN protection (responses won't require PIN)")
		return "", nil
	}

	if len(pin) < minPINLength || len(pin) > maxPINLength {
		fmt.Fprintf(out, "PIN should be %d-%d digits. Using no PIN for this session.\n", minPINLength, maxPINLength)
		return "", nil
	}

	fmt.Fprint(out, "Confirm PIN: ")
	confirm, err := readLine(in)
	if err != nil {
		return "", err
	}
	if confirm != pin {
		fmt.Fprintln(out, "PINs don't match. Using no PIN for this session.")
		return "", nil
	}

	fmt.Fprintln(out, "PIN protection enabled")
	return pin, nil
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
