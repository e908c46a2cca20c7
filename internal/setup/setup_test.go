package setup

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wisefido-guardian/internal/config"
)

func runSetup(t *testing.T, input string) (*config.Config, *bytes.Buffer) {
	cfg := &config.Config{}
	cfg.Monitor.BaselineHeartRate = 75

	out := &bytes.Buffer{}
	err := Run(bufio.NewReader(strings.NewReader(input)), out, cfg, zap.NewNop())
	require.NoError(t, err)

	return cfg, out
}

func TestRun_DefaultsOnBlankInput(t *testing.T) {
	cfg, out := runSetup(t, "\n\n")

	assert.Equal(t, 75, cfg.Monitor.BaselineHeartRate)
	assert.Equal(t, "", cfg.Monitor.SafetyPIN)
	assert.Contains(t, out.String(), "No PIN protection")
}

func TestRun_CustomBaseline(t *testing.T) {
	cfg, _ := runSetup(t, "62\n\n")

	assert.Equal(t, 62, cfg.Monitor.BaselineHeartRate)
}

func TestRun_InvalidBaselineRetries(t *testing.T) {
	// 非数字和超范围输入均重新提示
	cfg, out := runSetup(t, "abc\n200\n62\n\n")

	assert.Equal(t, 62, cfg.Monitor.BaselineHeartRate)
	assert.Contains(t, out.String(), "Please enter a valid number")
	assert.Contains(t, out.String(), "realistic heart rate")
}

func TestRun_PINConfirmed(t *testing.T) {
	cfg, out := runSetup(t, "\n1234\n1234\n")

	assert.Equal(t, "1234", cfg.Monitor.SafetyPIN)
	assert.Contains(t, out.String(), "PIN protection enabled")
}

func TestRun_PINMismatch_NoPIN(t *testing.T) {
	cfg, out := runSetup(t, "\n1234\n9999\n")

	assert.Equal(t, "", cfg.Monitor.SafetyPIN)
	assert.Contains(t, out.String(), "PINs don't match")
}

func TestRun_PINTooShort_NoPIN(t *testing.T) {
	cfg, out := runSetup(t, "\n12\n")

	assert.Equal(t, "", cfg.Monitor.SafetyPIN)
	assert.Contains(t, out.String(), "PIN should be 4-6 digits")
}

func TestRun_PINSkipKeepsEnvPIN(t *testing.T) {
	// 环境变量预置的 PIN 在交互跳过时保留
	cfg := &config.Config{}
	cfg.Monitor.BaselineHeartRate = 75
	cfg.Monitor.SafetyPIN = "5678"

	out := &bytes.Buffer{}
	err := Run(bufio.NewReader(strings.NewReader("\n\n")), out, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "5678", cfg.Monitor.SafetyPIN)
}
