package prompt

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGateway(input, pin string) (*ConsoleGateway, *bytes.Buffer) {
	out := &bytes.Buffer{}
	gateway := NewConsoleGateway(strings.NewReader(input), out, pin, zap.NewNop())
	return gateway, out
}

// blockedReader 永远不产生输入
type blockedReader struct{}

func (blockedReader) Read(p []byte) (int, error) {
	select {}
}

func TestAskSafety_Yes_NoPIN(t *testing.T) {
	gateway, _ := newTestGateway("YES\n", "")

	outcome, err := gateway.AskSafety(context.Background(), time.Second, true)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSafe, outcome)
}

func TestAskSafety_YesWithCorrectPIN(t *testing.T) {
	gateway, _ := newTestGateway("YES 1234\n", "1234")

	outcome, err := gateway.AskSafety(context.Background(), time.Second, true)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSafe, outcome)
}

func TestAskSafety_WrongPIN_ReportedAsUnsafe(t *testing.T) {
	// 场景D：PIN 错误与明确的"否"不做区分
	gateway, _ := newTestGateway("YES 9999\n", "1234")

	outcome, err := gateway.AskSafety(context.Background(), time.Second, true)

	require.NoError(t, err)
	assert.Equal(t, OutcomeUnsafe, outcome)
}

func TestAskSafety_MissingPIN_ReportedAsUnsafe(t *testing.T) {
	gateway, _ := newTestGateway("YES\n", "1234")

	outcome, err := gateway.AskSafety(context.Background(), time.Second, true)

	require.NoError(t, err)
	assert.Equal(t, OutcomeUnsafe, outcome)
}

func TestAskSafety_Remove(t *testing.T) {
	gateway, _ := newTestGateway("REMOVE 1234\n", "1234")

	outcome, err := gateway.AskSafety(context.Background(), time.Second, true)

	require.NoError(t, err)
	assert.Equal(t, OutcomeRemoved, outcome)
}

func TestAskSafety_RemoveWithWrongPIN_ReportedAsUnsafe(t *testing.T) {
	gateway, _ := newTestGateway("REMOVE 9999\n", "1234")

	outcome, err := gateway.AskSafety(context.Background(), time.Second, true)

	require.NoError(t, err)
	assert.Equal(t, OutcomeUnsafe, outcome)
}

func TestAskSafety_OtherInput_ReportedAsUnsafe(t *testing.T) {
	gateway, _ := newTestGateway("no\n", "")

	outcome, err := gateway.AskSafety(context.Background(), time.Second, true)

	require.NoError(t, err)
	assert.Equal(t, OutcomeUnsafe, outcome)
}

func TestAskSafety_PINNotRequired(t *testing.T) {
	// 最终安全确认不要求 PIN，即使配置了 PIN
	gateway, _ := newTestGateway("YES\n", "1234")

	outcome, err := gateway.AskSafety(context.Background(), time.Second, false)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSafe, outcome)
}

func TestAskSafety_Timeout(t *testing.T) {
	out := &bytes.Buffer{}
	gateway := NewConsoleGateway(blockedReader{}, out, "", zap.NewNop())

	start := time.Now()
	outcome, err := gateway.AskSafety(context.Background(), 50*time.Millisecond, true)

	require.NoError(t, err)
	assert.Equal(t, OutcomeTimeout, outcome)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAskSafety_InputClosed(t *testing.T) {
	gateway, _ := newTestGateway("", "")

	outcome, err := gateway.AskSafety(context.Background(), time.Second, true)

	require.NoError(t, err)
	assert.Equal(t, OutcomeTimeout, outcome)
}

func TestAskSafety_ContextCancelled(t *testing.T) {
	out := &bytes.Buffer{}
	gateway := NewConsoleGateway(blockedReader{}, out, "", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := gateway.AskSafety(ctx, time.Second, true)

	assert.Error(t, err)
	assert.Equal(t, OutcomeTimeout, outcome)
}

func TestAwaitCycle_Remove(t *testing.T) {
	gateway, _ := newTestGateway("REMOVE\n", "")

	outcome, err := gateway.AwaitCycle(context.Background(), time.Second)

	require.NoError(t, err)
	assert.Equal(t, OutcomeRemoved, outcome)
}

func TestAwaitCycle_RemoveWithWrongPIN_ContinuesMonitoring(t *testing.T) {
	gateway, out := newTestGateway("REMOVE 9999\n", "1234")

	outcome, err := gateway.AwaitCycle(context.Background(), time.Second)

	require.NoError(t, err)
	assert.Equal(t, OutcomeTimeout, outcome)
	assert.Contains(t, out.String(), "Incorrect or missing PIN")
}

func TestAwaitCycle_EnterSkipsDelay(t *testing.T) {
	gateway, _ := newTestGateway("\n", "")

	start := time.Now()
	outcome, err := gateway.AwaitCycle(context.Background(), 5*time.Second)

	require.NoError(t, err)
	assert.Equal(t, OutcomeTimeout, outcome)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAwaitCycle_DelayExpires(t *testing.T) {
	out := &bytes.Buffer{}
	gateway := NewConsoleGateway(blockedReader{}, out, "", zap.NewNop())

	outcome, err := gateway.AwaitCycle(context.Background(), 50*time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, OutcomeTimeout, outcome)
}

var _ io.Reader = blockedReader{}
