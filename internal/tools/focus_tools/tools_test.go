package focus_tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osvaldocariege06/Up-ToDo/internal/focus"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/memory"
	"github.com/osvaldocariege06/Up-ToDo/internal/server"
)

// idleTicker never fires, so state only changes through the tools.
type idleTicker struct{ c chan time.Time }

func (t idleTicker) C() <-chan time.Time { return t.c }
func (t idleTicker) Stop()               {}

func newServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{
		Service: memory.New(),
		TimerOptions: []focus.Option{
			focus.WithTicker(func(time.Duration) focus.Ticker { return idleTicker{c: make(chan time.Time)} }),
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	return result.Content[0].(mcp.TextContent).Text, result.IsError
}

func decodeState(t *testing.T, text string) focus.State {
	t.Helper()
	if _, body, ok := strings.Cut(text, "\n"); ok {
		text = body
	}
	var state focus.State
	require.NoError(t, json.Unmarshal([]byte(text), &state))
	return state
}

func TestRegisterFocusTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))
	require.NoError(t, RegisterFocusTools(s, newServerContext(t)))

	tools := s.ListTools()
	assert.Len(t, tools, 3)
	for _, name := range []string{"focus_start", "focus_stop", "focus_status"} {
		assert.Contains(t, tools, name)
	}
}

func TestStartStatusStop(t *testing.T) {
	sc := newServerContext(t)

	text, isErr := call(t, handleStart(sc), map[string]any{"seconds": float64(125)})
	require.False(t, isErr, text)
	assert.Equal(t, focus.State{Active: true, RemainingSeconds: 125}, decodeState(t, text))

	text, isErr = call(t, handleStatus(sc), nil)
	require.False(t, isErr, text)
	assert.Equal(t, focus.State{Active: true, RemainingSeconds: 125}, decodeState(t, text))

	text, isErr = call(t, handleStop(sc), nil)
	require.False(t, isErr, text)
	assert.Equal(t, focus.State{}, decodeState(t, text))
}

func TestStartFromClock(t *testing.T) {
	sc := newServerContext(t)

	text, isErr := call(t, handleStart(sc), map[string]any{"hours": float64(2), "minutes": float64(5)})
	require.False(t, isErr, text)
	assert.Equal(t, 125, sc.Timer().State().RemainingSeconds)
}

func TestStartRejectsBadInput(t *testing.T) {
	sc := newServerContext(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "nothing", args: map[string]any{}},
		{name: "zero seconds", args: map[string]any{"seconds": float64(0)}},
		{name: "negative seconds", args: map[string]any{"seconds": float64(-5)}},
		{name: "fractional seconds", args: map[string]any{"seconds": 1.5}},
		{name: "both forms", args: map[string]any{"seconds": float64(10), "minutes": float64(1)}},
		{name: "hours out of range", args: map[string]any{"hours": float64(24)}},
		{name: "minutes out of range", args: map[string]any{"minutes": float64(60)}},
		{name: "zero clock", args: map[string]any{"hours": float64(0), "minutes": float64(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, handleStart(sc), tt.args)
			assert.True(t, isErr)
			assert.Contains(t, text, "Invalid request")
			assert.False(t, sc.Timer().State().Active)
		})
	}
}
