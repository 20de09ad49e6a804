package google_tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osvaldocariege06/Up-ToDo/internal/auth"
	"github.com/osvaldocariege06/Up-ToDo/internal/google"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/memory"
	"github.com/osvaldocariege06/Up-ToDo/internal/server"
)

func newServerContext(t *testing.T, owner string) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{Service: memory.New(), Owner: auth.Static(owner)})
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

func TestRegisterGoogleTools(t *testing.T) {
	sc := newServerContext(t, "")

	s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))
	require.NoError(t, RegisterGoogleTools(s, sc, true))
	tools := s.ListTools()
	assert.Len(t, tools, 2)
	assert.NotContains(t, tools, "google_save_auth_code")

	s = mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))
	require.NoError(t, RegisterGoogleTools(s, sc, false))
	assert.Contains(t, s.ListTools(), "google_save_auth_code")
}

func TestHandleGetAuthURL(t *testing.T) {
	t.Run("without client credentials", func(t *testing.T) {
		t.Setenv(google.EnvClientID, "")
		t.Setenv(google.EnvClientSecret, "")

		text, isErr := call(t, handleGetAuthURL, nil)
		assert.True(t, isErr)
		assert.Contains(t, text, google.EnvClientID)
	})

	t.Run("with client credentials", func(t *testing.T) {
		t.Setenv(google.EnvClientID, "client-id")
		t.Setenv(google.EnvClientSecret, "client-secret")

		text, isErr := call(t, handleGetAuthURL, map[string]any{"account": "work"})
		assert.False(t, isErr)
		assert.Contains(t, text, `account "work"`)
		assert.Contains(t, text, "accounts.google.com")
	})

	t.Run("invalid account", func(t *testing.T) {
		t.Setenv(google.EnvClientID, "client-id")
		t.Setenv(google.EnvClientSecret, "client-secret")

		_, isErr := call(t, handleGetAuthURL, map[string]any{"account": "a/b"})
		assert.True(t, isErr)
	})
}

func TestHandleSaveAuthCode_MissingCode(t *testing.T) {
	text, isErr := call(t, handleSaveAuthCode, map[string]any{"authCode": " "})
	assert.True(t, isErr)
	assert.Equal(t, "authCode is required", text)
}

func TestHandleWhoami(t *testing.T) {
	text, isErr := call(t, handleWhoami(newServerContext(t, "ana@example.com")), nil)
	assert.False(t, isErr)
	assert.Equal(t, "ana@example.com", text)

	text, isErr = call(t, handleWhoami(newServerContext(t, "")), nil)
	assert.True(t, isErr)
	assert.Contains(t, text, "google_get_auth_url")
}
