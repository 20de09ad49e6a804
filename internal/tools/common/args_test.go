package common

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osvaldocariege06/Up-ToDo/internal/auth"
	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/memory"
	"github.com/osvaldocariege06/Up-ToDo/internal/server"
)

func newServerContext(t *testing.T, owner auth.OwnerProvider) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{Service: memory.New(), Owner: owner})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestResolveOwner(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		owner   auth.OwnerProvider
		args    map[string]any
		want    string
		wantErr error
	}{
		{name: "session owner", owner: auth.Static("a@x.com"), args: map[string]any{}, want: "a@x.com"},
		{name: "argument wins", owner: auth.Static("a@x.com"), args: map[string]any{"owner": " b@y.org "}, want: "b@y.org"},
		{name: "blank argument ignored", owner: auth.Static("a@x.com"), args: map[string]any{"owner": "  "}, want: "a@x.com"},
		{name: "non-string argument ignored", owner: auth.Static("a@x.com"), args: map[string]any{"owner": 42}, want: "a@x.com"},
		{name: "no session", owner: auth.Static(""), args: nil, wantErr: auth.ErrNoSession},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveOwner(ctx, newServerContext(t, tt.owner), tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArgs(t *testing.T) {
	args := map[string]any{
		"title":     "Buy milk",
		"blank":     " ",
		"completed": true,
		"flag":      "yes",
		"seconds":   float64(90),
		"fraction":  1.5,
	}

	title, err := RequiredString(args, "title")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", title)

	_, err = RequiredString(args, "blank")
	assert.EqualError(t, err, "blank is required")

	assert.Nil(t, OptionalString(args, "missing"))
	assert.Equal(t, " ", *OptionalString(args, "blank"))

	completed, err := OptionalBool(args, "completed")
	require.NoError(t, err)
	assert.True(t, *completed)
	_, err = OptionalBool(args, "flag")
	assert.Error(t, err)
	none, err := OptionalBool(args, "missing")
	require.NoError(t, err)
	assert.Nil(t, none)

	n, ok, err := IntArg(args, "seconds")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 90, n)
	_, _, err = IntArg(args, "fraction")
	assert.Error(t, err)
	_, ok, err = IntArg(args, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestErrorResult(t *testing.T) {
	text := func(r *mcp.CallToolResult) string {
		require.True(t, r.IsError)
		require.Len(t, r.Content, 1)
		return r.Content[0].(mcp.TextContent).Text
	}

	assert.Contains(t, text(ErrorResult("create task", model.NewValidationError("title", "must not be empty"))), "Invalid request")
	assert.Contains(t, text(ErrorResult("delete task", &model.NotFoundError{Resource: "task", ID: "t9"})), "Not found")
	assert.Equal(t, "Failed to list tasks: boom", text(ErrorResult("list tasks", errors.New("boom"))))
}
