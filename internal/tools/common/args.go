package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/osvaldocariege06/Up-ToDo/internal/auth"
	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/server"
)

// ArgOwner is the optional argument overriding the session's owner.
const ArgOwner = "owner"

// ResolveOwner returns the owner argument when set, and otherwise the owner
// of the session.
func ResolveOwner(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	if owner, ok := args[ArgOwner].(string); ok && strings.TrimSpace(owner) != "" {
		return strings.TrimSpace(owner), nil
	}
	owner, err := sc.OwnerID(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			return "", fmt.Errorf("no owner: pass %q or configure one (%w)", ArgOwner, err)
		}
		return "", err
	}
	return owner, nil
}

// StringArg returns args[name] when it is a string.
func StringArg(args map[string]any, name string) (string, bool) {
	v, ok := args[name].(string)
	return v, ok
}

// RequiredString returns a non-blank string argument.
func RequiredString(args map[string]any, name string) (string, error) {
	v, ok := StringArg(args, name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}

// OptionalString returns a pointer to a string argument, or nil when absent.
func OptionalString(args map[string]any, name string) *string {
	if v, ok := StringArg(args, name); ok {
		return &v
	}
	return nil
}

// OptionalBool returns a pointer to a boolean argument, or nil when absent.
func OptionalBool(args map[string]any, name string) (*bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return nil, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return nil, fmt.Errorf("%s must be a boolean", name)
	}
	return &b, nil
}

// IntArg returns an integer argument. JSON numbers arrive as float64.
func IntArg(args map[string]any, name string) (int, bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, true, fmt.Errorf("%s must be a whole number", name)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	default:
		return 0, true, fmt.Errorf("%s must be a number", name)
	}
}

// JSONResult encodes v as indented JSON text, prefixed by message when set.
func JSONResult(message string, v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	if message == "" {
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultText(message + "\n" + string(data)), nil
}

// ErrorResult turns err into a tool error the model can act on.
func ErrorResult(action string, err error) *mcp.CallToolResult {
	switch {
	case model.IsValidation(err):
		return mcp.NewToolResultError(fmt.Sprintf("Invalid request: %v", err))
	case model.IsNotFound(err):
		return mcp.NewToolResultError(fmt.Sprintf("Not found: %v", err))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", action, err))
	}
}
