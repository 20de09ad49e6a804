package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"
)

// Attribute keys shared by every log line.
const (
	KeyComponent  = "component"
	KeyOperation  = "operation"
	KeyBackend    = "backend"
	KeyTaskID     = "task_id"
	KeyCategoryID = "category_id"
	KeyUserHash   = "user_hash"
	KeyDuration   = "duration"
	KeyStatus     = "status"
	KeyError      = "error"
	KeyTool       = "tool"
)

// WithBackend tags logger with the remote backend name.
func WithBackend(logger *slog.Logger, backend string) *slog.Logger {
	return logger.With(slog.String(KeyBackend, backend))
}

// Operation names the store or backend operation.
func Operation(op string) slog.Attr { return slog.String(KeyOperation, op) }

// TaskID identifies a task.
func TaskID(id string) slog.Attr { return slog.String(KeyTaskID, id) }

// CategoryID identifies a category.
func CategoryID(id string) slog.Attr { return slog.String(KeyCategoryID, id) }

// Tool names an MCP tool.
func Tool(tool string) slog.Attr { return slog.String(KeyTool, tool) }

// Status is "success" or "error".
func Status(status string) slog.Attr { return slog.String(KeyStatus, status) }

// Duration records how long an operation took.
func Duration(d time.Duration) slog.Attr { return slog.Duration(KeyDuration, d) }

// Err records err. A nil err yields an empty group, which slog drops.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// UserHash records a stable hash of the owner e-mail so log lines can be
// correlated per owner without the address itself.
func UserHash(email string) slog.Attr {
	return slog.String(KeyUserHash, hashOwner(email))
}

func hashOwner(email string) string {
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return "user:" + hex.EncodeToString(sum[:8])
}
