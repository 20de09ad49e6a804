package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/osvaldocariege06/Up-ToDo/internal/auth"
	"github.com/osvaldocariege06/Up-ToDo/internal/config"
	"github.com/osvaldocariege06/Up-ToDo/internal/instrumentation"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/memory"
	"github.com/osvaldocariege06/Up-ToDo/internal/server"
)

const testOwner = "ana@example.com"

// memoryApp returns an appFactory backed by svc, so state survives between
// command runs within a test.
func memoryApp(svc *memory.Service, owner string) appFactory {
	return func(ctx context.Context, metrics *instrumentation.Metrics) (*app, error) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		sc, err := server.NewServerContext(ctx, server.Options{
			Service: svc,
			Owner:   auth.Static(owner),
			Logger:  logger,
			Metrics: metrics,
		})
		if err != nil {
			return nil, err
		}
		cfg := &config.Config{Backend: "memory", Owner: owner, Timeout: 5 * time.Second}
		return &app{cfg: cfg, logger: logger, sc: sc}, nil
	}
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, factory appFactory, args ...string) (string, error) {
	t.Helper()
	opts := &rootOptions{newApp: factory}
	root := newRootCmdWithOptions(opts)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func newMemory(t *testing.T) *memory.Service {
	t.Helper()
	svc := memory.New(memory.WithIDGenerator(memory.SequentialIDs("t")))
	t.Cleanup(func() { require.NoError(t, svc.Close()) })
	return svc
}
