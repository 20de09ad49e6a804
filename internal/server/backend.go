package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/osvaldocariege06/Up-ToDo/internal/auth"
	"github.com/osvaldocariege06/Up-ToDo/internal/config"
	"github.com/osvaldocariege06/Up-ToDo/internal/google"
	"github.com/osvaldocariege06/Up-ToDo/internal/instrumentation"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/firestore"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/googletasks"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/memory"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/redisstore"
)

// OpenBackend connects to the configured backend and wraps it with tracing
// and metrics.
func OpenBackend(ctx context.Context, cfg *config.Config, metrics *instrumentation.Metrics) (remote.Service, error) {
	var (
		svc     remote.Service
		backend string
	)

	switch cfg.Backend {
	case config.BackendMemory:
		svc, backend = memory.New(), instrumentation.BackendMemory
	case config.BackendFirestore:
		client, err := firestore.NewClient(ctx, cfg.FirestoreClientConfig())
		if err != nil {
			return nil, err
		}
		svc, backend = client, instrumentation.BackendFirestore
	case config.BackendRedis:
		rs, err := redisstore.Dial(ctx, cfg.RedisOptions())
		if err != nil {
			return nil, err
		}
		svc, backend = rs, instrumentation.BackendRedis
	case config.BackendGoogleTasks:
		gt, err := googletasks.NewClient(ctx, cfg.GoogleTasksClientConfig())
		if err != nil {
			return nil, err
		}
		svc, backend = gt, instrumentation.BackendGoogleTasks
	default:
		return nil, fmt.Errorf("unsupported backend %q", cfg.Backend)
	}

	return remote.Instrument(svc, backend, metrics), nil
}

// NewOwnerProvider returns a fixed owner when one is configured, and otherwise
// resolves the owner from the stored Google token of the configured account.
// The Google lookup is deferred to the first call so commands that never need
// an owner work without a token.
func NewOwnerProvider(cfg *config.Config) auth.OwnerProvider {
	if cfg.Owner != "" {
		return auth.Static(cfg.Owner)
	}

	account := cfg.OwnerAccount
	if account == "" {
		account = google.DefaultAccount
	}

	var (
		mu    sync.Mutex
		owner *google.UserInfoOwner
	)
	return auth.Func(func(ctx context.Context) (string, error) {
		mu.Lock()
		defer mu.Unlock()

		if owner == nil {
			if !google.HasTokenForAccount(account) {
				return "", fmt.Errorf("%w: no Google token for account %q (run 'uptodo auth url')", auth.ErrNoSession, account)
			}
			o, err := google.NewUserInfoOwnerForAccount(ctx, account)
			if err != nil {
				return "", err
			}
			owner = o
		}
		return owner.OwnerID(ctx)
	})
}
