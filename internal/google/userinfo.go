package google

import (
	"context"
	"fmt"
	"sync"

	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// UserInfoOwner resolves the owner identifier from the Google userinfo
// endpoint. The address is fetched once and cached.
type UserInfoOwner struct {
	svc *oauth2api.Service

	mu    sync.Mutex
	email string
}

// NewUserInfoOwner creates an owner provider using opts for transport and
// credentials.
func NewUserInfoOwner(ctx context.Context, opts ...option.ClientOption) (*UserInfoOwner, error) {
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}
	return &UserInfoOwner{svc: svc}, nil
}

// NewUserInfoOwnerForAccount authorizes the lookup with account's stored token.
func NewUserInfoOwnerForAccount(ctx context.Context, account string) (*UserInfoOwner, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	return NewUserInfoOwner(ctx, option.WithTokenSource(ts))
}

// OwnerID returns the signed-in user's e-mail address.
func (o *UserInfoOwner) OwnerID(ctx context.Context) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.email != "" {
		return o.email, nil
	}

	info, err := o.svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to fetch Google user info: %w", err)
	}
	if info.Email == "" {
		return "", fmt.Errorf("google user info has no e-mail; the userinfo.email scope is required")
	}

	o.email = info.Email
	return o.email, nil
}
