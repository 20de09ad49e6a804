package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultAccount is used when no account name is given.
const DefaultAccount = "default"

// Environment variables holding the OAuth client registration.
const (
	EnvClientID     = "GOOGLE_CLIENT_ID"
	EnvClientSecret = "GOOGLE_CLIENT_SECRET"
	EnvRedirectURL  = "GOOGLE_REDIRECT_URL"
)

// redirectOOB asks Google to display the code for manual copy.
const redirectOOB = "urn:ietf:wg:oauth:2.0:oob"

var accountNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateAccountName rejects names that are unsafe as file name fragments.
func validateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if !accountNamePattern.MatchString(account) {
		return fmt.Errorf("invalid account name %q: only letters, digits, '-' and '_' are allowed", account)
	}
	return nil
}

// getTokenFilePath returns the token file for account.
func getTokenFilePath(account string) string {
	return filepath.Join(userCacheDir(), "uptodo", "google-"+account+".token")
}

// HasTokenForAccount reports whether a token file exists for account.
func HasTokenForAccount(account string) bool {
	if validateAccountName(account) != nil {
		return false
	}
	_, err := os.Stat(getTokenFilePath(account))
	return err == nil
}

// getOAuthConfig returns the OAuth2 client configuration from the environment.
func getOAuthConfig() (*oauth2.Config, error) {
	clientID := os.Getenv(EnvClientID)
	clientSecret := os.Getenv(EnvClientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%s and %s must be set to authenticate with Google", EnvClientID, EnvClientSecret)
	}

	redirect := os.Getenv(EnvRedirectURL)
	if redirect == "" {
		redirect = redirectOOB
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirect,
		Scopes:       DefaultOAuthScopes,
	}, nil
}

// GetAuthURLForAccount returns the URL the user visits to authorize account.
func GetAuthURLForAccount(account string) (string, error) {
	if err := validateAccountName(account); err != nil {
		return "", err
	}
	conf, err := getOAuthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL(account, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// SaveTokenForAccount exchanges an authorization code and stores the token.
func SaveTokenForAccount(ctx context.Context, account, authCode string) error {
	if err := validateAccountName(account); err != nil {
		return err
	}
	conf, err := getOAuthConfig()
	if err != nil {
		return err
	}

	tok, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return writeToken(account, tok)
}

func writeToken(account string, tok *oauth2.Token) error {
	path := getTokenFilePath(account)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func readToken(account string) (*oauth2.Token, error) {
	if err := validateAccountName(account); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(getTokenFilePath(account))
	if err != nil {
		return nil, fmt.Errorf("no Google OAuth token found for account %s; run 'uptodo auth url --account %s' first", account, account)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid token file for account %s: %w", account, err)
	}
	return &tok, nil
}

// persistingTokenSource writes refreshed tokens back to the account's file.
type persistingTokenSource struct {
	account string
	base    oauth2.TokenSource
	last    string
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		if err := writeToken(p.account, tok); err != nil {
			return nil, err
		}
	}
	return tok, nil
}

// GetTokenSourceForAccount returns a refreshing token source for account.
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	tok, err := readToken(account)
	if err != nil {
		return nil, err
	}
	conf, err := getOAuthConfig()
	if err != nil {
		return nil, err
	}

	ts := &persistingTokenSource{
		account: account,
		base:    conf.TokenSource(ctx, tok),
		last:    tok.AccessToken,
	}
	return oauth2.ReuseTokenSource(tok, ts), nil
}

// GetHTTPClientForAccount returns an HTTP client authorized as account.
func GetHTTPClientForAccount(ctx context.Context, account string) (*http.Client, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}

func userCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"LOCALAPPDATA", "TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}
