package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Kind selects how a Google credential is acquired. It is resolved once
// from configuration before any client is constructed; nothing infers the
// auth type at call sites.
type Kind string

const (
	// KindOAuthUser runs the installed-application OAuth flow and caches
	// the token on disk.
	KindOAuthUser Kind = "oauth"
	// KindServiceAccount signs a JWT with a service account key.
	KindServiceAccount Kind = "service_account"
)

// ParseKind validates a configured kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindOAuthUser, KindServiceAccount:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown auth kind %q (expected %q or %q)", s, KindOAuthUser, KindServiceAccount)
	}
}

// Config holds configuration for credential acquisition.
type Config struct {
	// Kind selects the credential flow (oauth or service_account).
	Kind string `mapstructure:"kind" default:"oauth"`
	// SecretFile is the path to the OAuth client secret or service
	// account key JSON.
	SecretFile string `mapstructure:"secret_file" default:"client_secret.json"`
	// TokenFile is where the OAuth user token is cached between runs.
	// Unused for service accounts.
	TokenFile string `mapstructure:"token_file" default:"token.json"`
}

// Credential wraps an acquired Google credential. Its lifetime is scoped to
// one sync run; constructors receive it explicitly instead of sharing a
// global session.
type Credential struct {
	kind   Kind
	source oauth2.TokenSource
}

// Kind returns the flow the credential was acquired with.
func (c *Credential) Kind() Kind {
	return c.kind
}

// Client returns an HTTP client that authenticates every request. The
// client is safe for concurrent use; it holds only the token source and
// the connection pool.
func (c *Credential) Client(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, c.source)
}

// NewCredential acquires a credential for the given scopes. Failures here
// are fatal to the run: no remote call is attempted with an invalid or
// expired credential.
func NewCredential(ctx context.Context, log *zap.Logger, cfg Config, scopes ...string) (*Credential, error) {
	kind, err := ParseKind(cfg.Kind)
	if err != nil {
		return nil, err
	}

	secret, err := os.ReadFile(cfg.SecretFile)
	if err != nil {
		return nil, fmt.Errorf("reading credential secret %s: %w", cfg.SecretFile, err)
	}

	switch kind {
	case KindServiceAccount:
		jwt, err := google.JWTConfigFromJSON(secret, scopes...)
		if err != nil {
			return nil, fmt.Errorf("parsing service account key %s: %w", cfg.SecretFile, err)
		}
		log.Info("Authenticating using service account", zap.String("client_email", jwt.Email))
		return &Credential{kind: kind, source: jwt.TokenSource(ctx)}, nil

	case KindOAuthUser:
		oc, err := google.ConfigFromJSON(secret, scopes...)
		if err != nil {
			return nil, fmt.Errorf("parsing OAuth client secret %s: %w", cfg.SecretFile, err)
		}
		log.Info("Authenticating using OAuth", zap.String("client_id", oc.ClientID))

		token, err := tokenFromFile(cfg.TokenFile)
		if err != nil {
			token, err = tokenFromWeb(ctx, oc)
			if err != nil {
				return nil, err
			}
			if err := saveToken(cfg.TokenFile, token); err != nil {
				return nil, err
			}
			log.Info("Cached OAuth token", zap.String("token_file", cfg.TokenFile))
		}

		// Persisting refreshed tokens is handled lazily: the source
		// refreshes in memory and the cached file keeps the refresh
		// token, which is the part that matters across runs.
		return &Credential{kind: kind, source: oc.TokenSource(ctx, token)}, nil

	default:
		return nil, fmt.Errorf("unhandled auth kind %q", kind)
	}
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("parsing cached token %s: %w", path, err)
	}
	return token, nil
}

// tokenFromWeb runs the out-of-band installed flow: the user opens the
// printed URL, grants access, and pastes the resulting code.
func tokenFromWeb(ctx context.Context, oc *oauth2.Config) (*oauth2.Token, error) {
	url := oc.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following link in your browser, then paste the authorization code:\n%v\n", url)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("reading authorization code: %w", err)
	}

	token, err := oc.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating token cache %s: %w", path, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("writing token cache %s: %w", path, err)
	}
	return nil
}
