package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"wayfarer/internal/config"
	"wayfarer/internal/domain"
	"wayfarer/internal/models"

	"github.com/rs/zerolog"
)

// Provider resolves bearer tokens into identities against the external
// auth backend. Resolved identities are cached in the session store so
// repeated requests within the TTL do not hit the backend.
type Provider struct {
	providerURL string
	signInURL   string
	client      *http.Client
	store       domain.SessionStore
	logger      *zerolog.Logger

	mu       sync.RWMutex
	handlers []func(*models.Identity)
}

func NewProvider(cfg config.SessionConfig, store domain.SessionStore, logger *zerolog.Logger) *Provider {
	return &Provider{
		providerURL: cfg.ProviderURL,
		signInURL:   cfg.SignInURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		store:  store,
		logger: logger,
	}
}

// userResponse is the shape the auth backend returns for a valid token.
type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Metadata struct {
		Name string `json:"name"`
	} `json:"user_metadata"`
	ExpiresAt int64 `json:"expires_at"`
}

// CurrentIdentity returns the identity behind the token, or nil when the
// token is empty, unknown or expired. A nil identity with a nil error
// means "not signed in", not a failure.
func (p *Provider) CurrentIdentity(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, nil
	}

	cached, err := p.store.GetSession(ctx, token)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Session cache lookup failed, resolving against provider")
	}
	if cached != nil && !cached.Expired(time.Now()) {
		return cached, nil
	}

	identity, err := p.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		// Token rejected by the provider; drop any stale cache entry.
		if cached != nil {
			_ = p.store.ClearSession(ctx, token)
		}
		p.notify(nil)
		return nil, nil
	}

	if err := p.store.SetSession(ctx, token, identity); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to cache session")
	}
	p.notify(identity)

	return identity, nil
}

func (p *Provider) resolve(ctx context.Context, token string) (*models.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.providerURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach auth provider: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("auth provider returned %d: %s", resp.StatusCode, string(body))
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	if user.ID == "" {
		return nil, nil
	}

	identity := &models.Identity{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Metadata.Name,
		IssuedAt: time.Now(),
	}
	if user.ExpiresAt > 0 {
		identity.ExpiresAt = time.Unix(user.ExpiresAt, 0)
	}

	return identity, nil
}

// OnChange registers a handler called whenever a token resolution changes
// the known identity. Handlers run synchronously on the resolving goroutine.
func (p *Provider) OnChange(handler func(*models.Identity)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, handler)
}

func (p *Provider) notify(identity *models.Identity) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, h := range p.handlers {
		h(identity)
	}
}

// SignInURL is where unauthenticated callers are pointed to.
func (p *Provider) SignInURL() string {
	return p.signInURL
}
