package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// refreshSkew is how long before expiry a token is treated as stale.
const refreshSkew = 60 * time.Second

// PersistingTokenSource is an oauth2.TokenSource that writes refreshed
// tokens back through a persistence callback, so a restart picks up the
// newest refresh token instead of a revoked one.
type PersistingTokenSource struct {
	config  *oauth2.Config
	persist func(*oauth2.Token) error

	mu    sync.Mutex
	token *oauth2.Token
}

// NewPersistingTokenSource wraps a stored token. persist may be nil when
// the caller handles persistence elsewhere.
func NewPersistingTokenSource(cfg *oauth2.Config, token *oauth2.Token, persist func(*oauth2.Token) error) *PersistingTokenSource {
	return &PersistingTokenSource{config: cfg, persist: persist, token: token}
}

// Token returns a usable token, refreshing and persisting when the current
// one is inside the expiry skew.
func (ts *PersistingTokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if time.Until(ts.token.Expiry) > refreshSkew {
		return ts.token, nil
	}

	fresh, err := ts.config.TokenSource(context.Background(), ts.token).Token()
	if err != nil {
		return nil, err
	}

	if ts.persist != nil {
		if err := ts.persist(fresh); err != nil {
			return nil, err
		}
	}

	ts.token = fresh
	return fresh, nil
}

// Stale reports whether the current token is expired or inside the skew.
func (ts *PersistingTokenSource) Stale() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return time.Until(ts.token.Expiry) <= refreshSkew
}
