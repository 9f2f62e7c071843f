// Package adapter provides implementations of external interfaces that other
// layers need from auth. The rest client wants a token source before the
// session service can exist, because the session service itself calls the
// backend through that client; the bridge breaks the cycle.
package adapter

import (
	"sync"

	"github.com/ivenhartford/LCH-sub002/platform/rest"
)

// TokenBridge implements rest.TokenSource by delegating to a source bound
// after construction. Before Bind it reports no token, so early requests go
// out unauthenticated.
type TokenBridge struct {
	mu  sync.RWMutex
	src rest.TokenSource
}

// NewTokenBridge creates an unbound bridge.
func NewTokenBridge() *TokenBridge {
	return &TokenBridge{}
}

// Bind attaches the real token source.
func (b *TokenBridge) Bind(src rest.TokenSource) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.src = src
}

// AccessToken implements rest.TokenSource.
func (b *TokenBridge) AccessToken() (string, bool) {
	b.mu.RLock()
	src := b.src
	b.mu.RUnlock()
	if src == nil {
		return "", false
	}
	return src.AccessToken()
}
