package security

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-appaccount/core"
)

// KeyRotationWindow bounds when a retired key may still open values.
type KeyRotationWindow struct {
	NotBefore time.Time
	NotAfter  time.Time
}

func (w KeyRotationWindow) Allows(at time.Time) bool {
	ts := at.UTC()
	if !w.NotBefore.IsZero() && ts.Before(w.NotBefore.UTC()) {
		return false
	}
	if !w.NotAfter.IsZero() && ts.After(w.NotAfter.UTC()) {
		return false
	}
	return true
}

type retiredKey struct {
	provider *AppKeySecretProvider
	window   KeyRotationWindow
}

type RotatingOption func(*RotatingSecretProvider)

// RotatingSecretProvider seals with the active key and opens values sealed
// under any retired key whose window is still open. Stored secrets can then
// be re-sealed lazily as accounts are saved.
type RotatingSecretProvider struct {
	active *AppKeySecretProvider
	now    func() time.Time

	mu      sync.RWMutex
	retired map[string]retiredKey
}

func WithRetiredKey(provider *AppKeySecretProvider, window KeyRotationWindow) RotatingOption {
	return func(p *RotatingSecretProvider) {
		if provider == nil {
			return
		}
		p.retired[retiredKeyName(provider.KeyID(), provider.Version())] = retiredKey{provider: provider, window: window}
	}
}

func WithRotationClock(now func() time.Time) RotatingOption {
	return func(p *RotatingSecretProvider) {
		if now != nil {
			p.now = now
		}
	}
}

func NewRotatingSecretProvider(active *AppKeySecretProvider, opts ...RotatingOption) (*RotatingSecretProvider, error) {
	if active == nil {
		return nil, fmt.Errorf("security: active secret provider is required")
	}
	provider := &RotatingSecretProvider{
		active:  active,
		now:     func() time.Time { return time.Now().UTC() },
		retired: map[string]retiredKey{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(provider)
	}
	delete(provider.retired, retiredKeyName(active.KeyID(), active.Version()))
	return provider, nil
}

func (p *RotatingSecretProvider) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	if p == nil || p.active == nil {
		return nil, fmt.Errorf("security: rotating secret provider is not configured")
	}
	return p.active.Encrypt(ctx, plaintext)
}

func (p *RotatingSecretProvider) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	if p == nil || p.active == nil {
		return nil, fmt.Errorf("security: rotating secret provider is not configured")
	}
	meta, err := ParseEnvelopeMetadata(ciphertext)
	if err != nil {
		return nil, err
	}
	if meta.KeyID == p.active.KeyID() && meta.Version == p.active.Version() {
		return p.active.Decrypt(ctx, ciphertext)
	}

	p.mu.RLock()
	key, ok := p.retired[retiredKeyName(meta.KeyID, meta.Version)]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("security: no key registered for %s v%d", meta.KeyID, meta.Version)
	}
	if !key.window.Allows(p.now()) {
		return nil, fmt.Errorf("security: key %s v%d is outside its rotation window", meta.KeyID, meta.Version)
	}
	return key.provider.Decrypt(ctx, ciphertext)
}

// NeedsReseal reports whether ciphertext was sealed by a key other than the
// active one.
func (p *RotatingSecretProvider) NeedsReseal(ciphertext []byte) bool {
	if p == nil || p.active == nil {
		return false
	}
	meta, err := ParseEnvelopeMetadata(ciphertext)
	if err != nil {
		return false
	}
	return meta.KeyID != p.active.KeyID() || meta.Version != p.active.Version()
}

func (p *RotatingSecretProvider) Retire(provider *AppKeySecretProvider, window KeyRotationWindow) {
	if p == nil || provider == nil {
		return
	}
	p.mu.Lock()
	p.retired[retiredKeyName(provider.KeyID(), provider.Version())] = retiredKey{provider: provider, window: window}
	p.mu.Unlock()
}

func retiredKeyName(keyID string, version int) string {
	return fmt.Sprintf("%s@%d", strings.TrimSpace(keyID), version)
}

var _ core.SecretProvider = (*RotatingSecretProvider)(nil)
