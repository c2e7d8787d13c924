package core

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type MemoryAppDirectory struct {
	mu   sync.RWMutex
	apps map[string]AppRegistration
}

func NewMemoryAppDirectory(appIDs ...string) *MemoryAppDirectory {
	directory := &MemoryAppDirectory{apps: make(map[string]AppRegistration, len(appIDs))}
	for _, appID := range appIDs {
		if appID == "" {
			continue
		}
		directory.apps[appID] = AppRegistration{AppID: appID, CreatedAt: time.Now().UTC()}
	}
	return directory
}

func (d *MemoryAppDirectory) Register(_ context.Context, registration AppRegistration) (AppRegistration, error) {
	if d == nil {
		return AppRegistration{}, fmt.Errorf("core: app directory is nil")
	}
	if err := validateAppID("app id", registration.AppID); err != nil {
		return AppRegistration{}, err
	}
	if registration.Authenticator != nil {
		authenticator := *registration.Authenticator
		authenticator.Owner = registration.AppID
		registration.Authenticator = &authenticator
	}
	if registration.CreatedAt.IsZero() {
		registration.CreatedAt = time.Now().UTC()
	}
	d.mu.Lock()
	d.apps[registration.AppID] = registration
	d.mu.Unlock()
	return registration, nil
}

func (d *MemoryAppDirectory) IsRegistered(_ context.Context, appID string) (bool, error) {
	if d == nil {
		return false, nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.apps[appID]
	return ok, nil
}

func (d *MemoryAppDirectory) GetAuthenticator(_ context.Context, owner string) (AuthenticatorInfo, error) {
	if d == nil {
		return AuthenticatorInfo{}, notFoundError("core: app directory is not configured")
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	registration, ok := d.apps[owner]
	if !ok || registration.Authenticator == nil {
		return AuthenticatorInfo{}, notFoundError(fmt.Sprintf("core: authenticator not found for %q", owner))
	}
	return *registration.Authenticator, nil
}

var (
	_ AppDirectory = (*MemoryAppDirectory)(nil)
	_ AppRegistrar = (*MemoryAppDirectory)(nil)
)
