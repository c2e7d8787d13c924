package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-appaccount/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const appRegistrationCacheKeyPrefix = "appaccount::app_registration::v1"

type registrationSource interface {
	core.AppRegistrar
	Lookup(ctx context.Context, appID string) (core.AppRegistration, bool, error)
}

type cachedRegistration struct {
	Found        bool
	Registration core.AppRegistration
}

// CachedAppDirectory fronts a registration source with a read-through cache.
// Misses are cached too; Register through this wrapper invalidates the key.
type CachedAppDirectory struct {
	base  registrationSource
	cache repositorycache.CacheService
}

func NewCachedAppDirectory(
	base registrationSource,
	cacheService repositorycache.CacheService,
) (*CachedAppDirectory, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base app directory is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: app directory cache service is required")
	}
	return &CachedAppDirectory{base: base, cache: cacheService}, nil
}

// AppRegistrationCacheKey returns appaccount::app_registration::v1::<app_id>
// with the app id URL-path escaped.
func AppRegistrationCacheKey(appID string) string {
	return appRegistrationCacheKeyPrefix + "::" + url.PathEscape(strings.TrimSpace(appID))
}

func (d *CachedAppDirectory) Register(ctx context.Context, registration core.AppRegistration) (core.AppRegistration, error) {
	if d == nil || d.base == nil || d.cache == nil {
		return core.AppRegistration{}, fmt.Errorf("sqlstore: cached app directory is not configured")
	}
	registered, err := d.base.Register(ctx, registration)
	if err != nil {
		return core.AppRegistration{}, err
	}
	if err := d.cache.Delete(ctx, AppRegistrationCacheKey(registered.AppID)); err != nil {
		return core.AppRegistration{}, err
	}
	return registered, nil
}

func (d *CachedAppDirectory) IsRegistered(ctx context.Context, appID string) (bool, error) {
	entry, err := d.lookup(ctx, appID)
	if err != nil {
		return false, err
	}
	return entry.Found, nil
}

func (d *CachedAppDirectory) GetAuthenticator(ctx context.Context, owner string) (core.AuthenticatorInfo, error) {
	entry, err := d.lookup(ctx, owner)
	if err != nil {
		return core.AuthenticatorInfo{}, err
	}
	if !entry.Found || entry.Registration.Authenticator == nil {
		return core.AuthenticatorInfo{}, core.NotFoundError(fmt.Sprintf("sqlstore: authenticator for %q not found", owner))
	}
	return *entry.Registration.Authenticator, nil
}

func (d *CachedAppDirectory) lookup(ctx context.Context, appID string) (cachedRegistration, error) {
	if d == nil || d.base == nil || d.cache == nil {
		return cachedRegistration{}, fmt.Errorf("sqlstore: cached app directory is not configured")
	}
	appID = strings.TrimSpace(appID)
	return repositorycache.GetOrFetch(ctx, d.cache, AppRegistrationCacheKey(appID), func(ctx context.Context) (cachedRegistration, error) {
		registration, found, err := d.base.Lookup(ctx, appID)
		if err != nil {
			return cachedRegistration{}, err
		}
		if registration.Authenticator != nil {
			authenticator := *registration.Authenticator
			registration.Authenticator = &authenticator
		}
		return cachedRegistration{Found: found, Registration: registration}, nil
	})
}
