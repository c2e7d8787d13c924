package core

import (
	"context"
	"sync"
)

// StaticPermissionChecker grants device permissions from an in-memory table.
// Anything not granted is denied.
type StaticPermissionChecker struct {
	mu     sync.RWMutex
	grants map[string]map[string]struct{}
}

func NewStaticPermissionChecker() *StaticPermissionChecker {
	return &StaticPermissionChecker{grants: map[string]map[string]struct{}{}}
}

func (c *StaticPermissionChecker) Grant(appID string, permissions ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.grants[appID]
	if !ok {
		set = map[string]struct{}{}
		c.grants[appID] = set
	}
	for _, permission := range permissions {
		set[permission] = struct{}{}
	}
}

func (c *StaticPermissionChecker) Revoke(appID string, permission string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.grants[appID], permission)
}

func (c *StaticPermissionChecker) HasPermission(_ context.Context, appID string, permission string) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.grants[appID][permission]
	return ok, nil
}

var _ PermissionChecker = (*StaticPermissionChecker)(nil)
