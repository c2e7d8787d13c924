package core

import (
	"context"
	"testing"
	"time"
)

func TestManagerFromContext_ResolvesCaller(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.svc.ManagerFromContext(context.Background()); !IsPermissionDenied(err) {
		t.Fatalf("expected permission denied without caller, got %v", err)
	}
	manager, err := env.svc.ManagerFromContext(WithCallerApp(context.Background(), ownerApp))
	if err != nil {
		t.Fatalf("manager from context: %v", err)
	}
	if manager.AppID() != ownerApp {
		t.Fatalf("expected %q, got %q", ownerApp, manager.AppID())
	}
	if _, err := env.svc.Manager(""); !IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for empty app id, got %v", err)
	}
}

func TestCallbackManager_MatchesDirectForm(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	callbacks := env.manager(t, ownerApp).Callbacks()

	added := make(chan error, 2)
	callbacks.AddAccount(ctx, "acct1", func(err error) { added <- err })
	if err := waitErr(t, added); err != nil {
		t.Fatalf("add account callback: %v", err)
	}
	callbacks.AddAccount(ctx, "acct1", func(err error) { added <- err })
	if err := waitErr(t, added); !IsAlreadyExists(err) {
		t.Fatalf("expected already exists through callback, got %v", err)
	}

	set := make(chan error, 1)
	callbacks.SetOAuthToken(ctx, "acct1", "t1", "tok", func(err error) { set <- err })
	if err := waitErr(t, set); err != nil {
		t.Fatalf("set token callback: %v", err)
	}

	type tokenResult struct {
		token string
		err   error
	}
	got := make(chan tokenResult, 1)
	callbacks.GetOAuthToken(ctx, "acct1", ownerApp, "t1", func(token string, err error) {
		got <- tokenResult{token: token, err: err}
	})
	select {
	case result := <-got:
		if result.err != nil || result.token != "tok" {
			t.Fatalf("expected tok, got %q err=%v", result.token, result.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for callback")
	}
}

func waitErr(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for callback")
		return nil
	}
}
