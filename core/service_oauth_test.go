package core

import (
	"context"
	"testing"
)

func TestOAuthToken_OverwriteKeepsLatest(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.manager(t, ownerApp)
	env.addAccount(t, ownerApp, "acct1")

	if err := owner.SetOAuthToken(ctx, "acct1", "t1", "tok1"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := owner.SetOAuthToken(ctx, "acct1", "t1", "tok2"); err != nil {
		t.Fatalf("overwrite token: %v", err)
	}
	token, err := owner.GetOAuthToken(ctx, "acct1", ownerApp, "t1")
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if token != "tok2" {
		t.Fatalf("expected tok2, got %q", token)
	}
	if _, err := owner.GetOAuthToken(ctx, "acct1", ownerApp, "unset"); !IsNotFound(err) {
		t.Fatalf("expected not found for unset auth type, got %v", err)
	}
	if _, err := owner.GetOAuthToken(ctx, "missing", ownerApp, "t1"); !IsNotFound(err) {
		t.Fatalf("expected not found for missing account, got %v", err)
	}
}

func TestOAuthToken_ValidatesLengths(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.manager(t, ownerApp)
	env.addAccount(t, ownerApp, "acct1")

	if err := owner.SetOAuthToken(ctx, "acct1", repeat("a", MaxFieldLength+1), "tok"); !IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for oversize auth type, got %v", err)
	}
	if err := owner.SetOAuthToken(ctx, "acct1", "t1", repeat("v", MaxFieldLength+1)); !IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for oversize token, got %v", err)
	}
	if err := owner.SetOAuthToken(ctx, "acct1", "t1", repeat("v", MaxFieldLength)); err != nil {
		t.Fatalf("expected token at limit to be accepted: %v", err)
	}
	longAuthType := repeat("a", MaxFieldLength)
	if err := owner.SetOAuthToken(ctx, "acct1", longAuthType, "tok"); err != nil {
		t.Fatalf("expected auth type at limit to be accepted: %v", err)
	}
	if token, err := owner.GetOAuthToken(ctx, "acct1", ownerApp, longAuthType); err != nil || token != "tok" {
		t.Fatalf("expected token under auth type at limit, got %q err=%v", token, err)
	}
	if err := owner.SetOAuthToken(ctx, "", "t1", "tok"); !IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for empty name, got %v", err)
	}
	if _, err := owner.GetOAuthToken(ctx, "acct1", "", "t1"); !IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for empty owner, got %v", err)
	}
	if err := owner.DeleteOAuthToken(ctx, "acct1", ownerApp, "t1", repeat("v", MaxFieldLength+1)); !IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for oversize delete token, got %v", err)
	}
}

func TestOAuthVisibility_GrantsAndRevokesRead(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.manager(t, ownerApp)
	grantee := env.manager(t, granteeApp)
	env.addAccount(t, ownerApp, "acct1")

	if err := owner.SetOAuthToken(ctx, "acct1", "t1", "tok"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if _, err := grantee.GetOAuthToken(ctx, "acct1", ownerApp, "t1"); !IsPermissionDenied(err) {
		t.Fatalf("expected permission denied before grant, got %v", err)
	}

	if err := owner.SetOAuthTokenVisibility(ctx, "acct1", "t1", granteeApp, true); err != nil {
		t.Fatalf("grant visibility: %v", err)
	}
	visible, err := owner.CheckOAuthTokenVisibility(ctx, "acct1", "t1", granteeApp)
	if err != nil {
		t.Fatalf("check visibility: %v", err)
	}
	if !visible {
		t.Fatalf("expected grantee to be visible")
	}
	token, err := grantee.GetOAuthToken(ctx, "acct1", ownerApp, "t1")
	if err != nil {
		t.Fatalf("grantee get token: %v", err)
	}
	if token != "tok" {
		t.Fatalf("expected tok, got %q", token)
	}
	if _, err := grantee.GetOAuthToken(ctx, "acct1", ownerApp, "t2"); !IsPermissionDenied(err) {
		t.Fatalf("expected visibility to be scoped per auth type, got %v", err)
	}

	if err := owner.SetOAuthTokenVisibility(ctx, "acct1", "t1", granteeApp, false); err != nil {
		t.Fatalf("revoke visibility: %v", err)
	}
	if _, err := grantee.GetOAuthToken(ctx, "acct1", ownerApp, "t1"); !IsPermissionDenied(err) {
		t.Fatalf("expected permission denied after revoke, got %v", err)
	}
	visible, err = owner.CheckOAuthTokenVisibility(ctx, "acct1", "t1", granteeApp)
	if err != nil {
		t.Fatalf("check visibility: %v", err)
	}
	if visible {
		t.Fatalf("expected grantee to be hidden after revoke")
	}
}

func TestOAuthVisibility_SurvivesTokenOverwriteAndDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.manager(t, ownerApp)
	grantee := env.manager(t, granteeApp)
	env.addAccount(t, ownerApp, "acct1")

	if err := owner.SetOAuthToken(ctx, "acct1", "t1", "tok1"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := owner.SetOAuthTokenVisibility(ctx, "acct1", "t1", granteeApp, true); err != nil {
		t.Fatalf("grant visibility: %v", err)
	}
	if err := owner.SetOAuthToken(ctx, "acct1", "t1", "tok2"); err != nil {
		t.Fatalf("overwrite token: %v", err)
	}
	if token, err := grantee.GetOAuthToken(ctx, "acct1", ownerApp, "t1"); err != nil || token != "tok2" {
		t.Fatalf("expected grantee to read overwritten token, got %q err=%v", token, err)
	}

	if err := owner.DeleteOAuthToken(ctx, "acct1", ownerApp, "t1", "mismatched"); err != nil {
		t.Fatalf("delete token: %v", err)
	}
	if _, err := owner.GetOAuthToken(ctx, "acct1", ownerApp, "t1"); !IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	list, err := owner.GetOAuthList(ctx, "acct1", "t1")
	if err != nil {
		t.Fatalf("get oauth list: %v", err)
	}
	if len(list) != 1 || list[0] != granteeApp {
		t.Fatalf("expected grantee to remain in visibility list, got %#v", list)
	}
	tokens, err := owner.GetAllOAuthTokens(ctx, "acct1", ownerApp)
	if err != nil {
		t.Fatalf("get all tokens: %v", err)
	}
	if len(tokens) != 1 || tokens[0].AuthType != "t1" || tokens[0].Token != "" {
		t.Fatalf("expected entry kept with empty token, got %#v", tokens)
	}
}

func TestDeleteOAuthToken_IsLenient(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.manager(t, ownerApp)
	env.addAccount(t, ownerApp, "acct1")

	if err := owner.DeleteOAuthToken(ctx, "acct1", ownerApp, "never", ""); err != nil {
		t.Fatalf("expected delete of unset token to succeed, got %v", err)
	}
	if err := owner.SetOAuthToken(ctx, "acct1", "t1", "tok"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := owner.DeleteOAuthToken(ctx, "acct1", ownerApp, "t1", ""); err != nil {
		t.Fatalf("delete token: %v", err)
	}
	if err := owner.DeleteOAuthToken(ctx, "acct1", ownerApp, "t1", "tok"); err != nil {
		t.Fatalf("expected repeated delete to succeed, got %v", err)
	}
	tokens, err := owner.GetAllOAuthTokens(ctx, "acct1", ownerApp)
	if err != nil {
		t.Fatalf("get all tokens: %v", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("expected entry without grantees to disappear, got %#v", tokens)
	}
	if err := owner.DeleteOAuthToken(ctx, "missing", ownerApp, "t1", ""); !IsNotFound(err) {
		t.Fatalf("expected not found for missing account, got %v", err)
	}
}

func TestDeleteOAuthToken_NonOwnerNeedsVisibility(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.manager(t, ownerApp)
	grantee := env.manager(t, granteeApp)
	env.addAccount(t, ownerApp, "acct1")

	if err := owner.SetOAuthToken(ctx, "acct1", "t1", "tok"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := grantee.DeleteOAuthToken(ctx, "acct1", ownerApp, "t1", "tok"); !IsPermissionDenied(err) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if err := owner.SetOAuthTokenVisibility(ctx, "acct1", "t1", granteeApp, true); err != nil {
		t.Fatalf("grant visibility: %v", err)
	}
	if err := grantee.DeleteOAuthToken(ctx, "acct1", ownerApp, "t1", "tok"); err != nil {
		t.Fatalf("expected visible grantee to delete, got %v", err)
	}
	if _, err := owner.GetOAuthToken(ctx, "acct1", ownerApp, "t1"); !IsNotFound(err) {
		t.Fatalf("expected token cleared, got %v", err)
	}
}

func TestOAuthVisibility_EdgeCases(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.manager(t, ownerApp)
	env.addAccount(t, ownerApp, "acct1")

	if err := owner.SetOAuthTokenVisibility(ctx, "acct1", "t1", "", true); !IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for empty bundle, got %v", err)
	}
	if err := owner.SetOAuthTokenVisibility(ctx, "acct1", "t1", repeat("b", MaxFieldLength+1), true); !IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for oversize bundle, got %v", err)
	}
	if err := owner.SetOAuthTokenVisibility(ctx, "missing", "t1", granteeApp, true); !IsNotFound(err) {
		t.Fatalf("expected not found for missing account, got %v", err)
	}
	if err := owner.SetOAuthTokenVisibility(ctx, "acct1", "t1", ownerApp, false); err != nil {
		t.Fatalf("expected owner visibility change to be a no-op, got %v", err)
	}
	visible, err := owner.CheckOAuthTokenVisibility(ctx, "acct1", "t1", ownerApp)
	if err != nil {
		t.Fatalf("check owner visibility: %v", err)
	}
	if !visible {
		t.Fatalf("expected owner to always see its tokens")
	}

	// Unregistered bundles are still accepted for token visibility.
	if err := owner.SetOAuthTokenVisibility(ctx, "acct1", "", "com.example.unknown", true); err != nil {
		t.Fatalf("grant on empty auth type: %v", err)
	}
	if err := owner.SetOAuthTokenVisibility(ctx, "acct1", " ", granteeApp, true); err != nil {
		t.Fatalf("grant on whitespace auth type: %v", err)
	}
	emptyList, err := owner.GetOAuthList(ctx, "acct1", "")
	if err != nil {
		t.Fatalf("get list for empty auth type: %v", err)
	}
	if len(emptyList) != 1 || emptyList[0] != "com.example.unknown" {
		t.Fatalf("expected empty auth type to be its own key, got %#v", emptyList)
	}
	spaceList, err := owner.GetOAuthList(ctx, "acct1", " ")
	if err != nil {
		t.Fatalf("get list for whitespace auth type: %v", err)
	}
	if len(spaceList) != 1 || spaceList[0] != granteeApp {
		t.Fatalf("expected whitespace auth type to be its own key, got %#v", spaceList)
	}
	if _, err := owner.GetOAuthToken(ctx, "acct1", ownerApp, ""); !IsNotFound(err) {
		t.Fatalf("expected visibility-only entry to have no token, got %v", err)
	}
	unset, err := owner.GetOAuthList(ctx, "acct1", "unset")
	if err != nil {
		t.Fatalf("get list for unset auth type: %v", err)
	}
	if len(unset) != 0 {
		t.Fatalf("expected empty list, got %#v", unset)
	}
}

func TestGetAllOAuthTokens_RedactsHiddenTokens(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.manager(t, ownerApp)
	grantee := env.manager(t, granteeApp)
	env.addAccount(t, ownerApp, "acct1")

	if err := owner.SetOAuthToken(ctx, "acct1", "b", "tok-b"); err != nil {
		t.Fatalf("set token b: %v", err)
	}
	if err := owner.SetOAuthToken(ctx, "acct1", "a", "tok-a"); err != nil {
		t.Fatalf("set token a: %v", err)
	}
	if err := owner.SetOAuthTokenVisibility(ctx, "acct1", "b", granteeApp, true); err != nil {
		t.Fatalf("grant visibility: %v", err)
	}

	tokens, err := grantee.GetAllOAuthTokens(ctx, "acct1", ownerApp)
	if err != nil {
		t.Fatalf("get all tokens: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected two entries, got %#v", tokens)
	}
	if tokens[0].AuthType != "a" || tokens[0].Token != "" {
		t.Fatalf("expected hidden token a to be redacted, got %#v", tokens[0])
	}
	if tokens[1].AuthType != "b" || tokens[1].Token != "tok-b" {
		t.Fatalf("expected visible token b, got %#v", tokens[1])
	}

	ownTokens, err := owner.GetAllOAuthTokens(ctx, "acct1", ownerApp)
	if err != nil {
		t.Fatalf("owner get all tokens: %v", err)
	}
	if ownTokens[0].Token != "tok-a" || ownTokens[1].Token != "tok-b" {
		t.Fatalf("expected owner to see every token, got %#v", ownTokens)
	}
}
