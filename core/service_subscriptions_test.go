package core

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSubscribe_SelfSubscriptionSeesOwnMutations(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.manager(t, ownerApp)
	recorder := newBatchRecorder()

	sub, err := owner.On(ctx, []string{ownerApp, ownerApp}, recorder.listener)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if owners := sub.Owners(); len(owners) != 1 {
		t.Fatalf("expected owners to be de-duplicated, got %#v", owners)
	}

	if err := owner.AddAccount(ctx, "acct1"); err != nil {
		t.Fatalf("add account: %v", err)
	}
	batch := recorder.next(t)
	if len(batch) != 1 || batch[0] != (AppAccountInfo{Owner: ownerApp, Name: "acct1"}) {
		t.Fatalf("unexpected add batch %#v", batch)
	}

	if err := owner.DeleteAccount(ctx, "acct1"); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	batch = recorder.next(t)
	if len(batch) != 1 || batch[0].Name != "acct1" {
		t.Fatalf("unexpected delete batch %#v", batch)
	}
}

func TestSubscribe_FailsClosedForUnknownOrUngrantedOwners(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	grantee := env.manager(t, granteeApp)
	recorder := newBatchRecorder()
	env.addAccount(t, ownerApp, "acct1")

	if _, err := grantee.On(ctx, []string{ownerApp}, recorder.listener); !IsPermissionDenied(err) {
		t.Fatalf("expected permission denied without any grant, got %v", err)
	}
	if _, err := grantee.On(ctx, []string{granteeApp, "com.example.unknown"}, recorder.listener); !IsNotFound(err) {
		t.Fatalf("expected not found for unknown owner, got %v", err)
	}
	if _, err := grantee.On(ctx, []string{""}, recorder.listener); !IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for empty owner, got %v", err)
	}
	if _, err := grantee.On(ctx, nil, recorder.listener); !IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for no owners, got %v", err)
	}
	if _, err := grantee.On(ctx, []string{granteeApp}, nil); !IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for nil listener, got %v", err)
	}
	if count := env.svc.hub.count(); count != 0 {
		t.Fatalf("expected failed subscriptions to register nothing, got %d", count)
	}

	if err := env.manager(t, ownerApp).SetAccountExtraInfo(ctx, "acct1", "x"); err != nil {
		t.Fatalf("set extra info: %v", err)
	}
	recorder.expectNone(t, 100*time.Millisecond)
}

func TestSubscribe_GranteeReceivesEveryChangeOfSubscribedOwner(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.manager(t, ownerApp)
	grantee := env.manager(t, granteeApp)
	env.addAccount(t, ownerApp, "shared")
	env.addAccount(t, ownerApp, "private")

	if err := owner.EnableAppAccess(ctx, "shared", granteeApp); err != nil {
		t.Fatalf("enable app access: %v", err)
	}
	recorder := newBatchRecorder()
	if _, err := grantee.On(ctx, []string{ownerApp}, recorder.listener); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// Delivery is scoped by owner; the grant only gates Subscribe.
	if err := owner.SetAccountExtraInfo(ctx, "private", "x"); err != nil {
		t.Fatalf("set private extra info: %v", err)
	}
	batch := recorder.next(t)
	if len(batch) != 1 || batch[0] != (AppAccountInfo{Owner: ownerApp, Name: "private"}) {
		t.Fatalf("expected change on ungranted account of subscribed owner, got %#v", batch)
	}
	if err := owner.SetAccountCredential(ctx, "shared", "password", "p"); err != nil {
		t.Fatalf("set shared credential: %v", err)
	}
	batch = recorder.next(t)
	if len(batch) != 1 || batch[0].Name != "shared" {
		t.Fatalf("expected change on granted account, got %#v", batch)
	}

	if err := owner.DisableAppAccess(ctx, "shared", granteeApp); err != nil {
		t.Fatalf("disable app access: %v", err)
	}
	batch = recorder.next(t)
	if len(batch) != 1 || batch[0].Name != "shared" {
		t.Fatalf("expected revoke notification, got %#v", batch)
	}
	if err := owner.SetAccountExtraInfo(ctx, "shared", "y"); err != nil {
		t.Fatalf("set shared extra info: %v", err)
	}
	batch = recorder.next(t)
	if len(batch) != 1 || batch[0].Name != "shared" {
		t.Fatalf("expected live subscription to keep receiving owner changes, got %#v", batch)
	}
}

func TestSubscribe_RepeatedWritesNotifyLikeAnyMutation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.manager(t, ownerApp)
	env.addAccount(t, ownerApp, "acct1")

	if err := owner.SetOAuthToken(ctx, "acct1", "oauth2", "tok"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	recorder := newBatchRecorder()
	if _, err := owner.On(ctx, []string{ownerApp}, recorder.listener); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"identical extra info", func() error { return owner.SetAccountExtraInfo(ctx, "acct1", "") }},
		{"identical token", func() error { return owner.SetOAuthToken(ctx, "acct1", "oauth2", "tok") }},
		{"owner visibility", func() error { return owner.SetOAuthTokenVisibility(ctx, "acct1", "oauth2", ownerApp, true) }},
		{"hide ungranted", func() error { return owner.SetOAuthTokenVisibility(ctx, "acct1", "oauth2", granteeApp, false) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		batch := recorder.next(t)
		if len(batch) != 1 || batch[0].Name != "acct1" {
			t.Fatalf("%s: expected notification, got %#v", step.name, batch)
		}
	}
}

func TestUnsubscribe_IsIdempotentAndStopsDelivery(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.manager(t, ownerApp)
	recorder := newBatchRecorder()

	sub, err := owner.On(ctx, []string{ownerApp}, recorder.listener)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := owner.Off(ctx, sub); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if err := owner.Off(ctx, sub); err != nil {
		t.Fatalf("expected repeated unsubscribe to succeed, got %v", err)
	}
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatalf("expected subscription to be done")
	}
	if err := owner.AddAccount(ctx, "acct1"); err != nil {
		t.Fatalf("add account: %v", err)
	}
	recorder.expectNone(t, 100*time.Millisecond)
}

func TestSubscriptions_AreIndependent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.manager(t, ownerApp)
	first := newBatchRecorder()
	second := newBatchRecorder()

	if _, err := owner.On(ctx, []string{ownerApp}, first.listener); err != nil {
		t.Fatalf("subscribe first: %v", err)
	}
	if _, err := owner.On(ctx, []string{ownerApp}, second.listener); err != nil {
		t.Fatalf("subscribe second: %v", err)
	}
	if err := owner.AddAccount(ctx, "acct1"); err != nil {
		t.Fatalf("add account: %v", err)
	}
	first.next(t)
	second.next(t)

	if err := owner.Off(ctx); err != nil {
		t.Fatalf("unsubscribe all: %v", err)
	}
	if count := env.svc.hub.count(); count != 0 {
		t.Fatalf("expected every subscription removed, got %d", count)
	}
}

func TestChangeHub_RecoversListenerPanics(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.manager(t, ownerApp)

	var calls atomic.Int32
	recorder := newBatchRecorder()
	_, err := owner.On(ctx, []string{ownerApp}, func(ctx context.Context, batch []AppAccountInfo) {
		if calls.Add(1) == 1 {
			panic("listener failure")
		}
		recorder.listener(ctx, batch)
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := owner.AddAccount(ctx, "acct1"); err != nil {
		t.Fatalf("add account: %v", err)
	}
	if err := owner.AddAccount(ctx, "acct2"); err != nil {
		t.Fatalf("add account: %v", err)
	}
	batch := recorder.next(t)
	if len(batch) != 1 || batch[0].Name != "acct2" {
		t.Fatalf("expected delivery to continue after panic, got %#v", batch)
	}
}

func TestChangeHub_BatchesUpToMaxBatchSize(t *testing.T) {
	hub := newChangeHub(2, nil)
	defer hub.close()

	release := make(chan struct{})
	batches := make(chan []AppAccountInfo, 8)
	sub := &Subscription{
		id:         "sub-1",
		subscriber: ownerApp,
		owners:     []string{ownerApp},
		signal:     make(chan struct{}, 1),
		done:       make(chan struct{}),
		listener: func(_ context.Context, batch []AppAccountInfo) {
			<-release
			batches <- batch
		},
	}
	if !hub.add(sub) {
		t.Fatalf("expected hub to accept subscription")
	}
	for _, name := range []string{"a", "b", "c", "d"} {
		hub.publish(ChangeEvent{Account: AppAccountInfo{Owner: ownerApp, Name: name}})
	}
	close(release)

	total := 0
	for total < 4 {
		select {
		case batch := <-batches:
			if len(batch) > 2 {
				t.Fatalf("expected batches of at most 2, got %d", len(batch))
			}
			total += len(batch)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d deliveries", total)
		}
	}
}

func TestServiceClose_RejectsNewSubscriptions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.manager(t, ownerApp)

	if err := env.svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := owner.On(ctx, []string{ownerApp}, newBatchRecorder().listener); err == nil {
		t.Fatalf("expected subscribe after close to fail")
	}
	if err := owner.AddAccount(ctx, "acct1"); err != nil {
		t.Fatalf("expected mutations to keep working after close: %v", err)
	}
}

func TestSubscription_CoalescesQueuedAccountsPastPendingLimit(t *testing.T) {
	sub := &Subscription{
		limit:  2,
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	first := AppAccountInfo{Owner: ownerApp, Name: "a"}
	second := AppAccountInfo{Owner: ownerApp, Name: "b"}

	sub.enqueue(ChangeEvent{Account: first})
	sub.enqueue(ChangeEvent{Account: first})
	for i := 0; i < 100; i++ {
		sub.enqueue(ChangeEvent{Account: first})
	}
	if len(sub.pending) != 2 {
		t.Fatalf("expected repeated changes to coalesce at the limit, got %d pending", len(sub.pending))
	}
	sub.enqueue(ChangeEvent{Account: second})
	sub.enqueue(ChangeEvent{Account: second})
	if len(sub.pending) != 3 {
		t.Fatalf("expected one extra entry for a new account, got %d pending", len(sub.pending))
	}

	batch := sub.take(0)
	if len(batch) != 3 || batch[2] != second {
		t.Fatalf("unexpected drained batch %#v", batch)
	}
}
