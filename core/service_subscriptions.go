package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Subscribe registers req.Listener for changes to accounts owned by
// req.Owners. Every foreign owner must be installed and must have granted the
// subscriber access to at least one account; otherwise nothing is registered.
func (s *Service) Subscribe(ctx context.Context, req SubscribeRequest) (sub *Subscription, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"subscriber": req.Subscriber, "owners": len(req.Owners)}
	defer func() {
		if sub != nil {
			fields["subscription_id"] = sub.id
		}
		s.observeOperation(ctx, startedAt, "subscribe", err, fields)
	}()

	if err = s.ready(); err != nil {
		err = s.mapError(err)
		return nil, err
	}
	if err = validateAppID("subscriber", req.Subscriber); err != nil {
		return nil, err
	}
	if req.Listener == nil {
		err = invalidArgumentError("core: change listener is required")
		return nil, err
	}
	if len(req.Owners) == 0 {
		err = invalidArgumentError("core: at least one owner is required")
		return nil, err
	}
	for _, owner := range req.Owners {
		if err = validateAppID("owner", owner); err != nil {
			return nil, err
		}
	}
	owners := normalizeAppIDs(req.Owners)
	for _, owner := range owners {
		if owner == req.Subscriber {
			continue
		}
		if err = s.requireRegisteredApp(ctx, owner); err != nil {
			err = s.mapError(err)
			return nil, err
		}
		if err = s.requireGrantFrom(ctx, owner, req.Subscriber); err != nil {
			err = s.mapError(err)
			return nil, err
		}
	}

	sub = &Subscription{
		id:         uuid.NewString(),
		subscriber: req.Subscriber,
		owners:     owners,
		listener:   req.Listener,
		createdAt:  s.nowFn(),
		signal:     make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	if !s.hub.add(sub) {
		sub = nil
		err = s.mapError(fmt.Errorf("core: change hub is closed"))
		return nil, err
	}
	return sub, nil
}

// Unsubscribe stops delivery for id. Unknown or already removed ids succeed.
func (s *Service) Unsubscribe(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"subscription_id": id}
	defer func() {
		s.observeOperation(ctx, startedAt, "unsubscribe", err, fields)
	}()

	if s == nil || s.hub == nil {
		return nil
	}
	fields["removed"] = s.hub.remove(id)
	return nil
}

// UnsubscribeAll removes every subscription held by subscriber and reports
// how many were active.
func (s *Service) UnsubscribeAll(ctx context.Context, subscriber string) (removed int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"subscriber": subscriber}
	defer func() {
		fields["removed"] = removed
		s.observeOperation(ctx, startedAt, "unsubscribe_all", err, fields)
	}()

	if err = validateAppID("subscriber", subscriber); err != nil {
		return 0, err
	}
	if s == nil || s.hub == nil {
		return 0, nil
	}
	return s.hub.removeSubscriber(subscriber), nil
}

func (s *Service) requireGrantFrom(ctx context.Context, owner string, grantee string) error {
	granted, err := s.accountStore.ListGrantedTo(ctx, grantee)
	if err != nil {
		return err
	}
	for _, account := range granted {
		if account.Owner == owner {
			return nil
		}
	}
	return permissionDeniedError(fmt.Sprintf("core: %q has not granted %q access to any account", owner, grantee))
}
