package core

import (
	"context"
	"sync"
	"time"
)

// defaultPendingLimit is how many queued changes a subscription keeps before
// further changes to an already queued account are coalesced.
const defaultPendingLimit = 256

// ChangeEvent describes one accepted mutation.
type ChangeEvent struct {
	Operation  string
	Account    AppAccountInfo
	OccurredAt time.Time
}

// Subscription is the handle returned by Subscribe. Each subscription owns a
// pending queue and one delivery goroutine.
type Subscription struct {
	id         string
	subscriber string
	owners     []string
	listener   ChangeListener
	createdAt  time.Time

	mu      sync.Mutex
	pending []ChangeEvent
	limit   int
	signal  chan struct{}
	done    chan struct{}
	once    sync.Once
}

func (s *Subscription) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

func (s *Subscription) Subscriber() string {
	if s == nil {
		return ""
	}
	return s.subscriber
}

func (s *Subscription) Owners() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.owners...)
}

// Done is closed once the subscription stops delivering.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// enqueue appends event to the pending queue. Past the pending limit an event
// for an account that is already queued is folded into the queued entry, so
// the queue never holds more than limit entries plus one per distinct account.
func (s *Subscription) enqueue(event ChangeEvent) {
	s.mu.Lock()
	if len(s.pending) < s.pendingLimit() || !s.queued(event.Account) {
		s.pending = append(s.pending, event)
	}
	s.mu.Unlock()
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *Subscription) pendingLimit() int {
	if s.limit > 0 {
		return s.limit
	}
	return defaultPendingLimit
}

// queued requires s.mu held.
func (s *Subscription) queued(info AppAccountInfo) bool {
	for _, event := range s.pending {
		if event.Account == info {
			return true
		}
	}
	return false
}

func (s *Subscription) take(limit int) []AppAccountInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}
	n := len(s.pending)
	if limit > 0 && n > limit {
		n = limit
	}
	batch := make([]AppAccountInfo, 0, n)
	for _, event := range s.pending[:n] {
		batch = append(batch, event.Account)
	}
	s.pending = s.pending[n:]
	return batch
}

func (s *Subscription) stop() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *Subscription) stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// changeHub fans accepted mutations out to subscriptions keyed by owner app.
// publish only appends to per-subscription queues, so a mutating caller never
// waits on a listener.
type changeHub struct {
	mu        sync.RWMutex
	subs      map[string]*Subscription
	byOwner   map[string]map[string]*Subscription
	batchSize int
	logger    Logger
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closed    bool
}

func newChangeHub(batchSize int, logger Logger) *changeHub {
	ctx, cancel := context.WithCancel(context.Background())
	return &changeHub{
		subs:      map[string]*Subscription{},
		byOwner:   map[string]map[string]*Subscription{},
		batchSize: batchSize,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (h *changeHub) add(sub *Subscription) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subs[sub.id] = sub
	for _, owner := range sub.owners {
		bucket, ok := h.byOwner[owner]
		if !ok {
			bucket = map[string]*Subscription{}
			h.byOwner[owner] = bucket
		}
		bucket[sub.id] = sub
	}
	h.wg.Add(1)
	go h.run(sub)
	return true
}

func (h *changeHub) remove(id string) bool {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if ok {
		h.detach(sub)
	}
	h.mu.Unlock()
	if ok {
		sub.stop()
	}
	return ok
}

func (h *changeHub) removeSubscriber(subscriber string) int {
	h.mu.Lock()
	removed := make([]*Subscription, 0)
	for _, sub := range h.subs {
		if sub.subscriber == subscriber {
			h.detach(sub)
			removed = append(removed, sub)
		}
	}
	h.mu.Unlock()
	for _, sub := range removed {
		sub.stop()
	}
	return len(removed)
}

// detach requires h.mu held.
func (h *changeHub) detach(sub *Subscription) {
	delete(h.subs, sub.id)
	for _, owner := range sub.owners {
		bucket := h.byOwner[owner]
		delete(bucket, sub.id)
		if len(bucket) == 0 {
			delete(h.byOwner, owner)
		}
	}
}

func (h *changeHub) publish(event ChangeEvent) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for _, sub := range h.byOwner[event.Account.Owner] {
		sub.enqueue(event)
		delivered++
	}
	return delivered
}

func (h *changeHub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *changeHub) run(sub *Subscription) {
	defer h.wg.Done()
	for {
		select {
		case <-sub.done:
			return
		case <-h.ctx.Done():
			return
		case <-sub.signal:
		}
		for !sub.stopped() {
			batch := sub.take(h.batchSize)
			if len(batch) == 0 {
				break
			}
			h.deliver(sub, batch)
		}
	}
}

func (h *changeHub) deliver(sub *Subscription, batch []AppAccountInfo) {
	defer func() {
		if recovered := recover(); recovered != nil && h.logger != nil {
			h.logger.Error("change listener panicked",
				"subscription_id", sub.id,
				"subscriber", sub.subscriber,
				"panic", recovered,
			)
		}
	}()
	sub.listener(h.ctx, batch)
}

func (h *changeHub) close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := make([]*Subscription, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	h.subs = map[string]*Subscription{}
	h.byOwner = map[string]map[string]*Subscription{}
	h.mu.Unlock()

	h.cancel()
	for _, sub := range subs {
		sub.stop()
	}
	h.wg.Wait()
}
