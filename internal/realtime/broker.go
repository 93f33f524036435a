package realtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ScopeKind string

const (
	ScopeEvent    ScopeKind = "event"
	ScopeRound    ScopeKind = "round"
	ScopeQuestion ScopeKind = "question"
)

// Scope identifies one logical subscription target: a single event,
// round or question.
type Scope struct {
	Kind ScopeKind
	ID   uint
}

func (s Scope) String() string {
	return fmt.Sprintf("%s/%d", s.Kind, s.ID)
}

// RefreshFunc re-fetches authoritative state for its scope. It receives
// a context that is cancelled when the subscription is stopped or
// replaced, so a refresh that outlives its scope can be abandoned
// instead of clobbering newer state.
type RefreshFunc func(ctx context.Context)

// Subscription is the handle returned by Subscribe. The owner that
// subscribed is responsible for calling Stop.
type Subscription struct {
	ID    string
	Scope Scope

	broker  *Broker
	refresh RefreshFunc
	ctx     context.Context
	cancel  context.CancelFunc
}

// Stop releases the subscription. Stopping twice, or stopping a handle
// that was already replaced, is harmless.
func (s *Subscription) Stop() {
	s.cancel()

	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()
	if current, ok := s.broker.subs[s.Scope]; ok && current.ID == s.ID {
		delete(s.broker.subs, s.Scope)
	}
}

// Broker routes change notifications to per-scope refresh callbacks.
// At most one subscription is live per scope: subscribing to an
// occupied scope replaces the previous handle, so overlapping
// subscriptions can never double-fire a callback. Delivery is
// at-least-once and carries no ordering guarantee relative to the write
// that caused it; callbacks always re-fetch rather than apply deltas.
type Broker struct {
	mu   sync.Mutex
	subs map[Scope]*Subscription
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[Scope]*Subscription),
	}
}

func (b *Broker) Subscribe(scope Scope, refresh RefreshFunc) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &Subscription{
		ID:      uuid.NewString(),
		Scope:   scope,
		broker:  b,
		refresh: refresh,
		ctx:     ctx,
		cancel:  cancel,
	}

	b.mu.Lock()
	previous := b.subs[scope]
	b.subs[scope] = sub
	b.mu.Unlock()

	if previous != nil {
		previous.cancel()
		zap.L().Debug("replaced live subscription", zap.String("scope", scope.String()))
	}

	return sub
}

// Resubscribe is the reconnect path: it registers the callback and
// fires one immediate refresh so the subscriber cannot serve state from
// before the disconnect.
func (b *Broker) Resubscribe(scope Scope, refresh RefreshFunc) *Subscription {
	sub := b.Subscribe(scope, refresh)
	go sub.refresh(sub.ctx)

	return sub
}

// Notify delivers a change notification for the scope, if anyone is
// subscribed. The callback runs on its own goroutine with the
// subscription's context.
func (b *Broker) Notify(scope Scope) {
	b.mu.Lock()
	sub := b.subs[scope]
	b.mu.Unlock()

	if sub == nil {
		return
	}

	go func() {
		if sub.ctx.Err() != nil {
			return
		}
		sub.refresh(sub.ctx)
	}()
}
