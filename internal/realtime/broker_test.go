package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, ch <-chan struct{}, msg string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal(msg)
	}
}

func TestNotifyDeliversToSubscriber(t *testing.T) {
	broker := NewBroker()
	scope := Scope{Kind: ScopeEvent, ID: 1}

	fired := make(chan struct{}, 1)
	sub := broker.Subscribe(scope, func(ctx context.Context) {
		fired <- struct{}{}
	})
	defer sub.Stop()

	broker.Notify(scope)
	waitFor(t, fired, "refresh was never called")
}

func TestNotifyUnsubscribedScopeIsNoop(t *testing.T) {
	broker := NewBroker()

	// Must not panic or block.
	broker.Notify(Scope{Kind: ScopeRound, ID: 42})
}

func TestSubscribeReplacesPrevious(t *testing.T) {
	broker := NewBroker()
	scope := Scope{Kind: ScopeEvent, ID: 1}

	oldFired := make(chan struct{}, 1)
	old := broker.Subscribe(scope, func(ctx context.Context) {
		oldFired <- struct{}{}
	})

	newFired := make(chan struct{}, 1)
	replacement := broker.Subscribe(scope, func(ctx context.Context) {
		newFired <- struct{}{}
	})
	defer replacement.Stop()

	require.Error(t, old.ctx.Err(), "replaced subscription should be cancelled")

	broker.Notify(scope)
	waitFor(t, newFired, "replacement refresh was never called")

	select {
	case <-oldFired:
		t.Fatal("replaced subscription must not fire")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStopIsIdempotent(t *testing.T) {
	broker := NewBroker()
	scope := Scope{Kind: ScopeQuestion, ID: 7}

	sub := broker.Subscribe(scope, func(ctx context.Context) {})
	sub.Stop()
	sub.Stop()

	broker.mu.Lock()
	_, ok := broker.subs[scope]
	broker.mu.Unlock()
	assert.False(t, ok)
}

func TestStopStaleHandleKeepsCurrentSubscription(t *testing.T) {
	broker := NewBroker()
	scope := Scope{Kind: ScopeEvent, ID: 1}

	stale := broker.Subscribe(scope, func(ctx context.Context) {})

	fired := make(chan struct{}, 1)
	current := broker.Subscribe(scope, func(ctx context.Context) {
		fired <- struct{}{}
	})
	defer current.Stop()

	// Stopping the replaced handle must not tear down its successor.
	stale.Stop()

	broker.Notify(scope)
	waitFor(t, fired, "current subscription was removed by a stale Stop")
}

func TestResubscribeFiresImmediateRefresh(t *testing.T) {
	broker := NewBroker()
	scope := Scope{Kind: ScopeEvent, ID: 3}

	fired := make(chan struct{}, 1)
	sub := broker.Resubscribe(scope, func(ctx context.Context) {
		fired <- struct{}{}
	})
	defer sub.Stop()

	waitFor(t, fired, "resubscribe should refresh without waiting for a notification")
}

func TestRefreshContextCancelledOnStop(t *testing.T) {
	broker := NewBroker()
	scope := Scope{Kind: ScopeEvent, ID: 5}

	got := make(chan context.Context, 1)
	sub := broker.Subscribe(scope, func(ctx context.Context) {
		got <- ctx
	})

	broker.Notify(scope)

	var refreshCtx context.Context
	select {
	case refreshCtx = <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh was never called")
	}

	require.NoError(t, refreshCtx.Err())
	sub.Stop()
	assert.Error(t, refreshCtx.Err(), "stop should cancel the refresh context")
}
