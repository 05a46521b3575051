package bridge

import (
	"sync"

	"github.com/kaara/it100-websocket/pkg/panel"
)

// Registry keeps the panel subscription of every open connection so it can be
// cancelled when the connection closes. It is safe for concurrent use.
type Registry struct {
	mu            sync.Mutex
	subscriptions map[string]panel.Subscription
}

func NewRegistry() *Registry {
	return &Registry{
		subscriptions: map[string]panel.Subscription{},
	}
}

// Put stores the subscription of a connection. If the connection already had
// one, it is returned so the caller can cancel it.
func (r *Registry) Put(connectionId string, subscription panel.Subscription) (panel.Subscription, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	previous, ok := r.subscriptions[connectionId]
	r.subscriptions[connectionId] = subscription
	return previous, ok
}

// Remove deletes and returns the subscription of a connection. ok is false if
// the connection has none.
func (r *Registry) Remove(connectionId string) (panel.Subscription, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	subscription, ok := r.subscriptions[connectionId]
	if ok {
		delete(r.subscriptions, connectionId)
	}
	return subscription, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscriptions)
}
