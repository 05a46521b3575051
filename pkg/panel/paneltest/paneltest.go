// Package paneltest provides an in-memory panel for tests.
package paneltest

import (
	"sync"

	"github.com/kaara/it100-websocket/pkg/it100"
	"github.com/kaara/it100-websocket/pkg/panel"
)

// Panel records the commands it is sent and lets tests emit events to the
// live subscriptions.
type Panel struct {
	mu        sync.Mutex
	commands  []it100.Command
	sendErr   error
	nextID    int
	callbacks map[int]panel.EventCallback
	cancelled int

	// OnSend, when set, is called with every command before it is recorded.
	OnSend func(command it100.Command)
}

var _ panel.Panel = (*Panel)(nil)

func New() *Panel {
	return &Panel{callbacks: map[int]panel.EventCallback{}}
}

func (p *Panel) Send(command it100.Command) error {
	if p.OnSend != nil {
		p.OnSend(command)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commands = append(p.commands, command)
	return p.sendErr
}

func (p *Panel) Subscribe(callback panel.EventCallback) panel.Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.callbacks[id] = callback
	return &subscription{panel: p, id: id}
}

// Emit delivers the event synchronously to every live subscription.
func (p *Panel) Emit(event it100.Event) {
	p.mu.Lock()
	callbacks := make([]panel.EventCallback, 0, len(p.callbacks))
	for _, callback := range p.callbacks {
		callbacks = append(callbacks, callback)
	}
	p.mu.Unlock()

	for _, callback := range callbacks {
		callback(event)
	}
}

// SetSendError makes every following Send return err. The command is still
// recorded.
func (p *Panel) SetSendError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sendErr = err
}

func (p *Panel) Commands() []it100.Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]it100.Command(nil), p.commands...)
}

// Active returns the number of live subscriptions.
func (p *Panel) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.callbacks)
}

// Cancelled returns how many subscriptions were actually cancelled.
func (p *Panel) Cancelled() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelled
}

type subscription struct {
	once  sync.Once
	panel *Panel
	id    int
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.panel.mu.Lock()
		defer s.panel.mu.Unlock()
		delete(s.panel.callbacks, s.id)
		s.panel.cancelled++
	})
}
