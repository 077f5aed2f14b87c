package notification

import (
	"sync"
	"time"
)

type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
)

// Toast is one transient notification.
type Toast struct {
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Broadcaster is the slice of the Hub the presenter needs.
type Broadcaster interface {
	Broadcast(message interface{}) int
}

// Presenter holds at most one active notification. A new Show replaces the
// prior one immediately; there is no queue. The active notification
// auto-dismisses after the configured TTL unless dismissed manually first.
type Presenter struct {
	mutex   sync.Mutex
	ttl     time.Duration
	current *Toast
	timer   *time.Timer
	hub     Broadcaster
}

func NewPresenter(ttl time.Duration, hub Broadcaster) *Presenter {
	return &Presenter{
		ttl: ttl,
		hub: hub,
	}
}

func (p *Presenter) Show(kind Type, title, message string) Toast {
	now := time.Now()
	toast := Toast{
		Type:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(p.ttl),
	}

	p.mutex.Lock()
	if p.timer != nil {
		p.timer.Stop()
	}
	p.current = &toast
	shown := p.current
	p.timer = time.AfterFunc(p.ttl, func() {
		p.dismissIfCurrent(shown)
	})
	p.mutex.Unlock()

	p.broadcast(map[string]interface{}{
		"type":    "notification",
		"payload": toast,
	})
	return toast
}

// Success satisfies the workflow's notifier contract.
func (p *Presenter) Success(title, message string) {
	p.Show(TypeSuccess, title, message)
}

// Error satisfies the workflow's notifier contract.
func (p *Presenter) Error(title, message string) {
	p.Show(TypeError, title, message)
}

// Current returns the active toast, or nil when none is showing.
func (p *Presenter) Current() *Toast {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.current == nil {
		return nil
	}
	copied := *p.current
	return &copied
}

// Dismiss clears the active toast before its TTL elapses.
func (p *Presenter) Dismiss() {
	p.mutex.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	had := p.current != nil
	p.current = nil
	p.mutex.Unlock()

	if had {
		p.broadcast(map[string]interface{}{"type": "notification_dismissed"})
	}
}

// dismissIfCurrent only clears the toast the expired timer was armed for; a
// replacement shown in the meantime stays up for its own TTL.
func (p *Presenter) dismissIfCurrent(toast *Toast) {
	p.mutex.Lock()
	if p.current != toast {
		p.mutex.Unlock()
		return
	}
	p.current = nil
	p.timer = nil
	p.mutex.Unlock()

	p.broadcast(map[string]interface{}{"type": "notification_dismissed"})
}

func (p *Presenter) broadcast(message interface{}) {
	if p.hub != nil {
		p.hub.Broadcast(message)
	}
}
