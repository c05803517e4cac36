package transport

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogoutEvent tells subscribers the session ended because the server
// rejected its credentials.
type LogoutEvent struct {
	Timestamp time.Time
	Method    string
	Path      string
	RequestID string
}

// LogoutBroadcaster fans logout events out to subscribers.
type LogoutBroadcaster struct {
	subscribers map[chan LogoutEvent]struct{}
	mu          sync.RWMutex
	log         zerolog.Logger
}

// NewLogoutBroadcaster creates a broadcaster with no subscribers.
func NewLogoutBroadcaster(log zerolog.Logger) *LogoutBroadcaster {
	return &LogoutBroadcaster{
		subscribers: make(map[chan LogoutEvent]struct{}),
		log:         log.With().Str("component", "logout_broadcaster").Logger(),
	}
}

// Subscribe returns a channel receiving every subsequent logout event.
func (b *LogoutBroadcaster) Subscribe() chan LogoutEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan LogoutEvent, 4)
	b.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes ch.
func (b *LogoutBroadcaster) Unsubscribe(ch chan LogoutEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[ch]; !ok {
		return
	}
	delete(b.subscribers, ch)
	close(ch)
}

// Publish delivers ev to every subscriber without blocking. A subscriber
// whose buffer is full misses the event.
func (b *LogoutBroadcaster) Publish(ev LogoutEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	for ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			b.log.Warn().Msg("Logout subscriber channel full, event dropped")
		}
	}
}
