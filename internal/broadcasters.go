package internal

import (
	"sync"

	"golang.org/x/exp/slices"
)

// This file defines the publish-subscribe model used for store notifications.
//
// AddListener returns a new receive-only channel; RemoveListener unsubscribes that channel and closes
// the sending end of it; Broadcast sends a value to all of the subscribed channels (if any); and Close
// unsubscribes and closes all existing channels.

// Arbitrary buffer size to make it less likely that a slow subscriber misses values. It is still the
// consumer's responsibility to make sure they're reading the channel.
const subscriberChannelBufferLength = 10

// Broadcaster is our generalized implementation of broadcasters.
type Broadcaster[V any] struct {
	subscribers []channelPair[V]
	lock        sync.Mutex
}

// We need to keep both the sending and the receiving view of each channel: RemoveListener is given the
// receive-only channel, which does not compare equal to a chan V.
type channelPair[V any] struct {
	sendCh    chan<- V
	receiveCh <-chan V
}

// NewBroadcaster creates a Broadcaster that operates on the specified value type.
func NewBroadcaster[V any]() *Broadcaster[V] {
	return &Broadcaster[V]{}
}

// AddListener adds a subscriber and returns a channel for it to receive values.
func (b *Broadcaster[V]) AddListener() <-chan V {
	ch := make(chan V, subscriberChannelBufferLength)
	var receiveCh <-chan V = ch
	b.lock.Lock()
	defer b.lock.Unlock()
	b.subscribers = append(b.subscribers, channelPair[V]{sendCh: ch, receiveCh: receiveCh})
	return receiveCh
}

// RemoveListener removes a subscriber. The parameter is the same channel that was returned by
// AddListener. Removing a channel that is not subscribed does nothing.
func (b *Broadcaster[V]) RemoveListener(ch <-chan V) {
	b.lock.Lock()
	defer b.lock.Unlock()
	ss := b.subscribers
	for i, s := range ss {
		if s.receiveCh == ch {
			copy(ss[i:], ss[i+1:])
			ss[len(ss)-1] = channelPair[V]{}
			b.subscribers = ss[:len(ss)-1]
			close(s.sendCh)
			break
		}
	}
}

// HasListeners returns true if there are any current subscribers.
func (b *Broadcaster[V]) HasListeners() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.subscribers) > 0
}

// Broadcast sends a value to all current subscribers. A subscriber whose buffer is full does not
// receive the value; Broadcast never blocks.
//
// The subscriber lock is held while sending so that a concurrent RemoveListener cannot close a channel
// that is being sent to.
func (b *Broadcaster[V]) Broadcast(value V) {
	b.lock.Lock()
	defer b.lock.Unlock()
	for _, s := range b.subscribers {
		select {
		case s.sendCh <- value:
		default:
		}
	}
}

// Close closes all current subscriber channels.
func (b *Broadcaster[V]) Close() {
	b.lock.Lock()
	ss := slices.Clone(b.subscribers)
	b.subscribers = nil
	b.lock.Unlock()
	for _, s := range ss {
		close(s.sendCh)
	}
}
