package sse

import (
	"sync"
	"sync/atomic"
)

const defaultBuffer = 16

// Hub fans events out to the live subscribers of a key (a recipient id).
// Publishing never blocks: a subscriber whose buffer is full misses the event.
type Hub[T any] struct {
	mu      sync.RWMutex
	subs    map[string]map[chan T]struct{}
	buffer  int
	dropped atomic.Int64
}

func NewHub[T any](buffer int) *Hub[T] {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub[T]{
		subs:   make(map[string]map[chan T]struct{}),
		buffer: buffer,
	}
}

// Subscribe returns the event channel for key and a cleanup func that closes it.
// Cleanup is safe to call more than once.
func (h *Hub[T]) Subscribe(key string) (<-chan T, func()) {
	ch := make(chan T, h.buffer)

	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[chan T]struct{})
	}
	h.subs[key][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[key], ch)
			close(ch)
			if len(h.subs[key]) == 0 {
				delete(h.subs, key)
			}
		})
	}
}

// Publish delivers ev to every subscriber of key and returns how many received it.
func (h *Hub[T]) Publish(key string, ev T) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for ch := range h.subs[key] {
		select {
		case ch <- ev:
			sent++
		default:
			h.dropped.Add(1)
		}
	}
	return sent
}

func (h *Hub[T]) SubscriberCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[key])
}

// Dropped is the number of events lost to full subscriber buffers.
func (h *Hub[T]) Dropped() int64 {
	return h.dropped.Load()
}
