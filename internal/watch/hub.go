// Package watch implements in-process snapshot subscriptions. A
// publisher pushes full-state snapshots, never deltas; a subscriber
// owns the returned cancel func and must call it on teardown.
package watch

import "sync"

// Hub fans a snapshot out to every subscriber. Callbacks run on the
// publisher's goroutine and must not block.
type Hub[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]func(T)
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[int]func(T))}
}

func (h *Hub[T]) Subscribe(fn func(T)) (cancel func()) {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

func (h *Hub[T]) Publish(snapshot T) {
	h.mu.Lock()
	fns := make([]func(T), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn(snapshot)
	}
}

func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// KeyedHub partitions subscriptions by key, one snapshot stream per
// key. Used for per-owner event feeds.
type KeyedHub[K comparable, T any] struct {
	mu   sync.Mutex
	hubs map[K]*Hub[T]
}

func NewKeyedHub[K comparable, T any]() *KeyedHub[K, T] {
	return &KeyedHub[K, T]{hubs: make(map[K]*Hub[T])}
}

func (kh *KeyedHub[K, T]) Subscribe(key K, fn func(T)) (cancel func()) {
	kh.mu.Lock()
	h, ok := kh.hubs[key]
	if !ok {
		h = NewHub[T]()
		kh.hubs[key] = h
	}
	kh.mu.Unlock()
	inner := h.Subscribe(fn)
	return func() {
		inner()
		kh.mu.Lock()
		// Drop the per-key hub once its last subscriber is gone, but
		// only if it is still the one we subscribed to.
		if cur, ok := kh.hubs[key]; ok && cur == h && cur.Len() == 0 {
			delete(kh.hubs, key)
		}
		kh.mu.Unlock()
	}
}

func (kh *KeyedHub[K, T]) Len() int {
	kh.mu.Lock()
	defer kh.mu.Unlock()
	return len(kh.hubs)
}

func (kh *KeyedHub[K, T]) Publish(key K, snapshot T) {
	kh.mu.Lock()
	h, ok := kh.hubs[key]
	kh.mu.Unlock()
	if ok {
		h.Publish(snapshot)
	}
}
