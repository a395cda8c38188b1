// Package eventbus is a minimal in-process publish/subscribe dispatcher.
// Observability concerns (tracing, logging) subscribe to the events the HTTP
// layer publishes, keeping the request path free of direct telemetry calls.
package eventbus

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
)

// Handler processes events of type T.
type Handler[T any] func(context.Context, T)

// Bus fans events out to subscribers keyed by the event's dynamic type.
// The zero value is not usable; construct with New.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[reflect.Type]map[uint64]func(context.Context, any)
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{handlers: make(map[reflect.Type]map[uint64]func(context.Context, any))}
}

func (b *Bus) subscribe(t reflect.Type, fn func(context.Context, any)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	byID := b.handlers[t]
	if byID == nil {
		byID = make(map[uint64]func(context.Context, any))
		b.handlers[t] = byID
	}
	byID[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if byID := b.handlers[t]; byID != nil {
			delete(byID, id)
			if len(byID) == 0 {
				delete(b.handlers, t)
			}
		}
	}
}

func (b *Bus) emit(ctx context.Context, e any) {
	t := reflect.TypeOf(e)
	b.mu.RLock()
	byID := b.handlers[t]
	fns := make([]func(context.Context, any), 0, len(byID))
	for _, fn := range byID {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()
	for _, fn := range fns {
		fn(ctx, e)
	}
}

var global atomic.Pointer[Bus]

// Use installs b as the process-global bus. Passing nil disables publishing.
func Use(b *Bus) { global.Store(b) }

// Subscribe registers h for events of type T on the global bus. The returned
// function removes the subscription; it is a no-op when no bus is installed.
func Subscribe[T any](h Handler[T]) (unsubscribe func()) {
	b := global.Load()
	if b == nil {
		return func() {}
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	return b.subscribe(t, func(ctx context.Context, v any) { h(ctx, v.(T)) })
}

// Publish sends e to the global bus's subscribers for T, if a bus is set.
func Publish[T any](ctx context.Context, e T) {
	if b := global.Load(); b != nil {
		b.emit(ctx, e)
	}
}
