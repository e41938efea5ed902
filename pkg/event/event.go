// Package event is an in-process publish/subscribe dispatcher.
//
//	bus := event.New(event.WithPool(workerpool.New("events", 8)))
//	bus.Listen(event.OrderPlaced, func(ctx context.Context, payload any) { ... })
//	bus.Fire(ctx, event.OrderPlaced, order)
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/freshchoice/storefront/pkg/logger"
	"github.com/freshchoice/storefront/pkg/workerpool"
)

// OrderPlaced fires after a checkout transaction commits.
const OrderPlaced = "order.placed"

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any)

type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       sync.WaitGroup
	pool     *workerpool.Pool
}

type Option func(*Bus)

// WithPool runs FireAsync listeners on p. A listener that finds p full is
// skipped and logged.
func WithPool(p *workerpool.Pool) Option {
	return func(b *Bus) { b.pool = p }
}

func New(opts ...Option) *Bus {
	b := &Bus{handlers: map[string][]Handler{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Listen registers a handler for name.
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

func (b *Bus) listeners(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Handler(nil), b.handlers[name]...)
}

// Fire runs every listener in registration order on the caller's goroutine.
// A panicking listener is logged and does not stop the others.
func (b *Bus) Fire(ctx context.Context, name string, payload any) {
	for _, h := range b.listeners(name) {
		b.call(ctx, name, h, payload)
	}
}

// FireAsync runs listeners in the background and returns immediately.
// The context passed to listeners is detached from ctx's cancellation.
func (b *Bus) FireAsync(ctx context.Context, name string, payload any) {
	detached := context.WithoutCancel(ctx)
	for _, h := range b.listeners(name) {
		b.wg.Add(1)
		task := func() {
			defer b.wg.Done()
			b.call(detached, name, h, payload)
		}

		if b.pool == nil {
			go task()
			continue
		}
		if err := b.pool.Submit(task); err != nil {
			b.wg.Done()
			logger.WithCtx(ctx).Warn("event: listener skipped", "event", name, "error", err)
		}
	}
}

// Wait blocks until every FireAsync listener has returned.
func (b *Bus) Wait() { b.wg.Wait() }

// Flush removes all listeners.
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}

func (b *Bus) call(ctx context.Context, name string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event: listener panicked", "event", name, "panic", fmt.Sprint(r))
		}
	}()
	h(ctx, payload)
}
