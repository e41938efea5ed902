// Package sse serves a broadcast feed as Server-Sent Events, for clients
// that cannot hold a WebSocket open.
//
//	feed := sse.NewFeed("order.placed")
//	r.Get("/events/orders", "sse.orders", feed.ServeHTTP)
//	feed.Publish(payload)
package sse

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/freshchoice/storefront/pkg/logger"
	"github.com/freshchoice/storefront/pkg/response"
)

const (
	subscriberBuffer = 16
	defaultHeartbeat = 25 * time.Second
)

// Feed fans messages out to every connected stream. Messages are written
// as data lines under a fixed event name.
type Feed struct {
	event     string
	heartbeat time.Duration

	mu   sync.Mutex
	subs map[chan []byte]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

func NewFeed(event string) *Feed {
	return &Feed{
		event:     event,
		heartbeat: defaultHeartbeat,
		subs:      make(map[chan []byte]struct{}),
		done:      make(chan struct{}),
	}
}

// Close ends every open stream and turns later requests away with a 503.
// Register it with http.Server.RegisterOnShutdown so streams do not hold
// a graceful shutdown open.
func (f *Feed) Close() {
	f.closeOnce.Do(func() { close(f.done) })
}

// Publish never blocks. A subscriber whose buffer is full misses msg and
// Publish reports false.
func (f *Feed) Publish(msg []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	delivered := true
	for ch := range f.subs {
		select {
		case ch <- msg:
		default:
			delivered = false
		}
	}
	return delivered
}

// ClientCount is the number of open streams.
func (f *Feed) ClientCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *Feed) subscribe() chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()
	return ch
}

func (f *Feed) unsubscribe(ch chan []byte) {
	f.mu.Lock()
	delete(f.subs, ch)
	f.mu.Unlock()
}

// ServeHTTP streams until the client goes away.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case <-f.done:
		response.Error(w, http.StatusServiceUnavailable, "Order feed unavailable.")
		return
	default:
	}

	rc := http.NewResponseController(w)
	// Streams outlive the server's write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		logger.WithCtx(r.Context()).Warn("sse: streaming unsupported", "error", err)
		return
	}

	ch := f.subscribe()
	defer f.unsubscribe(ch)

	ticker := time.NewTicker(f.heartbeat)
	defer ticker.Stop()

	for {
		var err error
		select {
		case <-r.Context().Done():
			return
		case <-f.done:
			return
		case msg := <-ch:
			_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", f.event, msg)
		case <-ticker.C:
			_, err = fmt.Fprint(w, ": ping\n\n")
		}
		if err == nil {
			err = rc.Flush()
		}
		if err != nil {
			return
		}
	}
}
