// Package workerpool runs tasks on a fixed number of goroutines.
//
// Submit never blocks: when every worker is busy and the backlog is full it
// returns ErrPoolFull and the caller decides whether to drop or retry.
//
//	pool := workerpool.New("events", 8)
//	defer pool.Shutdown()
//	if err := pool.Submit(task); errors.Is(err, workerpool.ErrPoolFull) { ... }
package workerpool

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/freshchoice/storefront/pkg/logger"
)

var (
	ErrPoolFull   = errors.New("workerpool: pool is full")
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

type Pool struct {
	name    string
	tasks   chan func()
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	once    sync.Once
	pending atomic.Int64
}

// New starts size workers with a backlog of twice that. size < 1 means 1.
func New(name string, size int) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{name: name, tasks: make(chan func(), size*2)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	p.pending.Add(1)
	select {
	case p.tasks <- task:
		return nil
	default:
		p.pending.Add(-1)
		return ErrPoolFull
	}
}

// Pending counts tasks queued or running.
func (p *Pool) Pending() int { return int(p.pending.Load()) }

// Shutdown stops intake and waits for queued tasks to finish. Safe to call
// more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		p.pending.Add(-1)
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "pool", p.name, "panic", fmt.Sprint(r))
		}
	}()
	task()
}
