// Package schedule runs named housekeeping tasks on fixed intervals.
//
//	s := schedule.New()
//	s.Every(5*time.Minute).Name("sessions.purge").Run(purge)
//	go s.Start(ctx)
//
// A task never overlaps with itself: a tick that arrives while the previous
// run is still going is skipped.
package schedule

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/freshchoice/storefront/pkg/logger"
)

// Task receives the scheduler's context and reports failure by error.
type Task func(ctx context.Context) error

type entry struct {
	name     string
	interval time.Duration
	task     Task

	mu      sync.Mutex
	running bool
	lastRun time.Time
}

// Scheduler owns a set of entries. The zero value is not usable; call New.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	tick    time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

func New() *Scheduler {
	return &Scheduler{tick: time.Second, now: time.Now}
}

// Builder configures one entry before it is registered by Run.
type Builder struct {
	s *Scheduler
	e *entry
}

// Every starts an entry that fires each d. Non-positive intervals are
// rejected by Run.
func (s *Scheduler) Every(d time.Duration) *Builder {
	return &Builder{s: s, e: &entry{interval: d}}
}

func (b *Builder) Name(name string) *Builder {
	b.e.name = name
	return b
}

// Run registers fn. It may be called before or after Start.
func (b *Builder) Run(fn Task) error {
	if b.e.interval <= 0 {
		return fmt.Errorf("schedule: %q: interval must be positive", b.e.name)
	}
	b.e.task = fn

	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if b.e.name == "" {
		b.e.name = fmt.Sprintf("task-%d", len(b.s.entries)+1)
	}
	b.s.entries = append(b.s.entries, b.e)
	return nil
}

// Start dispatches due entries until ctx ends, then waits for in-flight
// runs. The first run of each entry happens one interval after Start.
func (s *Scheduler) Start(ctx context.Context) {
	started := s.now()
	s.mu.Lock()
	for _, e := range s.entries {
		e.mu.Lock()
		if e.lastRun.IsZero() {
			e.lastRun = started
		}
		e.mu.Unlock()
	}
	s.mu.Unlock()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	defer s.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := s.now()
			for _, e := range s.snapshot() {
				if e.due(now) {
					s.dispatch(ctx, e, now)
				}
			}
		}
	}
}

func (s *Scheduler) snapshot() []*entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entry(nil), s.entries...)
}

func (e *entry) due(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastRun.IsZero() {
		e.lastRun = now
		return false
	}
	return now.Sub(e.lastRun) >= e.interval
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry, now time.Time) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		logger.Warn("schedule: previous run still going, skipped", "task", e.name)
		return
	}
	e.running = true
	e.lastRun = now
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "task", e.name, "panic", fmt.Sprint(r))
			}
		}()

		if err := e.task(ctx); err != nil {
			logger.Warn("schedule: task failed", "task", e.name, "error", err)
		}
	}()
}

// List describes every entry as "name [interval]", sorted by name.
func (s *Scheduler) List() []string {
	entries := s.snapshot()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s  [%s]", e.name, e.interval))
	}
	sort.Strings(out)
	return out
}
