package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter defines the interface for pacing requests
type Limiter interface {
	// Wait blocks until the next request may start or ctx is done
	Wait(ctx context.Context) error
	// Reset forgets the previous request
	Reset()
}

// Pacer keeps at least interval between consecutive requests. It is safe
// for concurrent use: each caller reserves the next free slot.
type Pacer struct {
	interval time.Duration
	next     time.Time
	mu       sync.Mutex

	now func() time.Time
}

// NewPacer creates a pacer. A zero or negative interval never waits.
func NewPacer(interval time.Duration) *Pacer {
	if interval < 0 {
		interval = 0
	}
	return &Pacer{
		interval: interval,
		now:      time.Now,
	}
}

// Interval returns the configured spacing
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Wait blocks until the caller's slot comes up. A cancelled wait gives its
// slot back only if no later caller reserved one.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	now := p.now()
	slot := p.next
	if slot.Before(now) {
		slot = now
	}
	p.next = slot.Add(p.interval)
	reserved := p.next
	p.mu.Unlock()

	delay := slot.Sub(now)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		p.mu.Lock()
		if p.next.Equal(reserved) {
			p.next = slot
		}
		p.mu.Unlock()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Reset makes the next Wait return immediately
func (p *Pacer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.next = time.Time{}
}

var _ Limiter = (*Pacer)(nil)
