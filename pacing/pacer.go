// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package pacing spaces out consecutive calls to a rate-limited remote service.
//
// The interval is measured from the end of one call to the start of the next.
// Callers bracket each call with Wait and Done, or use Do.
package pacing

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the delay between generation calls.
const DefaultInterval = time.Second

// Pacer enforces a minimum gap between the completion of one call and the
// start of the next. The zero interval disables pacing. A Pacer is safe for
// concurrent use, though callers are expected to be sequential.
type Pacer struct {
	interval time.Duration

	mu       sync.Mutex
	lastDone time.Time
}

// New creates a pacer. Negative intervals are treated as zero.
func New(interval time.Duration) *Pacer {
	if interval < 0 {
		interval = 0
	}
	return &Pacer{interval: interval}
}

// Interval returns the configured gap.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Wait blocks until the interval has elapsed since the last Done.
// The first call never waits. Returns ctx.Err() if the context ends first.
func (p *Pacer) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	delay := p.remaining()
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Done marks the end of a paced call.
func (p *Pacer) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastDone = time.Now()
}

// Do waits, runs fn, then marks it done whether or not fn failed.
func (p *Pacer) Do(ctx context.Context, fn func() error) error {
	if err := p.Wait(ctx); err != nil {
		return err
	}
	defer p.Done()
	return fn()
}

func (p *Pacer) remaining() time.Duration {
	if p.interval == 0 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastDone.IsZero() {
		return 0
	}
	return p.interval - time.Since(p.lastDone)
}
