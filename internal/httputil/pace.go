// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out consecutive operations against the same remote service.
// The pause is measured from the end of the previous operation: callers
// Wait before starting one and call Done when it finishes. The first Wait
// returns immediately. A Pacer is meant for one sequential caller.
type Pacer struct {
	limit   rate.Limit
	limiter *rate.Limiter
}

// NewPacer returns a Pacer for interval. A non-positive interval disables
// pacing.
func NewPacer(interval time.Duration) *Pacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Pacer{limit: limit, limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next operation may start or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Done records that an operation just finished. The next Wait returns
// one full interval from now.
func (p *Pacer) Done() {
	p.limiter = rate.NewLimiter(p.limit, 1)
	p.limiter.Allow()
}
