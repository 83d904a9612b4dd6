package align

import (
	"context"
	"sync"
)

// completion hands the collector's outcome to a blocked caller. It starts
// Pending and moves to Found or NotFound exactly once.
type completion struct {
	mu      sync.Mutex
	cond    *sync.Cond
	outcome Outcome
}

func newCompletion() *completion {
	c := &completion{outcome: Outcome{Status: StatusPending}}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// publish stores the outcome and wakes waiters. Only the first call has an
// effect; a Pending outcome is ignored.
func (c *completion) publish(outcome Outcome) bool {
	if outcome.Status == StatusPending {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome.Status != StatusPending {
		return false
	}
	c.outcome = outcome
	c.cond.Broadcast()
	return true
}

// Status reports the current state without blocking.
func (c *completion) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome.Status
}

// Wait blocks until an outcome is published or ctx ends.
func (c *completion) Wait(ctx context.Context) (Outcome, error) {
	stop := make(chan struct{})
	defer close(stop)
	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				c.mu.Lock()
				c.cond.Broadcast()
				c.mu.Unlock()
			case <-stop:
			}
		}()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for c.outcome.Status == StatusPending {
		if err := ctx.Err(); err != nil {
			return Outcome{Status: StatusPending}, err
		}
		c.cond.Wait()
	}
	return c.outcome, nil
}
