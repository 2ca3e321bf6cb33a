// file: gateway/heartbeat.go
package gateway

import (
	"context"
	"sync"
	"time"

	"go-event-admin/apperr"
	"go-event-admin/logger"
)

// Heartbeat periodically probes the API base address. Any response,
// whatever its status, counts as reachable.
type Heartbeat struct {
	client   *Client
	interval time.Duration

	mu       sync.Mutex
	up       bool
	lastSeen time.Time
	checked  bool
}

func NewHeartbeat(c *Client, interval time.Duration) *Heartbeat {
	return &Heartbeat{client: c, interval: interval}
}

// Check probes once and records the result.
func (h *Heartbeat) Check(ctx context.Context) bool {
	err := h.client.With(nil).Get(ctx, "", nil, nil)
	_, down := apperr.AsTransport(err)
	up := !down

	h.mu.Lock()
	changed := !h.checked || h.up != up
	h.up, h.checked = up, true
	if up {
		h.lastSeen = time.Now()
	}
	h.mu.Unlock()

	if changed {
		if up {
			logger.Info.Println("[Heartbeat] API reachable")
		} else {
			logger.Warn.Printf("[Heartbeat] API unreachable: %v", err)
		}
	}
	return up
}

// Run checks immediately and then every interval until ctx ends.
func (h *Heartbeat) Run(ctx context.Context) {
	h.Check(ctx)
	if h.interval <= 0 {
		logger.Warn.Printf("[Heartbeat] interval %s is not positive, probing once", h.interval)
		return
	}
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Status reports the last result; checked is false before the first probe.
func (h *Heartbeat) Status() (up, checked bool, lastSeen time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.up, h.checked, h.lastSeen
}
