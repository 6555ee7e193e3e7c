package workers

import (
	"context"
	"log/slog"
	"time"

	"war-room/contract"
	"war-room/domain"
)

// Reaper defaults, overridable through configuration.
const (
	DefaultProbeInterval = 60 * time.Second
	DefaultIdleMax       = 10 * time.Minute
)

// Reaper reclaims rooms that stayed idle too long. Each probe walks the
// registry, compares every room's last activity against the idle limit
// and asks expired rooms to close themselves.
type Reaper struct {
	registry contract.IRegistry
	interval time.Duration
	idleMax  time.Duration
	log      *slog.Logger
	now      func() time.Time
}

func NewReaper(registry contract.IRegistry, interval, idleMax time.Duration, log *slog.Logger) *Reaper {
	return &Reaper{
		registry: registry,
		interval: interval,
		idleMax:  idleMax,
		log:      log,
		now:      time.Now,
	}
}

func (r *Reaper) Run(ctx context.Context) error {
	r.log.Info("Starting room reaper", "interval", r.interval, "idle_max", r.idleMax)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.sweep()
		}
	}
}

// sweep probes every live room once. The registry copy is
// point-in-time: a room that closes mid-sweep just fails its Deliver,
// which is fine since Close is idempotent.
func (r *Reaper) sweep() {
	for _, h := range r.registry.Handles() {
		idle := r.now().Sub(h.LastActivity())
		if idle < r.idleMax {
			r.log.Debug("room still alive",
				"room", h.ID(),
				"remaining", (r.idleMax - idle).Round(time.Second))
			continue
		}

		r.log.Info("idle room expired, closing", "room", h.ID(), "idle", idle.Round(time.Second))
		if err := h.Deliver(domain.Close{}); err != nil {
			r.log.Debug("room already closed", "room", h.ID(), "error", err)
		}
		r.registry.Remove(h.ID())
	}
}
