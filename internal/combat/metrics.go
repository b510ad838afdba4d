package combat

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Garsondee/Air-Sense/internal/combat"

// metrics wraps the world's OTel instruments. The global meter provider is
// a no-op unless the host installs one.
type metrics struct {
	frames     metric.Int64Counter
	firedCount metric.Int64Counter
	hits       metric.Int64Counter
	kills      metric.Int64Counter
	live       metric.Int64ObservableGauge

	// liveN is written by the sim and read by the collector goroutine.
	liveN atomic.Int64
}

func newMetrics(w *World) *metrics {
	m := otel.Meter(instrumentationName)
	out := &metrics{}
	var err error
	if out.frames, err = m.Int64Counter("combat.frames",
		metric.WithDescription("Simulation frames stepped")); err != nil {
		w.log.Warn().Err(err).Msg("creating frames counter")
	}
	if out.firedCount, err = m.Int64Counter("combat.projectiles.fired",
		metric.WithDescription("Rounds fired by the player")); err != nil {
		w.log.Warn().Err(err).Msg("creating fired counter")
	}
	if out.hits, err = m.Int64Counter("combat.hits",
		metric.WithDescription("Entities damaged by player rounds")); err != nil {
		w.log.Warn().Err(err).Msg("creating hits counter")
	}
	if out.kills, err = m.Int64Counter("combat.kills",
		metric.WithDescription("Entities destroyed")); err != nil {
		w.log.Warn().Err(err).Msg("creating kills counter")
	}
	if out.live, err = m.Int64ObservableGauge("combat.projectiles.live",
		metric.WithDescription("Guided and unguided rounds in flight")); err != nil {
		w.log.Warn().Err(err).Msg("creating live gauge")
		return out
	}
	if _, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(out.live, out.liveN.Load())
		return nil
	}, out.live); err != nil {
		w.log.Warn().Err(err).Msg("registering live gauge callback")
	}
	return out
}

func (m *metrics) frame() {
	if m != nil && m.frames != nil {
		m.frames.Add(context.Background(), 1)
	}
}

func (m *metrics) fired(key WeaponKey) {
	if m != nil && m.firedCount != nil {
		m.firedCount.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("weapon", string(key))))
	}
}

func (m *metrics) hit(n int) {
	if m != nil && m.hits != nil {
		m.hits.Add(context.Background(), int64(n))
	}
}

func (m *metrics) kill(c Category) {
	if m != nil && m.kills != nil {
		m.kills.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("category", c.String())))
	}
}

func (m *metrics) setLive(n int) {
	if m != nil {
		m.liveN.Store(int64(n))
	}
}
