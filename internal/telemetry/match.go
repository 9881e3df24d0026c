package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/codeclash/codeclash/internal/domain"
	"github.com/codeclash/codeclash/internal/event"
)

var (
	roomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codeclash_match_rooms_created_total",
		Help: "Battle rooms created by the matchmaking engine.",
	})

	verdictsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codeclash_match_verdicts_total",
		Help: "Resolved battle verdicts by kind.",
	}, []string{"kind"})
)

// ObserveMatches counts engine activity off the event bus, keeping the
// engine itself free of metrics plumbing.
func ObserveMatches(eb *event.Bus) {
	eb.Subscribe(domain.EventNamePlayersPaired, func(ctx context.Context, e event.Event) error {
		roomsCreated.Inc()
		return nil
	})

	eb.Subscribe(domain.EventNameMatchResolved, func(ctx context.Context, e event.Event) error {
		kind := "win"
		if e.(domain.EventMatchResolved).Verdict.Tie() {
			kind = "tie"
		}
		verdictsResolved.WithLabelValues(kind).Inc()
		return nil
	})
}
