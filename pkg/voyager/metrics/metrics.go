// Package metrics exposes navigation activity as Prometheus metrics.
package metrics

import (
	"github.com/BrandonKowalski/voyager/pkg/voyager/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector is a router.Observer that records every change it sees.
type Collector[T comparable] struct {
	// Transitions counts changes by operation and targeted surface
	Transitions *prometheus.CounterVec

	// StackDepth tracks the current navigation stack depth
	StackDepth prometheus.Gauge

	// OverlayActive is 1 while an overlay is showing, 0 otherwise
	OverlayActive *prometheus.GaugeVec
}

// NewCollector registers navigation metrics with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default handler.
func NewCollector[T comparable](reg prometheus.Registerer) *Collector[T] {
	factory := promauto.With(reg)

	c := &Collector[T]{
		Transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voyager_transitions_total",
				Help: "Navigation changes by operation and presentation option",
			},
			[]string{"op", "option"},
		),
		StackDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "voyager_stack_depth",
				Help: "Current number of routes pushed above the root",
			},
		),
		OverlayActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "voyager_overlay_active",
				Help: "Whether an overlay is showing (1) or not (0)",
			},
			[]string{"option"},
		),
	}

	for _, option := range router.Overlays {
		c.OverlayActive.WithLabelValues(option.String()).Set(0)
	}
	return c
}

// NavigationChanged implements router.Observer.
func (c *Collector[T]) NavigationChanged(change router.Change[T]) {
	c.Transitions.WithLabelValues(change.Op.String(), change.Option.String()).Inc()
	c.StackDepth.Set(float64(len(change.State.Stack)))

	for _, option := range router.Overlays {
		active := 0.0
		if !change.State.Overlay(option).IsEmpty() {
			active = 1
		}
		c.OverlayActive.WithLabelValues(option.String()).Set(active)
	}
}
