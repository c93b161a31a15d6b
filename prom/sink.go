// Package prom exports motion lifecycle events as Prometheus metrics.
package prom

import (
	"github.com/phanxgames/motion"
	"github.com/prometheus/client_golang/prometheus"
)

// Sink is a motion.EventSink that counts lifecycle events per group and
// tracks the exits and animations currently in flight.
type Sink struct {
	events    *prometheus.CounterVec
	exiting   *prometheus.GaugeVec
	animating *prometheus.GaugeVec
	rerenders *prometheus.CounterVec
}

// NewSink creates a Sink and registers its collectors with reg. A nil reg
// registers with prometheus.DefaultRegisterer.
func NewSink(reg prometheus.Registerer) (*Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &Sink{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "motion",
				Name:      "events_total",
				Help:      "Lifecycle events emitted by entities and groups.",
			},
			[]string{"group", "type"},
		),
		exiting: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "motion",
				Name:      "exits_in_flight",
				Help:      "Entities whose exit has been requested and has not finished.",
			},
			[]string{"group"},
		),
		animating: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "motion",
				Name:      "animations_in_flight",
				Help:      "Animation runs started and not yet finished.",
			},
			[]string{"group"},
		),
		rerenders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "motion",
				Subsystem: "group",
				Name:      "rerenders_total",
				Help:      "Forced re-evaluations requested by groups.",
			},
			[]string{"group"},
		),
	}
	for _, c := range []prometheus.Collector{s.events, s.exiting, s.animating, s.rerenders} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustNewSink is like NewSink but panics if registration fails.
func MustNewSink(reg prometheus.Registerer) *Sink {
	s, err := NewSink(reg)
	if err != nil {
		panic(err)
	}
	return s
}

// EmitEvent implements motion.EventSink.
func (s *Sink) EmitEvent(ev motion.Event) {
	group := ev.GroupID
	s.events.WithLabelValues(group, ev.Type.String()).Inc()
	switch ev.Type {
	case motion.EventAnimationStart:
		s.animating.WithLabelValues(group).Inc()
	case motion.EventAnimationEnd:
		s.animating.WithLabelValues(group).Dec()
	case motion.EventExitStart:
		s.exiting.WithLabelValues(group).Inc()
	case motion.EventExitEnd:
		s.exiting.WithLabelValues(group).Dec()
	case motion.EventRerender:
		s.rerenders.WithLabelValues(group).Inc()
	}
}
