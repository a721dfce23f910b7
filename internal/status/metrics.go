package status

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	touchEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "halo",
		Subsystem: "touch",
		Name:      "events_total",
		Help:      "Classified touch events by type.",
	}, []string{"event"})

	modeTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "halo",
		Subsystem: "lamp",
		Name:      "mode_transitions_total",
		Help:      "Mode transitions by from/to pair.",
	}, []string{"from", "to"})

	syncRounds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "halo",
		Subsystem: "sync",
		Name:      "rounds_total",
		Help:      "Coordination service round trips by result.",
	}, []string{"result"})

	colorIndexGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "halo",
		Subsystem: "lamp",
		Name:      "color_index",
		Help:      "Current position on the color wheel.",
	})

	brightnessGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "halo",
		Subsystem: "lamp",
		Name:      "base_brightness",
		Help:      "Committed base brightness level.",
	})
)
