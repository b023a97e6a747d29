package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scavenger"

// Metrics instruments the simulation. A nil *Metrics records nothing.
type Metrics struct {
	frames          prometheus.Counter
	scavenges       prometheus.Counter
	itemsSpawned    *prometheus.CounterVec
	windowShifts    *prometheus.CounterVec
	modeTransitions *prometheus.CounterVec
	entityFaults    prometheus.Counter
	entities        prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Simulated frames.",
		}),
		scavenges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scavenges_total",
			Help:      "Trees and boxes scavenged.",
		}),
		itemsSpawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_spawned_total",
			Help:      "Loot items spawned, by kind.",
		}, []string{"kind"}),
		windowShifts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "window_shifts_total",
			Help:      "Terrain window shifts, by direction.",
		}, []string{"direction"}),
		modeTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_transitions_total",
			Help:      "World mode transitions, by target mode.",
		}, []string{"mode"}),
		entityFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entity_faults_total",
			Help:      "Entities despawned after a failed update.",
		}),
		entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Live entities at the end of the last frame.",
		}),
	}
	for _, c := range []prometheus.Collector{m.frames, m.scavenges, m.itemsSpawned, m.windowShifts, m.modeTransitions, m.entityFaults, m.entities} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Frame() {
	if m == nil {
		return
	}
	m.frames.Inc()
}

func (m *Metrics) Scavenged() {
	if m == nil {
		return
	}
	m.scavenges.Inc()
}

func (m *Metrics) ItemSpawned(kind string) {
	if m == nil {
		return
	}
	m.itemsSpawned.WithLabelValues(kind).Inc()
}

func (m *Metrics) WindowShifted(direction string) {
	if m == nil {
		return
	}
	m.windowShifts.WithLabelValues(direction).Inc()
}

func (m *Metrics) ModeChanged(mode string) {
	if m == nil {
		return
	}
	m.modeTransitions.WithLabelValues(mode).Inc()
}

func (m *Metrics) EntityFault() {
	if m == nil {
		return
	}
	m.entityFaults.Inc()
}

func (m *Metrics) SetEntities(n int) {
	if m == nil {
		return
	}
	m.entities.Set(float64(n))
}

// Handler serves the registry g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
