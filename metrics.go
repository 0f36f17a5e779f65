package minexec

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus counters shared by any number of pools.
// Each pool reports under its own name (see [WithName]).
type Metrics struct {
	Spawned   *prometheus.CounterVec
	Completed *prometheus.CounterVec
	Polls     *prometheus.CounterVec
	Rejected  *prometheus.CounterVec
}

// NewMetrics creates a set of pool counters and registers them with reg.
// If reg is nil, the counters are created but not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Spawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minexec",
			Name:      "tasks_spawned_total",
			Help:      "Number of tasks admitted into a pool",
		}, []string{"pool"}),
		Completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minexec",
			Name:      "tasks_completed_total",
			Help:      "Number of tasks that reported completion",
		}, []string{"pool"}),
		Polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minexec",
			Name:      "task_polls_total",
			Help:      "Number of times a pool polled a task",
		}, []string{"pool"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minexec",
			Name:      "spawns_rejected_total",
			Help:      "Number of spawns through a spawner that found the pool shut down",
		}, []string{"pool"}),
	}

	if reg != nil {
		reg.MustRegister(m.Spawned, m.Completed, m.Polls, m.Rejected)
	}

	return m
}

// poolMetrics is the set of counters curried for one pool.
// A nil *poolMetrics records nothing.
type poolMetrics struct {
	spawned   prometheus.Counter
	completed prometheus.Counter
	polls     prometheus.Counter
	rejected  prometheus.Counter
}

func (m *Metrics) forPool(name string) *poolMetrics {
	if m == nil {
		return nil
	}
	return &poolMetrics{
		spawned:   m.Spawned.WithLabelValues(name),
		completed: m.Completed.WithLabelValues(name),
		polls:     m.Polls.WithLabelValues(name),
		rejected:  m.Rejected.WithLabelValues(name),
	}
}

func (pm *poolMetrics) spawn() {
	if pm != nil {
		pm.spawned.Inc()
	}
}

func (pm *poolMetrics) poll(completed bool) {
	if pm != nil {
		pm.polls.Inc()
		if completed {
			pm.completed.Inc()
		}
	}
}

func (pm *poolMetrics) reject() {
	if pm != nil {
		pm.rejected.Inc()
	}
}
