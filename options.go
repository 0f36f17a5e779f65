package minexec

// An Option customizes a pool at construction.
type Option func(*config)

type config struct {
	name    string
	metrics *Metrics
}

func newConfig(name string, opts []Option) config {
	c := config{name: name}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithName sets the name a pool reports in logs and metrics.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithMetrics makes a pool record its activity in m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}
