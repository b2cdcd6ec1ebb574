package retropak

type readConfig struct {
	limits   Limits
	registry *Registry
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithRegistry selects the codec registry used to decode resource payloads.
// The default is [DefaultRegistry].
func WithRegistry(r *Registry) ReadOption {
	return func(c *readConfig) { c.registry = r }
}

func newReadConfig(opts []ReadOption) readConfig {
	cfg := readConfig{limits: DefaultLimits(), registry: defaultRegistry}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	return cfg
}
