package history

import "github.com/kilianp07/ecocommute/core/factory"

var registry = factory.NewRegistry[Store]("history store")

func init() {
	_ = RegisterStore("memory", func(map[string]any) (Store, error) {
		return NewMemoryStore(), nil
	})
}

// RegisterStore adds a history backend factory.
func RegisterStore(name string, f factory.Factory[Store]) error {
	return registry.Register(name, f)
}

// NewStore builds the configured backend. An empty type selects memory.
func NewStore(cfg factory.ModuleConfig) (Store, error) {
	if cfg.Type == "" {
		cfg.Type = "memory"
	}
	return registry.Create(cfg)
}
