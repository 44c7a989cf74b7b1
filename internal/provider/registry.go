package provider

import (
	"sync"

	"newshub/internal/conf"
	"newshub/internal/core"
)

// Creator 定义 provider 构造函数签名
type Creator func(cfg *conf.ProviderConfig) core.Provider

var (
	registry = make(map[string]Creator)
	order    []string
	mu       sync.RWMutex
)

// Register adds a provider constructor under its stable key. The built-in
// set registers from init funcs; a new provider only needs its own file
// with a constructor and a Register call.
func Register(name string, creator Creator) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[name]; !exists {
		order = append(order, name)
	}
	registry[name] = creator
}

// BuildAll constructs every registered provider in registration order.
// Disabled providers (no credential) are included: the aggregator reports
// them with zero counts instead of silently dropping them.
func BuildAll(cfg *conf.ProviderConfig) []core.Provider {
	mu.RLock()
	defer mu.RUnlock()

	providers := make([]core.Provider, 0, len(order))
	for _, name := range order {
		providers = append(providers, registry[name](cfg))
	}
	return providers
}
