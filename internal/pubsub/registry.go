package pubsub

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// BrokerInfo is the read-only view of a broker kept by the registry.
type BrokerInfo interface {
	Name() string
	SubscriberCount() int
	IsShutdown() bool
	Metrics() BrokerMetrics
}

// Registry tracks brokers by name for the status command and debug log.
type Registry struct {
	brokers map[string]BrokerInfo
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		brokers: make(map[string]BrokerInfo),
	}
}

// Register adds or replaces a broker.
func (r *Registry) Register(name string, broker BrokerInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.brokers[name] = broker
}

// Unregister removes a broker from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.brokers, name)
}

// Get retrieves a broker by name.
func (r *Registry) Get(name string) (BrokerInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.brokers[name]
	return b, ok
}

// List returns the registered broker names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.brokers))
	for name := range r.brokers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllMetrics returns metrics keyed by broker name.
func (r *Registry) AllMetrics() map[string]BrokerMetrics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metrics := make(map[string]BrokerMetrics, len(r.brokers))
	for name, broker := range r.brokers {
		metrics[name] = broker.Metrics()
	}
	return metrics
}

// DebugString renders one line per broker, sorted by name.
func (r *Registry) DebugString() string {
	names := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "brokers: %d\n", len(names))
	for _, name := range names {
		broker, ok := r.brokers[name]
		if !ok {
			continue
		}
		m := broker.Metrics()
		fmt.Fprintf(&sb, "  %-8s subs=%d peak=%d published=%d dropped=%d shutdown=%t\n",
			name, m.SubscriberCount, m.SubscriberPeak, m.PublishCount, m.DropCount, broker.IsShutdown())
	}
	return sb.String()
}
