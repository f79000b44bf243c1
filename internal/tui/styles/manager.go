package styles

import "sync"

// Manager keeps the registered themes and the current one.
type Manager struct {
	mu      sync.RWMutex
	themes  map[string]*Theme
	current *Theme
}

var (
	defaultManager *Manager
	managerOnce    sync.Once
)

// NewManager initializes the theme manager with the built-in themes and makes
// it the process default.
func NewManager() *Manager {
	managerOnce.Do(func() {
		m := &Manager{themes: make(map[string]*Theme)}
		m.Register(NewDefaultTheme())
		m.Register(NewLightTheme())
		m.current = m.themes["default"]
		defaultManager = m
	})
	return defaultManager
}

// Register adds a theme by name.
func (m *Manager) Register(t *Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.themes[t.Name] = t
}

// SetTheme switches the current theme. Unknown names are ignored.
func (m *Manager) SetTheme(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.themes[name]
	if ok {
		m.current = t
	}
	return ok
}

// Current returns the active theme.
func (m *Manager) Current() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// CurrentTheme returns the active theme of the default manager.
func CurrentTheme() *Theme {
	return NewManager().Current()
}
