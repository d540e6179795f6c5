package measure

import (
	"sync"
)

type DefaultMeasure struct {
	processes map[string]Metric
	mu        sync.Mutex
	rollbacks int
	backups   int
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		processes: make(map[string]Metric),
	}
}

// AddMetric registers a metric for name. An existing metric is kept so that
// replacing a process does not lose its history.
func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mt, ok := m.processes[name]; ok {
		return mt
	}

	mt := &DefaultMetric{}
	m.processes[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.processes[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Metric, len(m.processes))
	for name, mt := range m.processes {
		out[name] = mt
	}

	return out
}

func (m *DefaultMeasure) AddRollback(_, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollbacks++
}

func (m *DefaultMeasure) AddBackup(_ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backups++
}

func (m *DefaultMeasure) Rollbacks() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.rollbacks
}

func (m *DefaultMeasure) Backups() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.backups
}

var _ Measure = (*DefaultMeasure)(nil)
