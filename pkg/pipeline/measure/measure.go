package measure

import (
	"sync"

	"github.com/askiada/go-pipemerge/pkg/pipeline/model"
)

type DefaultMeasure struct {
	mu      sync.Mutex
	Stages  map[string]Metric
	actions map[model.EntityKind]map[model.Action]int
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Stages:  make(map[string]Metric),
		actions: make(map[model.EntityKind]map[model.Action]int),
	}
}

// AddMetric returns the metric of stage name, creating it on first use.
func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mt, ok := m.Stages[name]; ok {
		return mt
	}

	mt := &DefaultMetric{mu: &sync.Mutex{}}
	m.Stages[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Stages[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Metric, len(m.Stages))
	for name, mt := range m.Stages {
		out[name] = mt
	}

	return out
}

func (m *DefaultMeasure) AddAction(kind model.EntityKind, action model.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.actions[kind] == nil {
		m.actions[kind] = make(map[model.Action]int)
	}

	m.actions[kind][action]++
}

// Actions returns a copy of the decision counters.
func (m *DefaultMeasure) Actions() map[model.EntityKind]map[model.Action]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[model.EntityKind]map[model.Action]int, len(m.actions))
	for kind, counts := range m.actions {
		out[kind] = make(map[model.Action]int, len(counts))
		for action, n := range counts {
			out[kind][action] = n
		}
	}

	return out
}

var _ Measure = (*DefaultMeasure)(nil)
