package measure

import (
	"time"

	"github.com/askiada/go-pipemerge/pkg/pipeline/model"
)

// Measure collects stage timings and entity decisions of a merge.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
	AddAction(kind model.EntityKind, action model.Action)
	Actions() map[model.EntityKind]map[model.Action]int
}

// Metric accumulates the durations of one stage over every merged pair.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AVGDuration() time.Duration
	TotalDuration() time.Duration
	Count() int64
}
