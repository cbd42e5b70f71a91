package pipeline

import (
	"log/slog"

	"github.com/askiada/go-pipemerge/pkg/pipeline/model"
)

// MergeOption configures a merge.
type MergeOption func(r *mergeRun)

// WithLogger makes the merge log every decision on logger.
func WithLogger(logger *slog.Logger) MergeOption {
	return func(r *mergeRun) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithBuiltinTypes adds resource types that resources may use without declaring them. "time" is always builtin.
func WithBuiltinTypes(types ...string) MergeOption {
	return func(r *mergeRun) {
		for _, typ := range types {
			if !r.isBuiltin(typ) {
				r.builtins = append(r.builtins, typ)
			}
		}
	}
}

// WithObserver registers an observer notified of every merge decision.
func WithObserver(observer model.MergeOption) MergeOption {
	return func(r *mergeRun) {
		if observer != nil {
			r.observers = append(r.observers, observer)
		}
	}
}
