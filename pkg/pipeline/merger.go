package pipeline

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipemerge/pkg/pipeline/model"
)

// BuiltinResourceTypes are the resource types every pipeline may use without declaring them.
var BuiltinResourceTypes = []string{"time"}

// mergeRun holds the state shared by the pairs of a single Merge or MergeAll call.
type mergeRun struct {
	logger    *slog.Logger
	builtins  []string
	observers []model.MergeOption
	origins   map[string]model.Origin
}

func newMergeRun(opts []MergeOption) *mergeRun {
	run := &mergeRun{
		logger:   slog.New(slog.DiscardHandler),
		builtins: slices.Clone(BuiltinResourceTypes),
		origins:  make(map[string]model.Origin),
	}

	for _, opt := range opts {
		opt(run)
	}

	return run
}

func (r *mergeRun) isBuiltin(typ string) bool {
	return slices.Contains(r.builtins, typ)
}

func (r *mergeRun) start() error {
	for _, obs := range r.observers {
		if err := obs.New(); err != nil {
			return errors.Wrap(err, "unable to apply merge option")
		}
	}

	return nil
}

func (r *mergeRun) finish(result *Pipeline) error {
	for _, job := range result.Jobs {
		info := &model.JobInfo{Name: job.Name, Origin: r.origins[job.Name], Upstream: job.Upstream()}
		for _, obs := range r.observers {
			if err := obs.OnJob(info); err != nil {
				return errors.Wrapf(err, "unable to report job %q", job.Name)
			}
		}
	}

	for _, obs := range r.observers {
		if err := obs.Finish(); err != nil {
			return errors.Wrap(err, "unable to finish merge option")
		}
	}

	return nil
}

func (r *mergeRun) stage(name string, pair int, fn func() error) error {
	start := time.Now()

	if err := fn(); err != nil {
		return err
	}

	info := &model.StageInfo{Name: name, Pair: pair, Duration: time.Since(start)}
	r.logger.Info("merge stage done", slog.String("stage", name), slog.Int("pair", pair), slog.Duration("duration", info.Duration))

	for _, obs := range r.observers {
		if err := obs.OnStage(info); err != nil {
			return errors.Wrapf(err, "unable to report stage %s", name)
		}
	}

	return nil
}

func (r *mergeRun) report(kind model.EntityKind, pair int, decisions []decision) error {
	for _, d := range decisions {
		r.logger.Debug("entity merged",
			slog.String("kind", string(kind)),
			slog.String("name", d.name),
			slog.String("target", d.target),
			slog.String("action", string(d.action)),
		)

		info := &model.EntityInfo{Kind: kind, Name: d.name, Target: d.target, Action: d.action, Pair: pair}
		for _, obs := range r.observers {
			if err := obs.OnEntity(info); err != nil {
				return errors.Wrapf(err, "unable to report %s %q", kind, d.name)
			}
		}
	}

	return nil
}

// mergePair runs the merge stages in order. Each stage consumes the rewrites produced by the previous one.
func (r *mergeRun) mergePair(left, right *Pipeline, deep bool, pair int) (*Pipeline, error) {
	var (
		out         = &Pipeline{}
		typeRewrite map[string]string
		resRewrite  map[string]string
	)

	err := r.stage(model.ValidateStage, pair, func() error {
		if err := r.validate(left); err != nil {
			return errors.Wrap(err, "left pipeline")
		}

		if err := r.validate(right); err != nil {
			return errors.Wrap(err, "right pipeline")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(model.ResourceTypesStage, pair, func() error {
		types, rewrites, decisions, err := uniquesAndRewrites(left.ResourceTypes, right.ResourceTypes, nil)
		if err != nil {
			return err
		}

		for _, builtin := range r.builtins {
			if _, ok := rewrites[builtin]; !ok {
				rewrites[builtin] = builtin
			}
		}

		out.ResourceTypes, typeRewrite = types, rewrites

		return r.report(model.ResourceTypeEntity, pair, decisions)
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(model.ResourcesStage, pair, func() error {
		incoming := make([]Resource, len(right.Resources))
		for i, res := range right.Resources {
			incoming[i] = res.WithType(typeRewrite[res.Type])
		}

		resources, rewrites, decisions, err := uniquesAndRewrites(left.Resources, incoming, nil)
		if err != nil {
			return err
		}

		out.Resources, resRewrite = resources, rewrites

		return r.report(model.ResourceEntity, pair, decisions)
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(model.JobsStage, pair, func() error {
		incoming := make([]Job, len(right.Jobs))
		for i, job := range right.Jobs {
			rewritten, err := job.ResourceRewrite(resRewrite)
			if err != nil {
				return err
			}

			incoming[i] = rewritten
		}

		var merge mergeFunc[Job]
		if deep {
			merge = deepMergeJobs
		}

		jobs, _, decisions, err := uniquesAndRewrites(left.Jobs, incoming, merge)
		if err != nil {
			return err
		}

		out.Jobs = jobs
		r.trackOrigins(decisions)

		return r.report(model.JobEntity, pair, decisions)
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *mergeRun) trackOrigins(decisions []decision) {
	for _, d := range decisions {
		switch d.action {
		case model.Added, model.Renamed:
			r.origins[d.target] = model.RightOrigin
		case model.DeepMerged:
			r.origins[d.target] = model.MergedOrigin
		case model.Reused:
		}
	}
}

func (r *mergeRun) validate(p *Pipeline) error {
	declared := make(map[string]struct{}, len(p.ResourceTypes)+len(r.builtins))
	for _, typ := range r.builtins {
		declared[typ] = struct{}{}
	}

	for _, rt := range p.ResourceTypes {
		declared[rt.Name] = struct{}{}
	}

	invalid := &InvalidPipelineError{}

	for _, res := range p.Resources {
		if _, ok := declared[res.Type]; !ok {
			invalid.add(fmt.Sprintf("resource %q uses undeclared resource type %q", res.Name, res.Type))
		}
	}

	for _, job := range p.Jobs {
		if job.hasNilStep() {
			invalid.add(fmt.Sprintf("job %q has an empty step", job.Name))
		}
	}

	return invalid.orNil()
}
