package drawer

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-pipemerge/pkg/pipeline/measure"
	"github.com/askiada/go-pipemerge/pkg/pipeline/model"
)

type link struct {
	upstream string
	job      string
}

type pipelineDrawer struct {
	Drawer
	m     measure.Measure
	jobs  map[string]struct{}
	links []link
}

func (pd *pipelineDrawer) New() error {
	return nil
}

func (pd *pipelineDrawer) OnEntity(*model.EntityInfo) error {
	return nil
}

func (pd *pipelineDrawer) OnStage(*model.StageInfo) error {
	return nil
}

func (pd *pipelineDrawer) OnJob(job *model.JobInfo) error {
	err := pd.AddJob(job.Name, job.Origin)
	if err != nil {
		return err
	}

	pd.jobs[job.Name] = struct{}{}

	for _, upstream := range job.Upstream {
		pd.links = append(pd.links, link{upstream: upstream, job: job.Name})
	}

	return nil
}

// Finish links the jobs once they are all known, skipping passed constraints on unknown jobs.
func (pd *pipelineDrawer) Finish() error {
	for _, l := range pd.links {
		if _, ok := pd.jobs[l.upstream]; !ok || l.upstream == l.job {
			continue
		}

		err := pd.AddLink(l.upstream, l.job)
		if err != nil {
			return err
		}
	}

	if pd.m != nil {
		err := pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the job graph of the merged pipeline with drawer. The graph is labelled with the decisions
// recorded by measure when it is set.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.MergeOption {
	return &pipelineDrawer{Drawer: drawer, m: measure, jobs: make(map[string]struct{})}
}
