package measure

import (
	"github.com/askiada/go-pipemerge/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New() error {
	for _, stage := range []string{model.ValidateStage, model.ResourceTypesStage, model.ResourcesStage, model.JobsStage} {
		pm.AddMetric(stage)
	}

	return nil
}

func (pm *pipelineMeasure) OnEntity(entity *model.EntityInfo) error {
	pm.AddAction(entity.Kind, entity.Action)

	return nil
}

func (pm *pipelineMeasure) OnStage(stage *model.StageInfo) error {
	pm.AddMetric(stage.Name).AddDuration(stage.Duration)

	return nil
}

func (pm *pipelineMeasure) OnJob(*model.JobInfo) error {
	return nil
}

func (pm *pipelineMeasure) Finish() error {
	return nil
}

// PipelineMeasure records the stage durations and entity decisions of a merge into measure.
func PipelineMeasure(measure Measure) model.MergeOption {
	return &pipelineMeasure{measure}
}
