package model

// MergeOption defines the interface for merge observers.
type MergeOption interface {
	// New initialises the option before the first pipeline pair is merged.
	New() error
	// OnEntity runs for every incoming resource type, resource and job once its fate is known.
	OnEntity(entity *EntityInfo) error
	// OnStage runs after each orchestration stage of a pipeline pair.
	OnStage(stage *StageInfo) error
	// OnJob runs once for every job of the merged pipeline.
	OnJob(job *JobInfo) error
	// Finish runs after the merge succeeded.
	Finish() error
}
