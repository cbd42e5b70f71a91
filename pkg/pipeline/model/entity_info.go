package model

import "time"

type EntityKind string

const (
	ResourceTypeEntity EntityKind = "resource_type"
	ResourceEntity     EntityKind = "resource"
	JobEntity          EntityKind = "job"
)

// Action tells what the merge did with an incoming entity.
type Action string

const (
	// Added means the entity was copied under its own name.
	Added Action = "added"
	// Reused means an equal entity already existed and the incoming one was folded into it.
	Reused Action = "reused"
	// Renamed means the name was taken by a different entity and a fresh name was allocated.
	Renamed Action = "renamed"
	// DeepMerged means the entity was combined with the kept entity of the same name.
	DeepMerged Action = "deep-merged"
)

// Origin tells which side of the merge a job of the result comes from.
type Origin string

const (
	LeftOrigin   Origin = "left"
	RightOrigin  Origin = "right"
	MergedOrigin Origin = "merged"
)

// Stage names, in execution order.
const (
	ValidateStage      = "validate"
	ResourceTypesStage = "resource-types"
	ResourcesStage     = "resources"
	JobsStage          = "jobs"
)

type EntityInfo struct {
	Kind   EntityKind
	Name   string
	Target string
	Action Action
	// Pair is the index of the right hand pipeline being folded, starting at 1.
	Pair int
}

type StageInfo struct {
	Name     string
	Pair     int
	Duration time.Duration
}

type JobInfo struct {
	Name     string
	Origin   Origin
	Upstream []string
}
