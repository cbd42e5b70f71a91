package drawer

import (
	"github.com/askiada/go-pipemerge/pkg/pipeline/measure"
	"github.com/askiada/go-pipemerge/pkg/pipeline/model"
)

// Drawer is an interface that defines the methods for drawing a job graph.
type Drawer interface {
	// AddJob adds a job coloured by the side of the merge it comes from.
	AddJob(name string, origin model.Origin) error
	// AddLink adds a passed constraint from the upstream job to the job.
	AddLink(upstream, job string) error
	// AddMeasure labels the graph with the decisions recorded by measure.
	AddMeasure(measure measure.Measure) error
	// Draw writes the graph.
	Draw() error
}
