package pipeline

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipemerge/internal/store"
)

// JobGraph returns the directed graph of job dependencies. There is one vertex per job, in plan order, and an edge
// from every job named in a passed constraint to the job holding it. Unknown jobs and self references are skipped.
func JobGraph(p *Pipeline) (graph.Graph[string, string], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	g := graph.NewWithStore(graph.StringHash, store.NewMemoryStore[string, string](), graph.Directed())

	for _, job := range p.Jobs {
		err := g.AddVertex(job.Name)
		if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, errors.Wrapf(err, "unable to add job %q", job.Name)
		}
	}

	for _, job := range p.Jobs {
		for _, upstream := range job.Upstream() {
			if upstream == job.Name {
				continue
			}

			if _, err := g.Vertex(upstream); err != nil {
				continue
			}

			err := g.AddEdge(upstream, job.Name)
			if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, errors.Wrapf(err, "unable to link job %q to %q", upstream, job.Name)
			}
		}
	}

	return g, nil
}
