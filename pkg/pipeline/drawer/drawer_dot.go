package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-pipemerge/internal/store"
	"github.com/askiada/go-pipemerge/pkg/pipeline/measure"
	"github.com/askiada/go-pipemerge/pkg/pipeline/model"
)

var originColours = map[model.Origin][3]uint8{
	model.LeftOrigin:   {31, 119, 180},
	model.RightOrigin:  {255, 127, 14},
	model.MergedOrigin: {44, 160, 44},
}

// DOTDrawer renders the job graph in the Graphviz DOT language.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	jobs     []string
	label    string
	fileName string
	out      io.Writer
}

// NewDOTDrawer creates a drawer writing to fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	return &DOTDrawer{
		fileName: fileName,
		graph:    newJobGraph(),
	}
}

// NewDOTWriterDrawer creates a drawer writing to out.
func NewDOTWriterDrawer(out io.Writer) *DOTDrawer {
	return &DOTDrawer{
		out:   out,
		graph: newJobGraph(),
	}
}

func newJobGraph() graph.Graph[string, string] {
	return graph.NewWithStore(graph.StringHash, store.NewMemoryStore[string, string](), graph.Directed())
}

// AddJob adds a job to the graph.
func (d *DOTDrawer) AddJob(name string, origin model.Origin) error {
	colour, err := originColour(origin)
	if err != nil {
		return err
	}

	err = d.graph.AddVertex(name,
		graph.VertexAttribute("style", "filled"),
		graph.VertexAttribute("fillcolor", colour),
		graph.VertexAttribute("xlabel", string(origin)),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to add job %s", name)
	}

	d.jobs = append(d.jobs, name)

	return nil
}

// AddLink adds a link between the upstream job and the job.
func (d *DOTDrawer) AddLink(upstream, job string) error {
	err := d.graph.AddEdge(upstream, job)
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return errors.Wrapf(err, "unable to add edge from %s to %s", upstream, job)
	}

	return nil
}

// AddMeasure labels the graph with the number of entities per decision.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	var parts []string

	for kind, counts := range msr.Actions() {
		for action, n := range counts {
			parts = append(parts, fmt.Sprintf("%s %s: %d", kind, action, n))
		}
	}

	sort.Strings(parts)
	d.label = strings.Join(parts, `\n`)

	return nil
}

// Draw writes the graph to the file or writer of the drawer.
func (d *DOTDrawer) Draw() error {
	out := d.out
	if out == nil {
		file, err := os.Create(d.fileName)
		if err != nil {
			return errors.Wrapf(err, "unable to create file %s", d.fileName)
		}
		defer file.Close()

		out = file
	}

	var options []func(*description)
	if d.label != "" {
		options = append(options, GraphAttribute("label", d.label))
	}

	err := dot(d.graph, d.jobs, out, options...)
	if err != nil {
		return errors.Wrapf(err, "unable to create dot file %s", d.fileName)
	}

	return nil
}

func originColour(origin model.Origin) (string, error) {
	rgb, ok := originColours[origin]
	if !ok {
		rgb = [3]uint8{200, 200, 200}
	}

	colour, err := colors.RGB(rgb[0], rgb[1], rgb[2])
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return colour.ToHEX().String(), nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
{{- range $k, $v := .Attributes}}
	{{$k}}="{{$v}}";
{{- end}}
{{- range $s := .Statements}}
	"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.SourceWeight}} ]{{end}};
{{- end}}
}
`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot(g graph.Graph[string, string], order []string, wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, order, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

// GraphAttribute is a functional option for the DOT description.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

// generateDOT lists the vertices in order, each followed by its outgoing edges in order.
func generateDOT(gra graph.Graph[string, string], order []string, options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for _, vertex := range order {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceProperties.Attributes,
		})

		for _, target := range order {
			edge, ok := adjacencyMap[vertex][target]
			if !ok {
				continue
			}

			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         target,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
