package measure

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipemerge/pkg/pipeline/model"
)

var (
	stageOrder  = []string{model.ValidateStage, model.ResourceTypesStage, model.ResourcesStage, model.JobsStage}
	kindOrder   = []model.EntityKind{model.ResourceTypeEntity, model.ResourceEntity, model.JobEntity}
	actionOrder = []model.Action{model.Added, model.Reused, model.Renamed, model.DeepMerged}
)

// WriteReport prints the stage timings and the decision counters of m as two aligned tables.
func WriteReport(w io.Writer, m Measure) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "STAGE\tRUNS\tAVG\tTOTAL")

	metrics := m.AllMetrics()

	for _, name := range orderedStages(metrics) {
		mt := metrics[name]
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", name, mt.Count(), mt.AVGDuration(), mt.TotalDuration())
	}

	fmt.Fprintln(tw)
	fmt.Fprint(tw, "KIND")

	for _, action := range actionOrder {
		fmt.Fprintf(tw, "\t%s", action)
	}

	fmt.Fprintln(tw)

	actions := m.Actions()

	for _, kind := range kindOrder {
		fmt.Fprint(tw, kind)

		for _, action := range actionOrder {
			fmt.Fprintf(tw, "\t%d", actions[kind][action])
		}

		fmt.Fprintln(tw)
	}

	return errors.Wrap(tw.Flush(), "unable to write report")
}

// orderedStages returns the known stages in execution order, then any other stage by name.
func orderedStages(metrics map[string]Metric) []string {
	var names []string

	for _, stage := range stageOrder {
		if _, ok := metrics[stage]; ok {
			names = append(names, stage)
		}
	}

	var extra []string

	for name := range metrics {
		known := false

		for _, stage := range stageOrder {
			if stage == name {
				known = true

				break
			}
		}

		if !known {
			extra = append(extra, name)
		}
	}

	sort.Strings(extra)

	return append(names, extra...)
}
