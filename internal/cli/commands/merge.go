package commands

import (
	"github.com/spf13/cobra"

	"github.com/askiada/go-pipemerge/internal/codec"
	"github.com/askiada/go-pipemerge/internal/env"
	"github.com/askiada/go-pipemerge/pkg/pipeline"
	"github.com/askiada/go-pipemerge/pkg/pipeline/drawer"
	"github.com/askiada/go-pipemerge/pkg/pipeline/measure"
)

type mergeOptions struct {
	deep   bool
	output string
	stats  bool
	graph  string
}

func newMergeCmd(app *appContext) *cobra.Command {
	opts := &mergeOptions{}
	cmd := &cobra.Command{
		Use:   "merge LEFT RIGHT [MORE...]",
		Short: "Merge pipelines, keeping the identifiers of the first one",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("deep") {
				deep, err := env.Bool(env.DeepKey, false)
				if err != nil {
					return newExitCodeError(ExitConfigError, err)
				}

				opts.deep = deep
			}

			return runMerge(cmd, app, opts, args)
		},
	}
	cmd.Flags().BoolVar(&opts.deep, "deep", false, "deep merge jobs sharing a name instead of renaming them")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the merged pipeline to this file (.zst and .xz are compressed)")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print merge statistics to stderr")
	cmd.Flags().StringVar(&opts.graph, "graph", "", "write the job graph of the merged pipeline as DOT to this file")

	return cmd
}

func runMerge(cmd *cobra.Command, app *appContext, opts *mergeOptions, locations []string) error {
	docs, err := loadDocuments(cmd, app, locations)
	if err != nil {
		return err
	}

	if err := checkResources(docs); err != nil {
		return err
	}

	msr := measure.NewDefaultMeasure()
	mergeOpts := []pipeline.MergeOption{pipeline.WithLogger(app.logger)}

	if opts.stats || opts.graph != "" {
		mergeOpts = append(mergeOpts, pipeline.WithObserver(measure.PipelineMeasure(msr)))
	}

	if opts.graph != "" {
		mergeOpts = append(mergeOpts, pipeline.WithObserver(drawer.PipelineDrawer(drawer.NewDOTDrawer(opts.graph), msr)))
	}

	merged, err := pipeline.MergeAll(pipelines(docs), opts.deep, mergeOpts...)
	if err != nil {
		return err
	}

	header := []string{"merged by pipemerge " + app.version}
	for _, doc := range docs {
		header = append(header, "source "+doc.Location+" blake3:"+doc.Digest)
	}

	if opts.output == "" {
		err = codec.Encode(cmd.OutOrStdout(), merged, header...)
	} else {
		err = codec.Save(opts.output, merged, header...)
	}

	if err != nil {
		return err
	}

	app.logger.Info("pipelines merged",
		"sources", len(docs),
		"deep", opts.deep,
		"resource_types", len(merged.ResourceTypes),
		"resources", len(merged.Resources),
		"jobs", len(merged.Jobs),
	)

	if opts.stats {
		return measure.WriteReport(cmd.ErrOrStderr(), msr)
	}

	return nil
}
