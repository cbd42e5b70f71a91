package commands

import (
	"github.com/spf13/cobra"

	"github.com/askiada/go-pipemerge/pkg/pipeline"
	"github.com/askiada/go-pipemerge/pkg/pipeline/drawer"
)

func newGraphCmd(app *appContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Print the job graph of a pipeline as DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := loadDocuments(cmd, app, args)
			if err != nil {
				return err
			}

			d := drawer.NewDOTWriterDrawer(cmd.OutOrStdout())
			if output != "" {
				d = drawer.NewDOTDrawer(output)
			}

			_, err = pipeline.MergeAll(pipelines(docs), false,
				pipeline.WithLogger(app.logger),
				pipeline.WithObserver(drawer.PipelineDrawer(d, nil)),
			)

			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the graph to this file instead of stdout")

	return cmd
}
