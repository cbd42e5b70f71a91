package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-pipemerge/pkg/pipeline"
)

func newValidateCmd(app *appContext) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check that every resource uses a declared resource type",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := loadDocuments(cmd, app, args)
			if err != nil {
				return err
			}

			failed := 0

			for _, doc := range docs {
				var problems []string

				if err := pipeline.ValidatePipeline(doc.Pipeline); err != nil {
					var invalid *pipeline.InvalidPipelineError
					if !errors.As(err, &invalid) {
						return err
					}

					problems = append(problems, invalid.Issues...)
				}

				if strict {
					issues, err := pipeline.Lint(doc.Pipeline)
					if err != nil {
						return err
					}

					for _, issue := range issues {
						if issue.Rule != pipeline.RuleUndeclaredResourceType {
							problems = append(problems, issue.String())
						}
					}
				}

				if len(problems) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", doc.Location)

					continue
				}

				failed++

				for _, problem := range problems {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", doc.Location, problem)
				}
			}

			if failed > 0 {
				return newExitCodeError(ExitInvalidPipeline,
					errors.Wrapf(pipeline.ErrInvalidPipeline, "%d of %d pipelines", failed, len(docs)))
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "also check step resources, passed jobs and job cycles")

	return cmd
}
