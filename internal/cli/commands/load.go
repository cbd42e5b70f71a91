package commands

import (
	"github.com/spf13/cobra"

	"github.com/askiada/go-pipemerge/internal/codec"
	"github.com/askiada/go-pipemerge/pkg/pipeline"
)

func loadDocuments(cmd *cobra.Command, app *appContext, locations []string) ([]*codec.Document, error) {
	docs, err := codec.LoadAll(cmd.Context(), locations)
	if err != nil {
		return nil, newExitCodeError(ExitConfigError, err)
	}

	for _, doc := range docs {
		app.logger.Debug("pipeline loaded",
			"location", doc.Location,
			"blake3", doc.Digest,
			"resource_types", len(doc.Pipeline.ResourceTypes),
			"resources", len(doc.Pipeline.Resources),
			"jobs", len(doc.Pipeline.Jobs),
		)
	}

	return docs, nil
}

// checkResources rejects documents whose steps use undeclared resources. The merge engine cannot rewrite them.
func checkResources(docs []*codec.Document) error {
	invalid := &pipeline.InvalidPipelineError{}

	for _, doc := range docs {
		issues, err := pipeline.Lint(doc.Pipeline)
		if err != nil {
			return err
		}

		for _, issue := range issues {
			if issue.Rule == pipeline.RuleUndeclaredResource {
				invalid.Issues = append(invalid.Issues, doc.Location+": "+issue.Message)
			}
		}
	}

	if len(invalid.Issues) > 0 {
		return newExitCodeError(ExitInvalidPipeline, invalid)
	}

	return nil
}

func pipelines(docs []*codec.Document) []*pipeline.Pipeline {
	out := make([]*pipeline.Pipeline, len(docs))
	for i, doc := range docs {
		out[i] = doc.Pipeline
	}

	return out
}
