package codec

import (
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-pipemerge/pkg/pipeline"
)

// Decode parses a YAML or JSON pipeline document. An empty document is an empty pipeline.
func Decode(data []byte) (*pipeline.Pipeline, error) {
	var payload pipelinePayload

	err := yaml.Unmarshal(data, &payload)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode pipeline")
	}

	return payload.toPipeline(), nil
}

// Encode writes p as YAML. Every header line is written first as a comment.
func Encode(w io.Writer, p *pipeline.Pipeline, header ...string) error {
	if p == nil {
		return pipeline.ErrPipelineMustBeSet
	}

	for _, line := range header {
		_, err := io.WriteString(w, "# "+strings.TrimRight(line, "\n")+"\n")
		if err != nil {
			return errors.Wrap(err, "unable to write header")
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(fromPipeline(p))
	if err != nil {
		return errors.Wrap(err, "unable to encode pipeline")
	}

	return errors.Wrap(enc.Close(), "unable to flush pipeline")
}

// Marshal is Encode into a byte slice.
func Marshal(p *pipeline.Pipeline, header ...string) ([]byte, error) {
	var buf bytes.Buffer

	err := Encode(&buf, p, header...)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (p pipelinePayload) toPipeline() *pipeline.Pipeline {
	out := &pipeline.Pipeline{}

	for _, rt := range p.ResourceTypes {
		if rt.CheckEvery == "" {
			rt.CheckEvery = defaultCheckEvery
		}

		out.ResourceTypes = append(out.ResourceTypes, pipeline.ResourceType{
			Name:       rt.Name,
			Type:       rt.Type,
			Source:     rt.Source,
			Privileged: rt.Privileged,
			Params:     rt.Params,
			CheckEvery: rt.CheckEvery,
			Tags:       rt.Tags,
			Defaults:   rt.Defaults,
		})
	}

	for _, res := range p.Resources {
		if res.CheckEvery == "" {
			res.CheckEvery = defaultCheckEvery
		}

		if res.CheckTimeout == "" {
			res.CheckTimeout = defaultCheckTimeout
		}

		out.Resources = append(out.Resources, pipeline.Resource{
			Name:                 res.Name,
			Type:                 res.Type,
			Source:               res.Source,
			OldName:              res.OldName,
			Icon:                 res.Icon,
			Version:              res.Version,
			CheckEvery:           res.CheckEvery,
			CheckTimeout:         res.CheckTimeout,
			ExposeBuildCreatedBy: res.ExposeBuildCreatedBy,
			Tags:                 res.Tags,
			Public:               res.Public,
			WebhookToken:         res.WebhookToken,
		})
	}

	for _, job := range p.Jobs {
		j := pipeline.Job{
			Name:                 job.Name,
			OldName:              job.OldName,
			Plan:                 toSteps(job.Plan),
			Serial:               job.Serial,
			SerialGroups:         job.SerialGroups,
			MaxInFlight:          job.MaxInFlight,
			Public:               job.Public,
			DisableManualTrigger: job.DisableManualTrigger,
			Interruptible:        job.Interruptible,
			OnSuccess:            toHook(job.OnSuccess),
			OnFailure:            toHook(job.OnFailure),
			OnError:              toHook(job.OnError),
			OnAbort:              toHook(job.OnAbort),
			Ensure:               toHook(job.Ensure),
		}

		if r := job.BuildLogRetention; r != nil {
			j.BuildLogRetention = &pipeline.LogRetentionPolicy{
				Days:                   r.Days,
				Builds:                 r.Builds,
				MinimumSucceededBuilds: r.MinimumSucceededBuilds,
			}
		}

		out.Jobs = append(out.Jobs, j)
	}

	return out
}

func fromPipeline(p *pipeline.Pipeline) pipelinePayload {
	var out pipelinePayload

	for _, rt := range p.ResourceTypes {
		payload := resourceTypePayload{
			Name:       rt.Name,
			Type:       rt.Type,
			Source:     rt.Source,
			Privileged: rt.Privileged,
			Params:     rt.Params,
			CheckEvery: rt.CheckEvery,
			Tags:       rt.Tags,
			Defaults:   rt.Defaults,
		}

		if payload.CheckEvery == defaultCheckEvery {
			payload.CheckEvery = ""
		}

		out.ResourceTypes = append(out.ResourceTypes, payload)
	}

	for _, res := range p.Resources {
		payload := resourcePayload{
			Name:                 res.Name,
			Type:                 res.Type,
			Source:               res.Source,
			OldName:              res.OldName,
			Icon:                 res.Icon,
			Version:              res.Version,
			CheckEvery:           res.CheckEvery,
			CheckTimeout:         res.CheckTimeout,
			ExposeBuildCreatedBy: res.ExposeBuildCreatedBy,
			Tags:                 res.Tags,
			Public:               res.Public,
			WebhookToken:         res.WebhookToken,
		}

		if payload.CheckEvery == defaultCheckEvery {
			payload.CheckEvery = ""
		}

		if payload.CheckTimeout == defaultCheckTimeout {
			payload.CheckTimeout = ""
		}

		out.Resources = append(out.Resources, payload)
	}

	for _, job := range p.Jobs {
		payload := jobPayload{
			Name:                 job.Name,
			OldName:              job.OldName,
			Serial:               job.Serial,
			SerialGroups:         job.SerialGroups,
			MaxInFlight:          job.MaxInFlight,
			Public:               job.Public,
			DisableManualTrigger: job.DisableManualTrigger,
			Interruptible:        job.Interruptible,
			Plan:                 fromSteps(job.Plan),
			OnSuccess:            fromHook(job.OnSuccess),
			OnFailure:            fromHook(job.OnFailure),
			OnError:              fromHook(job.OnError),
			OnAbort:              fromHook(job.OnAbort),
			Ensure:               fromHook(job.Ensure),
		}

		if r := job.BuildLogRetention; r != nil {
			payload.BuildLogRetention = &logRetentionPayload{
				Days:                   r.Days,
				Builds:                 r.Builds,
				MinimumSucceededBuilds: r.MinimumSucceededBuilds,
			}
		}

		out.Jobs = append(out.Jobs, payload)
	}

	return out
}
