package pipeline

import (
	"slices"

	"github.com/askiada/go-pipemerge/pkg/pipeline/model"
)

// named is implemented by the entities folded by uniquesAndRewrites. Equal ignores the name.
type named[T any] interface {
	GetName() string
	Equal(other T) bool
	Clone() T
	Renamed(name string) T
}

// mergeFunc combines an incoming entity into the kept entity of the same name.
type mergeFunc[T any] func(kept, incoming T) (T, error)

// decision records what happened to one incoming entity.
type decision struct {
	name   string
	target string
	action model.Action
}

// uniquesAndRewrites folds incoming into a copy of kept. An incoming entity equal to a kept one is dropped and
// mapped to it. A name collision is resolved with merge when it is set, otherwise the incoming entity is appended
// under a fresh name. The returned map covers every incoming name.
func uniquesAndRewrites[T named[T]](kept, incoming []T, merge mergeFunc[T]) ([]T, map[string]string, []decision, error) {
	result := make([]T, 0, len(kept)+len(incoming))
	for _, item := range kept {
		result = append(result, item.Clone())
	}

	rewrites := make(map[string]string, len(incoming))
	decisions := make([]decision, 0, len(incoming))

	for _, item := range incoming {
		if idx := indexEqual(result, item); idx >= 0 {
			rewrites[item.GetName()] = result[idx].GetName()
			decisions = append(decisions, decision{name: item.GetName(), target: result[idx].GetName(), action: model.Reused})

			continue
		}

		idx := indexNamed(result, item.GetName())
		switch {
		case idx < 0:
			result = append(result, item.Clone())
			rewrites[item.GetName()] = item.GetName()
			decisions = append(decisions, decision{name: item.GetName(), target: item.GetName(), action: model.Added})
		case merge != nil:
			merged, err := merge(result[idx], item)
			if err != nil {
				return nil, nil, nil, err
			}

			result[idx] = merged
			rewrites[item.GetName()] = merged.GetName()
			decisions = append(decisions, decision{name: item.GetName(), target: merged.GetName(), action: model.DeepMerged})
		default:
			alt := UniqueName(item.GetName(), names(result))
			result = append(result, item.Renamed(alt))
			rewrites[item.GetName()] = alt
			decisions = append(decisions, decision{name: item.GetName(), target: alt, action: model.Renamed})
		}
	}

	return result, rewrites, decisions, nil
}

func indexEqual[T named[T]](list []T, item T) int {
	for i, candidate := range list {
		if candidate.Equal(item) {
			return i
		}
	}

	return -1
}

func indexNamed[T named[T]](list []T, name string) int {
	for i, candidate := range list {
		if candidate.GetName() == name {
			return i
		}
	}

	return -1
}

func names[T named[T]](list []T) []string {
	out := make([]string, len(list))
	for i, item := range list {
		out[i] = item.GetName()
	}

	return out
}

// deepMergeJobs renames the handles of incoming that clash with a differently bound handle of kept, then deep merges
// the result into kept.
func deepMergeJobs(kept, incoming Job) (Job, error) {
	return kept.DeepMerge(incoming.HandleRewrite(handleRewrites(kept.Handles(), incoming.Handles())))
}

// handleRewrites maps every incoming handle name to the name it takes once merged next to target. Unbound handles
// sharing a name with a bound one follow the bound handle.
func handleRewrites(target, incoming []Handle) map[string]string {
	var (
		handles []Handle
		bound   = make(map[string]struct{})
		seen    = make(map[Handle]struct{})
	)

	for _, h := range incoming {
		if h.Resource == "" {
			continue
		}

		bound[h.Name] = struct{}{}

		if _, dup := seen[h]; !dup {
			seen[h] = struct{}{}
			handles = append(handles, h)
		}
	}

	for _, h := range incoming {
		if h.Resource != "" {
			continue
		}

		if _, ok := bound[h.Name]; ok {
			continue
		}

		if _, dup := seen[h]; !dup {
			seen[h] = struct{}{}
			handles = append(handles, h)
		}
	}

	taken := make(map[Handle]struct{}, len(target))
	takenNames := make([]string, 0, len(target))

	for _, h := range target {
		taken[h] = struct{}{}
		takenNames = append(takenNames, h.Name)
	}

	rewrites := make(map[string]string, len(handles))

	for _, h := range handles {
		if _, ok := taken[h]; ok {
			rewrites[h.Name] = h.Name

			continue
		}

		name := h.Name
		if slices.Contains(takenNames, h.Name) {
			name = UniqueName(h.Name, takenNames)
		}

		rewrites[h.Name] = name
		taken[Handle{Name: name, Resource: h.Resource}] = struct{}{}
		takenNames = append(takenNames, name)
	}

	return rewrites
}
