package pipeline

import (
	"maps"
	"reflect"
	"slices"
)

// cloneValue deep copies a decoded document value. Maps and slices are copied recursively, scalars are returned as
// they are.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case map[any]any:
		out := make(map[any]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}

		return out
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}

	return slices.Clone(s)
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}

	return maps.Clone(m)
}

func cloneIntPtr(i *int) *int {
	if i == nil {
		return nil
	}

	v := *i

	return &v
}

// equalValue compares decoded document values. A nil value and an empty map or slice are considered equal.
func equalValue(a, b any) bool {
	if isEmptyValue(a) && isEmptyValue(b) {
		return true
	}

	return reflect.DeepEqual(a, b)
}

func equalMap(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}

	return reflect.DeepEqual(a, b)
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive
	case reflect.Map, reflect.Slice:
		return rv.Len() == 0
	default:
		return false
	}
}

func equalStringSlices(a, b []string) bool {
	return slices.Equal(a, b)
}

func equalStringMap(a, b map[string]string) bool {
	return maps.Equal(a, b)
}

// equalStringSets compares a and b as sets, ignoring order and repetitions.
func equalStringSets(a, b []string) bool {
	sa, sb := slices.Clone(a), slices.Clone(b)
	slices.Sort(sa)
	slices.Sort(sb)

	return slices.Equal(slices.Compact(sa), slices.Compact(sb))
}
