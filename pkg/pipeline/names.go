package pipeline

import "fmt"

// UniqueName returns the first of base-000, base-001, ... that is not in taken. The counter is zero padded to three
// digits and simply grows wider past base-999.
func UniqueName(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, name := range taken {
		used[name] = struct{}{}
	}

	for idx := 0; ; idx++ {
		candidate := fmt.Sprintf("%s-%03d", base, idx)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
