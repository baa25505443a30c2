package sortutil

import "sort"

// SortedKeys returns the keys of m in lexicographic order. Map iteration order
// is random, so every output that lists keys goes through here.
func SortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SortedCopy returns a new slice containing the input strings sorted
// lexicographically. The original slice is not modified.
func SortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
