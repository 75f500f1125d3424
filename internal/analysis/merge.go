package analysis

// MergeByKey merges two result sets: every primary item is kept, and
// secondary items whose key has no primary counterpart are appended in
// their original order. Used to lay service results over pattern
// fallbacks, with the service winning conflicts.
func MergeByKey[T any](primary, secondary []T, key func(T) string) []T {
	out := make([]T, 0, len(primary)+len(secondary))
	seen := make(map[string]struct{}, len(primary))
	for _, item := range primary {
		k := key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	for _, item := range secondary {
		if _, dup := seen[key(item)]; dup {
			continue
		}
		seen[key(item)] = struct{}{}
		out = append(out, item)
	}
	return out
}
