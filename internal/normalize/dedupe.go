package normalize

import "encoding/json"

// dedupe drops rows identical in every field to an earlier row, keeping first
// occurrences in order. Null and empty string are different values.
func dedupe[T any](rows []T) []T {
	seen := make(map[string]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		key, err := json.Marshal(r)
		if err != nil {
			out = append(out, r)
			continue
		}
		if _, dup := seen[string(key)]; dup {
			continue
		}
		seen[string(key)] = struct{}{}
		out = append(out, r)
	}
	return out
}
