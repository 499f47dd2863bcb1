package notes

import "strings"

// NormalizeTags splits a free-text comma-separated tag string into a
// lowercased, deduplicated list.
func NormalizeTags(raw string) []string {
	parts := strings.Split(raw, ",")

	seen := map[string]struct{}{}
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		t := strings.ToLower(strings.TrimSpace(p))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)

		if len(out) >= 20 { // cap
			break
		}
	}

	return out
}
