package dream

import "strings"

// NormalizeTags trims, drops empties and de-duplicates case-insensitively,
// keeping first occurrence order.
func NormalizeTags(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))

	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}

	return out
}

// MergeTags is the union of existing and added tags, existing first.
func MergeTags(existing, added []string) []string {
	all := make([]string, 0, len(existing)+len(added))
	all = append(all, existing...)
	all = append(all, added...)
	return NormalizeTags(all)
}
