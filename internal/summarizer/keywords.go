package summarizer

import (
	"strings"

	rake "github.com/afjoseph/RAKE.Go"
)

// Keywords returns up to limit key phrases of text ranked by RAKE score.
func Keywords(text string, limit int) []string {
	if strings.TrimSpace(text) == "" || limit <= 0 {
		return nil
	}
	candidates := rake.RunRake(text)
	out := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, c := range candidates {
		key := strings.TrimSpace(c.Key)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
		if len(out) == limit {
			break
		}
	}
	return out
}
