package gemini

import "strings"

// stripCodeFences removes a surrounding markdown code fence from a model
// response. Gemini often wraps JSON output in ```json ... ``` despite being
// asked for pure JSON.
func stripCodeFences(text string) string {
	t := strings.TrimSpace(text)

	if strings.HasPrefix(t, "```") {
		if idx := strings.Index(t, "\n"); idx != -1 {
			t = t[idx+1:]
		}
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")

	return strings.TrimSpace(t)
}
