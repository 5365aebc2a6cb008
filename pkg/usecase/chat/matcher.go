package chat

import (
	"strings"

	"github.com/m-mizutani/ofrenda/pkg/model"
)

// Match returns the first conditional response whose keyword appears in
// input, or nil when none matches. Matching is case-insensitive substring
// containment over the given order: "travel" matches "traveling". Word
// boundary matching would change visible behavior and must not be
// substituted here.
func Match(input string, responses []*model.ConditionalResponse) *model.ConditionalResponse {
	normalized := strings.ToLower(input)
	if strings.TrimSpace(normalized) == "" {
		return nil
	}

	for _, resp := range responses {
		keyword := strings.ToLower(resp.Keyword)
		// Empty keywords are rejected at creation; skip them anyway since
		// Contains(s, "") would match every message.
		if keyword == "" {
			continue
		}
		if strings.Contains(normalized, keyword) {
			return resp
		}
	}

	return nil
}
