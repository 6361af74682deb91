package descriptor

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// sanitizeMarkup strips everything but harmless inline formatting from label
// and help text. Definitions are data files, so script or structural markup
// never survives loading.
func sanitizeMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(markupSanitizer().Sanitize(trimmed))
}

func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "u", "code", "small", "br", "abbr")
		policy.AllowAttrs("title").OnElements("abbr")
		markupPolicy = policy
	})
	return markupPolicy
}
