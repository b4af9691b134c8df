package rules

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// plainText strips markup from a host supplied template. The result is
// unescaped again so it can be displayed as text by any UI layer.
func plainText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(trimmed)))
}
