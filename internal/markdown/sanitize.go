package markdown

import (
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer scrubs rendered article HTML with bluemonday's UGC policy.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds a sanitizer that keeps formatting, links, images and
// code language classes.
func NewSanitizer() *Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span")
	policy.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return &Sanitizer{policy: policy}
}

// Sanitize returns a cleaned copy of html. The policy is safe for
// concurrent use.
func (s *Sanitizer) Sanitize(html []byte) []byte {
	return s.policy.SanitizeBytes(html)
}
