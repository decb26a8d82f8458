package services

import (
	"regexp"
	"strings"
)

// Sanitizer strips script blocks and HTML tags from user-supplied text
// before it is stored.
type Sanitizer struct {
	scriptPattern *regexp.Regexp
	tagPattern    *regexp.Regexp
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		scriptPattern: regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`),
		tagPattern:    regexp.MustCompile(`<[^>]*>`),
	}
}

func (s *Sanitizer) Clean(text string) string {
	if text == "" {
		return ""
	}
	text = s.scriptPattern.ReplaceAllString(text, "")
	text = s.tagPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
