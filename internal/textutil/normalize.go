package textutil

import (
	"regexp"
	"strings"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize lowercases text and collapses every non-alphanumeric run into a
// single space. The result is the canonical content fingerprint used to key
// classification entries when a remote post id is unknown.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	collapsed := tokenSplitPattern.ReplaceAllString(lowered, " ")
	return strings.TrimSpace(collapsed)
}

// Tokenize splits text into lowercase tokens.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}

// ContainsKeyword reports whether any of the keywords appears as a token of
// text. Matching is case-insensitive and whole-token; keywords containing
// spaces match as token subsequences.
func ContainsKeyword(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return false
	}
	joined := " " + strings.Join(tokens, " ") + " "
	for _, keyword := range keywords {
		normalized := Normalize(keyword)
		if normalized == "" {
			continue
		}
		if strings.Contains(joined, " "+normalized+" ") {
			return true
		}
	}
	return false
}

// KeywordsIntersect reports whether the two keyword sets share at least one
// entry after normalization.
func KeywordsIntersect(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, keyword := range a {
		if normalized := Normalize(keyword); normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	for _, keyword := range b {
		if _, ok := set[Normalize(keyword)]; ok {
			return true
		}
	}
	return false
}
