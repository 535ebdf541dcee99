// Package chat manages candidate evaluation conversations with a
// pinned job context and token-budgeted memory.
package chat

import "unicode/utf8"

// EstimateTokens approximates the token cost of text as ceil(runes/4).
// The estimate only needs to be consistent, not exact: the same text
// always costs the same against the budget.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}
