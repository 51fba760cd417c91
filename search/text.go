package search

import "strings"

// normalize lowercases and trims text for matching.
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// tokenize splits text into lowercase words with surrounding punctuation trimmed.
func tokenize(text string) []string {
	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}&/"))
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}

	return tokens
}

// fuzzyMatch reports whether every rune of query appears in target in
// order, not necessarily contiguously.
func fuzzyMatch(query, target string) bool {
	if query == "" {
		return false
	}
	qr := []rune(query)
	i := 0
	for _, r := range target {
		if r == qr[i] {
			i++
			if i == len(qr) {
				return true
			}
		}
	}
	return false
}

// containsAllTokens checks whether every query token appears somewhere in text.
func containsAllTokens(text string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

// anyToken reports whether match holds for any token.
func anyToken(tokens []string, match func(string) bool) bool {
	for _, t := range tokens {
		if match(t) {
			return true
		}
	}
	return false
}
