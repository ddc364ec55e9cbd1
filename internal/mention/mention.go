// Package mention extracts @AgentName tokens from message text.
package mention

import "regexp"

// A valid mention is '@' followed by a letter, then letters, digits or
// underscores. The '@' must be at the start of the text or preceded by a
// character that is not a letter, digit, underscore or another '@', so
// email-like substrings (user@domain.com) and doubled sigils (@@Double)
// never match. The guard class is Unicode-aware: a word character in any
// script suppresses the mention.
var mentionRegex = regexp.MustCompile(`(?:^|[^@\p{L}\p{N}_])@([a-zA-Z][a-zA-Z0-9_]*)`)

// Parse returns the name of the first valid mention in content.
// It is a pure function: no state, no side effects.
func Parse(content string) (string, bool) {
	if content == "" {
		return "", false
	}
	m := mentionRegex.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}
