package engine

import "strings"

// fallbackReply picks a canned reply when the generation backend is
// unavailable. Classification is a deterministic keyword scan, so service
// degradation is predictable rather than random.
func fallbackReply(message string) string {
	switch {
	case containsAny(message, greetingWords):
		return fallbackReplies["greeting"]
	case strings.Contains(message, "?"):
		return fallbackReplies["question"]
	case containsAny(message, objectionWords):
		return fallbackReplies["objection"]
	default:
		return fallbackReplies["other"]
	}
}
