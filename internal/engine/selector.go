package engine

import "hash/fnv"

// sessionSeed derives a stable selector seed from a session id. FNV-1a keeps
// the choice well-defined across processes and platforms, unlike hashing a
// data structure's string form.
func sessionSeed(sessionID string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return h.Sum32()
}

// pickForSession deterministically selects one of the candidates for a
// session. The same session always gets the same statement, which keeps
// repeated enrichment stable instead of randomly churning.
func pickForSession(sessionID string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[int(sessionSeed(sessionID))%len(candidates)]
}
