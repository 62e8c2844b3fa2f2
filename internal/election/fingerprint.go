package election

import "github.com/zeebo/xxh3"

// Fingerprint hashes a sorted candidate list into a stable 64-bit value.
//
// Each id is folded into the running xxh3 seed, so two sessions observing the
// same membership in the same order produce the same fingerprint without
// building an intermediate joined string. An empty list hashes to 0.
func Fingerprint(sorted []string) uint64 {
	if len(sorted) == 0 {
		return 0
	}

	var h uint64
	for _, id := range sorted {
		h = xxh3.HashStringSeed(id, h)
	}

	return h
}
