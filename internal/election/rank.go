package election

import (
	"slices"
	"strings"

	"github.com/arloliu/elector/types"
)

// Resolve sorts candidates and locates self in the result.
//
// The sort is lexicographic on the leaf names, which for zero-padded sequence
// suffixes is the coordination service's native allocation order. The input
// slice is not modified.
//
// Parameters:
//   - candidates: Candidate leaf names as listed from the election path
//   - self: The session's own candidate id
//
// Returns:
//   - []string: Sorted copy of candidates
//   - string: Id immediately preceding self, or "" when self sorts first
//   - error: types.ErrSelfNotFound if self is not in candidates
func Resolve(candidates []string, self string) ([]string, string, error) {
	sorted := slices.Clone(candidates)
	slices.Sort(sorted)

	idx, found := slices.BinarySearch(sorted, self)
	if !found || self == "" {
		return sorted, "", types.ErrSelfNotFound
	}

	if idx == 0 {
		return sorted, "", nil
	}

	return sorted, sorted[idx-1], nil
}

// FilterCandidates keeps only children carrying the candidate prefix.
//
// Foreign nodes under the election path (left by operators or other tools) are
// ignored so they can never be elected or watched.
func FilterCandidates(children []string, prefix string) []string {
	if prefix == "" {
		return slices.Clone(children)
	}

	out := make([]string, 0, len(children))
	for _, c := range children {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}

	return out
}

// Leader returns the first candidate of a sorted list, or "" for an empty list.
func Leader(sorted []string) string {
	if len(sorted) == 0 {
		return ""
	}

	return sorted[0]
}
