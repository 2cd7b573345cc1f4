// Package sets provides the two primitives the similarity engine is
// built on: ascending-sorted id arrays with merge-join intersection,
// and a bounded min-heap keyed by score. Both are in-memory only,
// owned by the engine for the duration of one batch.
package sets

import "sort"

// SortedSet is an ascending-sorted array of buyer (or product) ids,
// supporting merge-join intersection against another SortedSet.
type SortedSet []string

// NewSortedSet builds a SortedSet from an unordered, possibly
// duplicate-containing slice of ids.
func NewSortedSet(ids []string) SortedSet {
	uniq := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		uniq[id] = struct{}{}
	}
	out := make(SortedSet, 0, len(uniq))
	for id := range uniq {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the set's cardinality.
func (s SortedSet) Len() int { return len(s) }

// IntersectCount performs a linear merge-join intersection against
// other, returning the exact intersection count.
func (s SortedSet) IntersectCount(other SortedSet) int {
	count, _ := s.IntersectWithEarlyExit(other, -1)
	return count
}

// IntersectWithEarlyExit performs a linear merge-join intersection with
// an early-exit contract: given a threshold K (K < 0 disables early
// exit), it returns (count, earlyExit) where earlyExit is true iff the
// total intersection is strictly less than K — a negative signal that
// the pair is not viable. When earlyExit is true, count is not the
// exact intersection size; callers must not use it. Otherwise the
// merge runs to completion and count is exact.
//
// The early-exit check fires once the shorter remaining suffix is too
// short to possibly reach K even under perfect overlap — this keeps
// the bound tight without scanning ahead.
func (s SortedSet) IntersectWithEarlyExit(other SortedSet, k int) (count int, earlyExit bool) {
	i, j := 0, 0
	for i < len(s) && j < len(other) {
		if k >= 0 {
			remaining := count + min(len(s)-i, len(other)-j)
			if remaining < k {
				return count, true
			}
		}
		switch {
		case s[i] == other[j]:
			count++
			i++
			j++
		case s[i] < other[j]:
			i++
		default:
			j++
		}
	}
	if k >= 0 && count < k {
		return count, true
	}
	return count, false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
