package sync

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// StalePaths returns the remote paths with no local counterpart, sorted so
// deletions log and execute in a reproducible order. Pure set difference,
// local-only paths are upload candidates and never appear here.
func StalePaths(remote map[string]string, local map[string]struct{}) []string {
	remoteSet := mapset.NewThreadUnsafeSet[string]()
	for p := range remote {
		remoteSet.Add(p)
	}

	localSet := mapset.NewThreadUnsafeSet[string]()
	for p := range local {
		localSet.Add(p)
	}

	stale := remoteSet.Difference(localSet).ToSlice()
	sort.Strings(stale)
	return stale
}

// sortedPaths returns the set's members in lexical order.
func sortedPaths(paths map[string]struct{}) []string {
	out := make([]string, 0, len(paths))
	for p := range paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
