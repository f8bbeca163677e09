package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStalePaths(t *testing.T) {
	remote := map[string]string{
		"a.txt":     "r1",
		"sub/b.txt": "r2",
		"old.txt":   "r3",
		"sub/c.txt": "r4",
	}
	local := map[string]struct{}{
		"a.txt":     {},
		"sub/b.txt": {},
		"new.txt":   {},
	}

	assert.Equal(t, []string{"old.txt", "sub/c.txt"}, StalePaths(remote, local))
}

func TestStalePaths_EmptyRemote(t *testing.T) {
	local := map[string]struct{}{"a.txt": {}}
	assert.Empty(t, StalePaths(map[string]string{}, local))
}

func TestStalePaths_EmptyLocal(t *testing.T) {
	remote := map[string]string{"b.txt": "r2", "a.txt": "r1"}
	assert.Equal(t, []string{"a.txt", "b.txt"}, StalePaths(remote, map[string]struct{}{}))
}

func TestStalePaths_EqualSets(t *testing.T) {
	remote := map[string]string{"a.txt": "r1", "sub/b.txt": "r2"}
	local := map[string]struct{}{"a.txt": {}, "sub/b.txt": {}}
	assert.Empty(t, StalePaths(remote, local))
}

func TestSortedPaths(t *testing.T) {
	paths := map[string]struct{}{
		"sub/b.txt": {},
		"a.txt":     {},
		"z.txt":     {},
	}
	assert.Equal(t, []string{"a.txt", "sub/b.txt", "z.txt"}, sortedPaths(paths))
}
