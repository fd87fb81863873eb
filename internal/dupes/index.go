package dupes

import (
	"fmt"
	"slices"
)

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Group is a read-only view of one fingerprint's membership. Paths is sorted.
// Only groups holding more than one path carry a visible label.
type Group struct {
	ID    int
	Paths []string
}

// Label returns the display label, or "" for singleton groups.
func (g Group) Label() string {
	if len(g.Paths) < 2 {
		return ""
	}
	return fmt.Sprintf("Group %d", g.ID)
}

// Index clusters paths by fingerprint. It is not safe for concurrent use; the
// single goroutine consuming job results is expected to own it.
type Index struct {
	members map[string]map[string]struct{}
	ids     map[string]int
	digests map[string]string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		members: make(map[string]map[string]struct{}),
		ids:     make(map[string]int),
		digests: make(map[string]string),
	}
}

// Record adds path to the group for dig, creating the group and assigning the
// next group number on first sight of the fingerprint. Re-recording a path
// under a different fingerprint moves it, so a path is never in two groups.
func (x *Index) Record(path, dig string) {
	if previous, ok := x.digests[path]; ok {
		if previous == dig {
			return
		}
		x.drop(path, previous)
	}

	set := x.members[dig]
	if set == nil {
		set = make(map[string]struct{})
		x.members[dig] = set
	}
	set[path] = struct{}{}
	x.digests[path] = dig

	if _, ok := x.ids[dig]; !ok {
		x.ids[dig] = len(x.ids) + 1
	}
}

// Remove retracts each path from whatever group holds it, deletes groups that
// become empty, and renumbers all surviving groups 1..N in lexical fingerprint
// order. Renumbering may change the number of groups untouched by the removal.
func (x *Index) Remove(paths []string) {
	for _, path := range paths {
		if dig, ok := x.digests[path]; ok {
			x.drop(path, dig)
		}
	}

	ordered := sortedKeys(x.members)
	x.ids = make(map[string]int, len(ordered))
	for i, dig := range ordered {
		x.ids[dig] = i + 1
	}
}

func (x *Index) drop(path, dig string) {
	delete(x.digests, path)
	set := x.members[dig]
	delete(set, path)
	if len(set) == 0 {
		delete(x.members, dig)
		delete(x.ids, dig)
	}
}

// DigestFor returns the recorded fingerprint for path, if any.
func (x *Index) DigestFor(path string) (string, bool) {
	dig, ok := x.digests[path]
	return dig, ok
}

// Len returns the number of groups, singletons included.
func (x *Index) Len() int {
	return len(x.members)
}

// Snapshot returns a read-only copy of every group keyed by fingerprint,
// suitable for rendering. Mutating the snapshot does not affect the index.
func (x *Index) Snapshot() map[string]Group {
	out := make(map[string]Group, len(x.members))
	for dig, set := range x.members {
		out[dig] = Group{
			ID:    x.ids[dig],
			Paths: sortedKeys(set),
		}
	}
	return out
}
