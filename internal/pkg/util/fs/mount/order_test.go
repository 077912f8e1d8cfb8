// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package mount

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

var orderPaths = []string{
	"/usr/share/fonts",
	"/dev/pts",
	"/proc",
	"/var/cache/pacman-g2",
	"/dev",
	"/dev/shm",
	"/usr/share/kde",
	"/tmp",
}

func TestDepth(t *testing.T) {
	tests := []struct {
		path  string
		depth int
	}{
		{"/", 1},
		{"/proc", 1},
		{"/dev/pts", 2},
		{"/usr/lib/fw32/usr/share/fonts", 6},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, Depth(tt.path), tt.depth, "path %q", tt.path)
	}
}

func TestSortAscending(t *testing.T) {
	paths := append([]string(nil), orderPaths...)
	SortAscending(paths)

	assert.DeepEqual(t, paths, []string{
		"/proc",
		"/dev",
		"/tmp",
		"/dev/pts",
		"/dev/shm",
		"/usr/share/fonts",
		"/var/cache/pacman-g2",
		"/usr/share/kde",
	})
}

func TestSortDescending(t *testing.T) {
	paths := append([]string(nil), orderPaths...)
	SortDescending(paths)

	assert.DeepEqual(t, paths, []string{
		"/usr/share/fonts",
		"/var/cache/pacman-g2",
		"/usr/share/kde",
		"/dev/pts",
		"/dev/shm",
		"/proc",
		"/dev",
		"/tmp",
	})
}

// isPrefix reports whether a is a parent directory of b.
func isPrefix(a, b string) bool {
	return strings.HasPrefix(b, a+"/")
}

func TestSortParentChildProperty(t *testing.T) {
	paths := []string{"/a/b/c", "/a", "/x/y", "/a/b", "/x", "/a/b/c/d", "/a/e"}

	asc := append([]string(nil), paths...)
	SortAscending(asc)
	desc := append([]string(nil), paths...)
	SortDescending(desc)

	index := func(list []string, p string) int {
		for i, v := range list {
			if v == p {
				return i
			}
		}
		return -1
	}

	for _, a := range paths {
		for _, b := range paths {
			if !isPrefix(a, b) {
				continue
			}
			assert.Assert(t, index(asc, a) < index(asc, b), "%s must be mounted before %s", a, b)
			assert.Assert(t, index(desc, b) < index(desc, a), "%s must be unmounted before %s", b, a)
		}
	}
}
