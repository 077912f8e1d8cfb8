// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package mount

import (
	"sort"
	"strings"
)

// Depth returns the number of path separators in path.
func Depth(path string) int {
	return strings.Count(path, "/")
}

// SortAscending sorts paths shallowest first so a parent is always placed
// before its children. Paths of equal depth keep their relative order.
func SortAscending(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return Depth(paths[i]) < Depth(paths[j])
	})
}

// SortDescending sorts paths deepest first so a child is always placed
// before its parent. Paths of equal depth keep their relative order.
func SortDescending(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return Depth(paths[i]) > Depth(paths[j])
	})
}
