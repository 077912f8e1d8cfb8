// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package proc reads the kernel mount table.
package proc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// deletedMarker is appended by the kernel, already escaped, to a mount
// point whose backing directory was removed.
const deletedMarker = `\040(deleted)`

// MountEntry is one record of a /proc/self/mounts formatted table.
type MountEntry struct {
	Source  string
	Point   string
	FSType  string
	Options []string
}

// ReadOnly reports whether the mount carries the "ro" option.
func (e MountEntry) ReadOnly() bool {
	for _, o := range e.Options {
		if o == "ro" {
			return true
		}
	}
	return false
}

// ParseMountTable parses a mount table from r. Records with less than two
// fields are ignored. Escaped characters are decoded and a deleted marker
// is stripped from the mount point, so "/root/home\040(deleted)" yields
// "/root/home".
func ParseMountTable(r io.Reader) ([]MountEntry, error) {
	var entries []MountEntry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		e := MountEntry{
			Source: unescape(fields[0]),
			Point:  unescape(strings.TrimSuffix(fields[1], deletedMarker)),
		}
		if len(fields) > 2 {
			e.FSType = fields[2]
		}
		if len(fields) > 3 {
			e.Options = strings.Split(fields[3], ",")
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("while reading mount table: %w", err)
	}

	return entries, nil
}

// GetMountEntries returns all entries of the mount table at path.
func GetMountEntries(path string) ([]MountEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't open %s: %w", path, err)
	}
	defer f.Close()

	return ParseMountTable(f)
}

// ListMountsUnderPrefix returns, in mount table order, the mount points of
// the table at path which are located strictly beneath prefix. The prefix
// is compared on path components: "/usr/lib/fw32foo" is not beneath
// "/usr/lib/fw32".
func ListMountsUnderPrefix(path, prefix string) ([]string, error) {
	entries, err := GetMountEntries(path)
	if err != nil {
		return nil, err
	}

	var points []string
	for _, e := range entries {
		if IsBeneath(e.Point, prefix) {
			points = append(points, e.Point)
		}
	}
	return points, nil
}

// IsMounted reports whether point is a mount point in the table at path.
func IsMounted(path, point string) (bool, error) {
	entries, err := GetMountEntries(path)
	if err != nil {
		return false, err
	}

	point = filepath.Clean(point)
	for _, e := range entries {
		if e.Point == point {
			return true, nil
		}
	}
	return false, nil
}

// IsBeneath reports whether p is located strictly beneath dir.
func IsBeneath(p, dir string) bool {
	dir = filepath.Clean(dir)
	if dir == "/" {
		return len(p) > 1 && p[0] == '/'
	}
	return strings.HasPrefix(p, dir+"/") && len(p) > len(dir)+1
}

// unescape decodes the octal sequences (\040, \011, \012, \134) the kernel
// uses for whitespace and backslashes in mount table fields.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) && isOctal(s[i+1:i+4]) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isOctal(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '7' {
			return false
		}
	}
	return true
}
