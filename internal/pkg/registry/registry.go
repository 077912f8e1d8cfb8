// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package registry holds the catalogue of host directories bound into the
// sandbox root.
package registry

import (
	"fmt"
	"path/filepath"

	"github.com/frugalware/fw32/pkg/util/fs/proc"
)

// Entry is a host directory exposed at the same location in the sandbox.
type Entry struct {
	Source   string
	ReadOnly bool
}

func (e Entry) String() string {
	if e.ReadOnly {
		return e.Source + " (ro)"
	}
	return e.Source
}

// Profile names a subset of the registry.
type Profile string

const (
	// All is the profile of interactive and administrative sessions.
	All Profile = "all"
	// Base is the minimal profile used while the repository tool runs.
	Base Profile = "base"
)

const packageCache = "/var/cache/pacman-g2"

var allEntries = []Entry{
	{Source: "/proc"},
	{Source: "/sys"},
	{Source: "/dev"},
	{Source: "/etc"},
	{Source: "/dev/pts"},
	{Source: "/dev/shm"},
	{Source: "/run"},
	{Source: "/usr/share/kde", ReadOnly: true},
	{Source: "/usr/share/icons", ReadOnly: true},
	{Source: "/usr/share/fonts", ReadOnly: true},
	{Source: "/usr/share/themes", ReadOnly: true},
	{Source: packageCache},
	{Source: "/var/run"},
	{Source: "/var/fst"},
	{Source: "/media"},
	{Source: "/mnt"},
	{Source: "/home"},
	{Source: "/var/tmp"},
	{Source: "/tmp"},
}

var baseEntries = []Entry{
	{Source: "/proc"},
	{Source: "/sys"},
	{Source: "/dev"},
	{Source: "/var/fst"},
	{Source: packageCache},
	{Source: "/var/tmp"},
	{Source: "/tmp"},
}

// Registry is an immutable set of profiles.
type Registry struct {
	all  []Entry
	base []Entry
}

// Default returns the built-in registry.
func Default() *Registry {
	return &Registry{all: allEntries, base: baseEntries}
}

// New returns the built-in registry with extra entries appended to the
// All profile. Every entry of the result is validated against root.
func New(root string, extra []Entry) (*Registry, error) {
	all := make([]Entry, 0, len(allEntries)+len(extra))
	all = append(all, allEntries...)
	for _, e := range extra {
		e.Source = filepath.Clean(e.Source)
		all = append(all, e)
	}

	if err := Validate(all, root); err != nil {
		return nil, err
	}
	return &Registry{all: all, base: baseEntries}, nil
}

// Entries returns a copy of the entries of profile p. An unknown profile
// has no entries.
func (r *Registry) Entries(p Profile) []Entry {
	var src []Entry

	switch p {
	case All:
		src = r.all
	case Base:
		src = r.base
	}
	return append([]Entry(nil), src...)
}

// PackageCache returns the entry of the package manager cache, the only
// directory exposed while the package manager runs.
func (r *Registry) PackageCache() Entry {
	return Entry{Source: packageCache}
}

// ParseProfile returns the profile named s.
func ParseProfile(s string) (Profile, error) {
	switch p := Profile(s); p {
	case All, Base:
		return p, nil
	}
	return "", fmt.Errorf("unknown mount profile %q", s)
}

// Validate checks that every entry source is an absolute clean path,
// appears once, and is neither root nor located beneath root.
func Validate(entries []Entry, root string) error {
	root = filepath.Clean(root)
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		if !filepath.IsAbs(e.Source) {
			return fmt.Errorf("bind path %q is not absolute", e.Source)
		}
		if filepath.Clean(e.Source) != e.Source {
			return fmt.Errorf("bind path %q is not clean", e.Source)
		}
		if e.Source == "/" {
			return fmt.Errorf("bind path %q would hide the sandbox", e.Source)
		}
		if e.Source == root || proc.IsBeneath(e.Source, root) {
			return fmt.Errorf("bind path %s is located in sandbox root %s", e.Source, root)
		}
		if seen[e.Source] {
			return fmt.Errorf("bind path %s declared twice", e.Source)
		}
		seen[e.Source] = true
	}
	return nil
}
