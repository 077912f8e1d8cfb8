// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package fw32

import (
	"context"

	units "github.com/docker/go-units"
	"github.com/pkg/errors"

	"github.com/frugalware/fw32/internal/pkg/registry"
	"github.com/frugalware/fw32/internal/pkg/runtime/launch"
	"github.com/frugalware/fw32/internal/pkg/util/fault"
	"github.com/frugalware/fw32/internal/pkg/util/fs"
	"github.com/frugalware/fw32/internal/pkg/util/user"
	"github.com/frugalware/fw32/pkg/sylog"
)

const defaultShell = "/bin/sh"

// Create creates the sandbox root and installs the default packages in it.
func (s *Sandbox) Create(ctx context.Context) error {
	exists, err := s.exists()
	if err != nil {
		return err
	} else if exists {
		return fault.New(fault.SandboxAlreadyExists, s.cfg.SandboxRoot, nil)
	}

	if err := s.mounts.CreateDirectories(); err != nil {
		return errors.Wrap(err, "while creating sandbox directories")
	}

	sylog.Infof("Installing default packages in %s", s.cfg.SandboxRoot)
	return s.PackageOperation(ctx, append([]string{"-Sy"}, s.cfg.DefaultPackages...))
}

// Update recreates the sandbox directories and refreshes the default
// packages.
func (s *Sandbox) Update(ctx context.Context) error {
	if err := s.requireSandbox(); err != nil {
		return err
	}

	if err := s.mounts.CreateDirectories(); err != nil {
		return errors.Wrap(err, "while creating sandbox directories")
	}

	return s.PackageOperation(ctx, append([]string{"-Syf"}, s.cfg.DefaultPackages...))
}

// Delete unmounts everything under the sandbox root and removes it.
func (s *Sandbox) Delete(_ context.Context) error {
	if err := s.mounts.UnmountAll(); err != nil {
		return errors.Wrap(err, "while unmounting sandbox directories")
	}

	// never walk into a host directory which is still bound
	points, err := s.mounts.Mounted()
	if err != nil {
		return errors.Wrap(err, "while listing sandbox mounts")
	} else if len(points) > 0 {
		return fault.New(fault.UnmountFailed, points[0], errors.New("still mounted"))
	}

	sylog.Infof("Removing %s", s.cfg.SandboxRoot)
	return fs.RemoveTree(s.cfg.SandboxRoot)
}

// Upgrade upgrades every package of the sandbox, then the source tree when
// the host has one, and refreshes the font cache.
func (s *Sandbox) Upgrade(ctx context.Context) error {
	if err := s.requireSandbox(); err != nil {
		return err
	}

	if err := s.PackageOperation(ctx, []string{"-Syuf"}); err != nil {
		return err
	}

	if s.hasSourceTree() {
		if err := s.RepositoryOperation(ctx, []string{"update"}); err != nil {
			return err
		}
		if err := s.RepositoryOperation(ctx, []string{"upgrade"}); err != nil {
			return err
		}
	}

	err := s.runner.Run(ctx, launch.Command{
		Path:         s.cfg.FontCacheTool,
		Dir:          "/",
		Args:         []string{"--force", "--system-only"},
		AllowMissing: true,
	})
	return errors.Wrapf(err, "while running %s", s.cfg.FontCacheTool)
}

func (s *Sandbox) hasSourceTree() bool {
	for _, m := range s.cfg.FSTMarkers {
		if exists, _ := fs.PathExists(m); exists {
			sylog.Debugf("Found source tree marker %s", m)
			return true
		}
	}
	return false
}

// Merge updates the source tree and merges args with the repository tool.
func (s *Sandbox) Merge(ctx context.Context, args []string) error {
	if err := s.requireSandbox(); err != nil {
		return err
	}

	if err := s.RepositoryOperation(ctx, []string{"update"}); err != nil {
		return err
	}
	return s.RepositoryOperation(ctx, append([]string{"merge"}, args...))
}

// Install installs packages from the repositories.
func (s *Sandbox) Install(ctx context.Context, packages []string) error {
	return s.packages(ctx, packages, "-Syf")
}

// InstallPackage installs package files.
func (s *Sandbox) InstallPackage(ctx context.Context, files []string) error {
	return s.packages(ctx, files, "-Uf")
}

// Remove removes packages and their unneeded dependencies.
func (s *Sandbox) Remove(ctx context.Context, packages []string) error {
	return s.packages(ctx, packages, "-Rsc")
}

func (s *Sandbox) packages(ctx context.Context, args []string, op string) error {
	if err := s.requireSandbox(); err != nil {
		return err
	}

	argv := make([]string, 0, len(args)+1)
	argv = append(argv, args...)
	return s.PackageOperation(ctx, append(argv, op))
}

// Clean removes outdated packages from the package cache.
func (s *Sandbox) Clean(ctx context.Context) error {
	if err := s.requireSandbox(); err != nil {
		return err
	}

	cache := s.cacheDir
	before, err := fs.DirSize(cache)
	if err != nil {
		return errors.Wrapf(err, "while computing size of %s", cache)
	}

	if err := s.PackageOperation(ctx, []string{"-Sc"}); err != nil {
		return err
	}

	after, err := fs.DirSize(cache)
	if err != nil {
		return errors.Wrapf(err, "while computing size of %s", cache)
	}

	sylog.Infof("Package cache %s: %s before, %s after, %s freed",
		cache,
		units.HumanSize(float64(before)),
		units.HumanSize(float64(after)),
		units.HumanSize(float64(before-after)),
	)
	return nil
}

// MountAll mounts the full profile.
func (s *Sandbox) MountAll(_ context.Context) error {
	return errors.Wrap(s.mounts.MountAll(), "while mounting sandbox directories")
}

// UnmountAll unmounts everything under the sandbox root.
func (s *Sandbox) UnmountAll(_ context.Context) error {
	return errors.Wrap(s.mounts.UnmountAll(), "while unmounting sandbox directories")
}

// RunInteractive runs args, or the login shell of the invoking user when
// args is empty, chrooted in the sandbox with the privileges of the
// invoking user. The current mounts are kept, the full profile is mounted
// in addition.
func (s *Sandbox) RunInteractive(ctx context.Context, args []string) error {
	if err := s.requireSandbox(); err != nil {
		return err
	}

	if err := s.mounts.MountAll(); err != nil {
		return errors.Wrap(err, "while mounting sandbox directories")
	}

	u, err := user.GetPwUID(s.passwd, s.uid)
	if err != nil {
		return errors.Wrap(err, "failed to retrieve password entry")
	}

	cwd, err := s.getwd()
	if err != nil {
		return errors.Wrap(err, "while getting current working directory")
	}

	dir := u.Dir
	if p, err := fs.SandboxPath(s.cfg.SandboxRoot, cwd); err == nil && fs.IsDir(p) {
		dir = cwd
	} else {
		sylog.Verbosef("%s not found in the sandbox, starting in %s", cwd, dir)
	}

	c := launch.Command{
		Dir:            dir,
		DropPrivileges: true,
	}
	if len(args) == 0 {
		c.Path = u.Shell
		if c.Path == "" {
			c.Path = defaultShell
		}
	} else {
		c.Path = args[0]
		c.Args = args[1:]
	}

	return s.runner.Run(ctx, c)
}

// MountStatus is the state of a registry entry in the sandbox.
type MountStatus struct {
	Entry       registry.Entry
	Destination string
	Mounted     bool
	// ReadOnly is the live state of the mount.
	ReadOnly bool
}

// Status describes the state of the sandbox.
type Status struct {
	Root      string
	Exists    bool
	Mounts    []MountStatus
	Unknown   []string
	CacheSize int64
}

// Status returns the state of the sandbox without modifying it.
func (s *Sandbox) Status(_ context.Context) (*Status, error) {
	exists, err := s.exists()
	if err != nil {
		return nil, err
	}
	st := &Status{Root: s.cfg.SandboxRoot, Exists: exists}

	live, err := s.mounts.LiveMounts()
	if err != nil {
		return nil, errors.Wrap(err, "while reading mount table")
	}
	byPoint := make(map[string]bool, len(live))
	readOnly := make(map[string]bool, len(live))
	for _, l := range live {
		byPoint[l.Point] = true
		readOnly[l.Point] = l.ReadOnly()
	}

	known := make(map[string]bool)
	for _, e := range s.registry.Entries(registry.All) {
		dest, err := s.mounts.Destination(e)
		if err != nil {
			return nil, err
		}
		known[dest] = true
		st.Mounts = append(st.Mounts, MountStatus{
			Entry:       e,
			Destination: dest,
			Mounted:     byPoint[dest],
			ReadOnly:    readOnly[dest],
		})
	}
	for _, l := range live {
		if !known[l.Point] {
			st.Unknown = append(st.Unknown, l.Point)
		}
	}

	st.CacheSize, err = fs.DirSize(s.cacheDir)
	if err != nil {
		sylog.Warningf("While computing package cache size: %s", err)
	}
	return st, nil
}
