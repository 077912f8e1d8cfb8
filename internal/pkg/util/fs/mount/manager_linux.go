// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package mount applies the bind mount registry to a sandbox root and
// reverses it from the live mount table.
package mount

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/frugalware/fw32/internal/pkg/registry"
	"github.com/frugalware/fw32/internal/pkg/util/fault"
	"github.com/frugalware/fw32/internal/pkg/util/fs"
	"github.com/frugalware/fw32/pkg/sylog"
	"github.com/frugalware/fw32/pkg/util/fs/proc"
)

// Syscalls is the set of system calls used by a Manager.
type Syscalls interface {
	Mount(source, target, fstype string, flags uintptr, data string) error
	Unmount(target string, flags int) error
}

type unixSyscalls struct{}

func (unixSyscalls) Mount(source, target, fstype string, flags uintptr, data string) error {
	return unix.Mount(source, target, fstype, flags, data)
}

func (unixSyscalls) Unmount(target string, flags int) error {
	return unix.Unmount(target, flags)
}

const (
	bindFlags   = unix.MS_BIND
	rdonlyFlags = unix.MS_BIND | unix.MS_REMOUNT | unix.MS_RDONLY
	umountFlags = unix.UMOUNT_NOFOLLOW
)

// Manager mounts registry entries under a sandbox root.
type Manager struct {
	root       string
	mountTable string
	registry   *registry.Registry
	sys        Syscalls
}

// Option configures a Manager.
type Option func(m *Manager)

// OptSyscalls replaces the system calls used by the manager.
func OptSyscalls(s Syscalls) Option {
	return func(m *Manager) {
		m.sys = s
	}
}

// NewManager returns a manager binding the entries of reg under root and
// reading the live mounts from the mount table at mountTable.
func NewManager(root, mountTable string, reg *registry.Registry, opts ...Option) *Manager {
	m := &Manager{
		root:       root,
		mountTable: mountTable,
		registry:   reg,
		sys:        unixSyscalls{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Root returns the sandbox root.
func (m *Manager) Root() string {
	return m.root
}

// Registry returns the registry applied by the manager.
func (m *Manager) Registry() *registry.Registry {
	return m.registry
}

// Destination returns the host path where e is mounted in the sandbox.
func (m *Manager) Destination(e registry.Entry) (string, error) {
	return fs.SandboxPath(m.root, e.Source)
}

// MountOne binds the host directory of e onto its sandbox destination,
// then remounts it read-only if requested. An already mounted destination
// is left untouched.
func (m *Manager) MountOne(e registry.Entry) error {
	dest, err := m.Destination(e)
	if err != nil {
		return fault.New(fault.MountFailed, e.Source, err)
	}

	mounted, err := proc.IsMounted(m.mountTable, dest)
	if err != nil {
		return fmt.Errorf("while checking mount point %s: %w", dest, err)
	} else if mounted {
		sylog.Debugf("%s already mounted, skipping", dest)
		return nil
	}

	if err := fs.EnsureDir(dest, 0o755); err != nil {
		return err
	}

	sylog.Debugf("Mounting %s to %s", e.Source, dest)
	if err := m.sys.Mount(e.Source, dest, "", bindFlags, ""); err != nil {
		return fault.New(fault.MountFailed, dest, err)
	}

	if e.ReadOnly {
		sylog.Debugf("Remounting %s read-only", dest)
		if err := m.sys.Mount("", dest, "", rdonlyFlags, ""); err != nil {
			return fault.New(fault.MountFailed, dest, err)
		}
	}
	return nil
}

// MountEntries mounts entries shallowest first.
func (m *Manager) MountEntries(entries []registry.Entry) error {
	bySource := make(map[string]registry.Entry, len(entries))
	sources := make([]string, 0, len(entries))
	for _, e := range entries {
		bySource[e.Source] = e
		sources = append(sources, e.Source)
	}

	SortAscending(sources)
	for _, s := range sources {
		if err := m.MountOne(bySource[s]); err != nil {
			return err
		}
	}
	return nil
}

// MountAll mounts the full profile.
func (m *Manager) MountAll() error {
	return m.MountEntries(m.registry.Entries(registry.All))
}

// MountBase mounts the base profile.
func (m *Manager) MountBase() error {
	return m.MountEntries(m.registry.Entries(registry.Base))
}

// Mounted returns the live mount points beneath the sandbox root, in
// mount table order.
func (m *Manager) Mounted() ([]string, error) {
	return proc.ListMountsUnderPrefix(m.mountTable, m.root)
}

// LiveMounts returns the live mount entries beneath the sandbox root.
func (m *Manager) LiveMounts() ([]proc.MountEntry, error) {
	entries, err := proc.GetMountEntries(m.mountTable)
	if err != nil {
		return nil, err
	}

	var live []proc.MountEntry
	for _, e := range entries {
		if proc.IsBeneath(e.Point, m.root) {
			live = append(live, e)
		}
	}
	return live, nil
}

// UnmountAll unmounts every live mount beneath the sandbox root, deepest
// first, whether or not it comes from the registry. Mount points already
// gone are skipped.
func (m *Manager) UnmountAll() error {
	points, err := m.Mounted()
	if err != nil {
		return fmt.Errorf("while listing mounts under %s: %w", m.root, err)
	}

	SortDescending(points)
	for _, p := range points {
		sylog.Debugf("Unmounting %s", p)
		err := m.sys.Unmount(p, umountFlags)
		if err == nil || errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ENOENT) {
			continue
		}
		return fault.New(fault.UnmountFailed, p, err)
	}
	return nil
}

// CreateDirectories creates the sandbox destination of every entry of the
// full profile.
func (m *Manager) CreateDirectories() error {
	for _, e := range m.registry.Entries(registry.All) {
		dest, err := m.Destination(e)
		if err != nil {
			return err
		}
		if err := fs.EnsureDir(dest, 0o755); err != nil {
			return err
		}
	}
	return nil
}
