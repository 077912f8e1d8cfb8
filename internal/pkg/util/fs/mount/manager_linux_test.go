// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package mount

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/sys/unix"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/frugalware/fw32/internal/pkg/registry"
	"github.com/frugalware/fw32/internal/pkg/util/fault"
)

type call struct {
	Op     string
	Source string
	Target string
	Flags  uintptr
}

// fakeSyscalls records calls and keeps a mount table file in sync with
// the mounts it pretends to perform.
type fakeSyscalls struct {
	t       *testing.T
	table   string
	points  []string
	calls   []call
	failing map[string]error
}

func newFakeSyscalls(t *testing.T, preexisting ...string) *fakeSyscalls {
	f := &fakeSyscalls{
		t:       t,
		table:   filepath.Join(t.TempDir(), "mounts"),
		points:  preexisting,
		failing: map[string]error{},
	}
	f.write()
	return f
}

func (f *fakeSyscalls) write() {
	var b strings.Builder
	b.WriteString("/dev/sda1 / ext4 rw,relatime 0 0\n")
	for _, p := range f.points {
		fmt.Fprintf(&b, "/dev/sda1 %s ext4 rw,relatime 0 0\n", strings.ReplaceAll(p, " ", `\040`))
	}
	assert.NilError(f.t, os.WriteFile(f.table, []byte(b.String()), 0o644))
}

func (f *fakeSyscalls) Mount(source, target, _ string, flags uintptr, _ string) error {
	f.calls = append(f.calls, call{Op: "mount", Source: source, Target: target, Flags: flags})
	if err, ok := f.failing[target]; ok {
		return err
	}
	if flags&unix.MS_REMOUNT == 0 {
		f.points = append(f.points, target)
		f.write()
	}
	return nil
}

func (f *fakeSyscalls) Unmount(target string, flags int) error {
	f.calls = append(f.calls, call{Op: "umount", Target: target, Flags: uintptr(flags)})
	if err, ok := f.failing[target]; ok {
		return err
	}
	for i, p := range f.points {
		if p == target {
			f.points = append(f.points[:i], f.points[i+1:]...)
			f.write()
			return nil
		}
	}
	return unix.EINVAL
}

func (f *fakeSyscalls) targets(op string) []string {
	var targets []string
	for _, c := range f.calls {
		if c.Op == op && c.Flags&unix.MS_REMOUNT == 0 {
			targets = append(targets, c.Target)
		}
	}
	return targets
}

func newTestManager(t *testing.T, f *fakeSyscalls) (*Manager, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "fw32")
	assert.NilError(t, os.Mkdir(root, 0o755))
	return NewManager(root, f.table, registry.Default(), OptSyscalls(f)), root
}

func TestMountOne(t *testing.T) {
	f := newFakeSyscalls(t)
	m, root := newTestManager(t, f)

	assert.NilError(t, m.MountOne(registry.Entry{Source: "/usr/share/fonts", ReadOnly: true}))

	dest := filepath.Join(root, "usr/share/fonts")
	assert.Assert(t, is.Len(f.calls, 2))
	assert.Equal(t, f.calls[0], call{Op: "mount", Source: "/usr/share/fonts", Target: dest, Flags: unix.MS_BIND})
	assert.Equal(t, f.calls[1], call{Op: "mount", Target: dest, Flags: unix.MS_BIND | unix.MS_REMOUNT | unix.MS_RDONLY})

	fi, err := os.Stat(dest)
	assert.NilError(t, err)
	assert.Assert(t, fi.IsDir())

	// already mounted
	assert.NilError(t, m.MountOne(registry.Entry{Source: "/usr/share/fonts", ReadOnly: true}))
	assert.Assert(t, is.Len(f.calls, 2))
}

func TestMountOneReadWrite(t *testing.T) {
	f := newFakeSyscalls(t)
	m, root := newTestManager(t, f)

	assert.NilError(t, m.MountOne(registry.Entry{Source: "/home"}))
	assert.DeepEqual(t, f.calls, []call{
		{Op: "mount", Source: "/home", Target: filepath.Join(root, "home"), Flags: unix.MS_BIND},
	})
}

func TestMountOneFailure(t *testing.T) {
	f := newFakeSyscalls(t)
	m, root := newTestManager(t, f)
	dest := filepath.Join(root, "proc")
	f.failing[dest] = unix.EPERM

	err := m.MountOne(registry.Entry{Source: "/proc"})
	assert.Assert(t, errors.Is(err, fault.MountFailed))
	assert.Assert(t, errors.Is(err, unix.EPERM))
	assert.ErrorContains(t, err, dest)
}

func TestMountOneNotADirectory(t *testing.T) {
	f := newFakeSyscalls(t)
	m, root := newTestManager(t, f)
	assert.NilError(t, os.WriteFile(filepath.Join(root, "tmp"), nil, 0o644))

	err := m.MountOne(registry.Entry{Source: "/tmp"})
	assert.Assert(t, errors.Is(err, fault.NotADirectory))
	assert.Assert(t, is.Len(f.calls, 0))
}

func TestMountAllIdempotent(t *testing.T) {
	f := newFakeSyscalls(t)
	m, _ := newTestManager(t, f)

	assert.NilError(t, m.MountAll())
	first, err := m.Mounted()
	assert.NilError(t, err)
	assert.Equal(t, len(first), 19)
	calls := len(f.calls)

	assert.NilError(t, m.MountAll())
	second, err := m.Mounted()
	assert.NilError(t, err)
	assert.DeepEqual(t, second, first)
	assert.Equal(t, len(f.calls), calls)
}

func TestMountAllParentsFirst(t *testing.T) {
	f := newFakeSyscalls(t)
	m, root := newTestManager(t, f)

	assert.NilError(t, m.MountAll())

	mounted := map[string]bool{}
	for _, target := range f.targets("mount") {
		for p := filepath.Dir(target); p != root && p != "/"; p = filepath.Dir(p) {
			rel := strings.TrimPrefix(p, root)
			if isRegistered(m, rel) {
				assert.Assert(t, mounted[p], "%s mounted before its parent %s", target, p)
			}
		}
		mounted[target] = true
	}
}

func isRegistered(m *Manager, source string) bool {
	for _, e := range m.Registry().Entries(registry.All) {
		if e.Source == source {
			return true
		}
	}
	return false
}

func TestMountBase(t *testing.T) {
	f := newFakeSyscalls(t)
	m, root := newTestManager(t, f)

	assert.NilError(t, m.MountBase())
	assert.DeepEqual(t, f.targets("mount"), []string{
		filepath.Join(root, "proc"),
		filepath.Join(root, "sys"),
		filepath.Join(root, "dev"),
		filepath.Join(root, "tmp"),
		filepath.Join(root, "var/fst"),
		filepath.Join(root, "var/tmp"),
		filepath.Join(root, "var/cache/pacman-g2"),
	})
}

func TestUnmountAllChildrenFirst(t *testing.T) {
	f := newFakeSyscalls(t)
	m, root := newTestManager(t, f)

	assert.NilError(t, m.MountAll())
	// a mount not coming from the registry is reclaimed too
	f.points = append(f.points, filepath.Join(root, "opt/stale mount"))
	f.write()
	f.calls = nil

	assert.NilError(t, m.UnmountAll())

	unmounted := f.targets("umount")
	assert.Equal(t, len(unmounted), 20)
	for i, a := range unmounted {
		for _, b := range unmounted[i+1:] {
			assert.Assert(t, !strings.HasPrefix(b, a+"/"), "%s unmounted before its child %s", a, b)
		}
	}
	for _, c := range f.calls {
		assert.Equal(t, c.Flags, uintptr(unix.UMOUNT_NOFOLLOW))
	}

	points, err := m.Mounted()
	assert.NilError(t, err)
	assert.Assert(t, is.Len(points, 0))
}

func TestUnmountAllTolerated(t *testing.T) {
	f := newFakeSyscalls(t)
	m, root := newTestManager(t, f)
	gone := filepath.Join(root, "home")
	missing := filepath.Join(root, "media")
	f.points = []string{gone, missing}
	f.write()
	f.failing[gone] = unix.EINVAL
	f.failing[missing] = unix.ENOENT

	assert.NilError(t, m.UnmountAll())
	assert.Equal(t, len(f.targets("umount")), 2)
}

func TestUnmountAllBusy(t *testing.T) {
	f := newFakeSyscalls(t)
	m, root := newTestManager(t, f)
	assert.NilError(t, m.MountAll())
	busy := filepath.Join(root, "home")
	f.failing[busy] = unix.EBUSY

	err := m.UnmountAll()
	assert.Assert(t, errors.Is(err, fault.UnmountFailed))
	assert.Assert(t, errors.Is(err, unix.EBUSY))
	assert.ErrorContains(t, err, busy)
}

func TestUnmountAllIgnoresSiblings(t *testing.T) {
	f := newFakeSyscalls(t)
	m, root := newTestManager(t, f)
	f.points = []string{root + "foo/proc", root}
	f.write()

	assert.NilError(t, m.UnmountAll())
	assert.Assert(t, is.Len(f.calls, 0))
}

func TestCreateDirectories(t *testing.T) {
	f := newFakeSyscalls(t)
	m, root := newTestManager(t, f)

	assert.NilError(t, m.CreateDirectories())
	for _, e := range m.Registry().Entries(registry.All) {
		fi, err := os.Stat(filepath.Join(root, e.Source))
		assert.NilError(t, err)
		assert.Assert(t, fi.IsDir(), e.Source)
	}
	assert.Assert(t, is.Len(f.calls, 0))
}

func TestLiveMounts(t *testing.T) {
	f := newFakeSyscalls(t)
	m, root := newTestManager(t, f)
	assert.NilError(t, m.MountOne(registry.Entry{Source: "/home"}))

	live, err := m.LiveMounts()
	assert.NilError(t, err)
	assert.Assert(t, is.Len(live, 1))
	assert.Equal(t, live[0].Point, filepath.Join(root, "home"))
	assert.Equal(t, live[0].FSType, "ext4")
}
