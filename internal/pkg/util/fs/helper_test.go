// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"

	"github.com/frugalware/fw32/internal/pkg/util/fault"
)

func TestEnsureDir(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "a", "b", "c")

	assert.NilError(t, EnsureDir(target, 0o755))
	for _, d := range []string{"a", "a/b", "a/b/c"} {
		fi, err := os.Stat(filepath.Join(tmp, d))
		assert.NilError(t, err)
		assert.Assert(t, fi.IsDir(), "%s is not a directory", d)
		assert.Equal(t, fi.Mode().Perm()&0o700, os.FileMode(0o700))
	}

	// second call is a no-op
	assert.NilError(t, EnsureDir(target, 0o755))

	entries, err := os.ReadDir(filepath.Join(tmp, "a", "b"))
	assert.NilError(t, err)
	assert.Equal(t, len(entries), 1)
}

func TestEnsureDirNotADirectory(t *testing.T) {
	dir := fs.NewDir(t, "ensure", fs.WithFile("file", "content"))

	err := EnsureDir(filepath.Join(dir.Path(), "file", "sub"), 0o755)
	assert.Assert(t, errors.Is(err, fault.NotADirectory), "got %v", err)

	err = EnsureDir(filepath.Join(dir.Path(), "file"), 0o755)
	assert.Assert(t, errors.Is(err, fault.NotADirectory), "got %v", err)
}

func TestEnsureDirRelative(t *testing.T) {
	assert.ErrorContains(t, EnsureDir("relative/path", 0o755), "not an absolute path")
}

func TestRemoveTree(t *testing.T) {
	outside := fs.NewDir(t, "outside", fs.WithFile("keep", "do not remove"))
	root := fs.NewDir(t, "root",
		fs.WithDir("etc", fs.WithFile("passwd", "root:x:0:0::/root:/bin/sh\n")),
		fs.WithDir("usr", fs.WithDir("lib", fs.WithDir("deep"))),
		fs.WithSymlink("escape", outside.Path()),
	)

	assert.NilError(t, RemoveTree(root.Path()))

	exists, err := PathExists(root.Path())
	assert.NilError(t, err)
	assert.Assert(t, !exists)
	assert.Assert(t, IsFile(filepath.Join(outside.Path(), "keep")))
}

func TestRemoveTreeMissing(t *testing.T) {
	err := RemoveTree(filepath.Join(t.TempDir(), "missing"))
	assert.Assert(t, errors.Is(err, fault.FileTreeRemovalFailed))
}

func TestCopyFile(t *testing.T) {
	host := fs.NewDir(t, "host", fs.WithFile("resolv.conf", "nameserver 127.0.0.1\n"))
	root := t.TempDir()
	src := filepath.Join(host.Path(), "resolv.conf")

	assert.NilError(t, CopyFile(root, src, 0o644))

	b, err := os.ReadFile(filepath.Join(root, src))
	assert.NilError(t, err)
	assert.Equal(t, string(b), "nameserver 127.0.0.1\n")
}

func TestCopyFileSymlinkInSandbox(t *testing.T) {
	host := fs.NewDir(t, "host", fs.WithFile("services", "ssh 22/tcp\n"))
	victim := fs.NewDir(t, "victim")
	root := t.TempDir()
	src := filepath.Join(host.Path(), "services")

	// a symlink planted in the sandbox points to a host directory
	assert.NilError(t, EnsureDir(filepath.Join(root, filepath.Dir(host.Path())), 0o755))
	assert.NilError(t, os.Symlink(victim.Path(), filepath.Join(root, host.Path())))

	assert.NilError(t, CopyFile(root, src, 0o644))

	_, err := os.Stat(filepath.Join(victim.Path(), "services"))
	assert.Assert(t, os.IsNotExist(err), "file was written outside of the sandbox")
}

func TestSandboxPath(t *testing.T) {
	for _, target := range []string{"../run", "/run"} {
		t.Run(target, func(t *testing.T) {
			root := fs.NewDir(t, "root", fs.WithDir("run"), fs.WithDir("var"))
			assert.NilError(t, os.Symlink(target, filepath.Join(root.Path(), "var/run")))

			p, err := SandboxPath(root.Path(), "/var/run")
			assert.NilError(t, err)
			assert.Equal(t, p, filepath.Join(root.Path(), "run"))
		})
	}

	root := fs.NewDir(t, "root")
	p, err := SandboxPath(root.Path(), "/not/yet/created")
	assert.NilError(t, err)
	assert.Equal(t, p, filepath.Join(root.Path(), "not/yet/created"))
}

func TestDirSize(t *testing.T) {
	dir := fs.NewDir(t, "cache",
		fs.WithFile("a.fpm", "12345"),
		fs.WithDir("sub", fs.WithFile("b.fpm", "123")),
	)

	size, err := DirSize(dir.Path())
	assert.NilError(t, err)
	assert.Equal(t, size, int64(8))

	size, err = DirSize(filepath.Join(dir.Path(), "missing"))
	assert.NilError(t, err)
	assert.Equal(t, size, int64(0))
}
