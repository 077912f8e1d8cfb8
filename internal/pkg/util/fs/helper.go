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
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/frugalware/fw32/internal/pkg/util/fault"
)

// IsFile check if name component is regular file.
func IsFile(name string) bool {
	info, err := os.Stat(name)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// IsDir check if name component is a directory.
func IsDir(name string) bool {
	info, err := os.Stat(name)
	if err != nil {
		return false
	}
	return info.Mode().IsDir()
}

// PathExists reports whether path exists. A missing path is not an error.
func PathExists(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SandboxPath returns the host path of path inside the sandbox rooted at
// root. Symlinks found under root are resolved as if root was "/", so the
// result never escapes root.
func SandboxPath(root, path string) (string, error) {
	p, err := securejoin.SecureJoin(root, path)
	if err != nil {
		return "", fmt.Errorf("while resolving %s in %s: %w", path, root, err)
	}
	return p, nil
}

// EnsureDir creates path and every missing parent with mode. Components
// which already exist must be directories, otherwise a NotADirectory
// error is returned. A component created concurrently is not an error.
func EnsureDir(path string, mode os.FileMode) error {
	path = filepath.Clean(path)
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s is not an absolute path", path)
	}

	for i := 1; i <= len(path); i++ {
		if i < len(path) && path[i] != filepath.Separator {
			continue
		}
		if err := ensureComponent(path[:i], mode); err != nil {
			return err
		}
	}
	return nil
}

func ensureComponent(dir string, mode os.FileMode) error {
	fi, err := os.Stat(dir)
	if err == nil {
		if !fi.IsDir() {
			return fault.New(fault.NotADirectory, dir, nil)
		}
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		if errors.Is(err, syscall.ENOTDIR) {
			return fault.New(fault.NotADirectory, dir, err)
		}
		return fmt.Errorf("while checking %s: %w", dir, err)
	}

	if err := os.Mkdir(dir, mode); err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// RemoveTree removes root and everything below it, children first. Symbolic
// links are removed and never followed. The first failure stops the removal
// and is returned as a FileTreeRemovalFailed error.
func RemoveTree(root string) error {
	if err := removeTree(root); err != nil {
		return fault.New(fault.FileTreeRemovalFailed, root, err)
	}
	return nil
}

func removeTree(path string) error {
	fi, err := os.Lstat(path)
	if err != nil {
		return err
	}

	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := removeTree(filepath.Join(path, e.Name())); err != nil {
				return err
			}
		}
	}

	return os.Remove(path)
}

// CopyFile copies the content of the host file src, following symlinks,
// into the sandbox rooted at root at the same absolute location. Missing
// parent directories are created.
func CopyFile(root, src string, mode os.FileMode) error {
	dst, err := SandboxPath(root, src)
	if err != nil {
		return err
	}
	if err := EnsureDir(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s for reading: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("while copying %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

// DirSize returns the cumulated size of the regular files below path.
func DirSize(path string) (int64, error) {
	var size int64

	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	return size, err
}
