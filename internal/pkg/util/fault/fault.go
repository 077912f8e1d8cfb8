// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package fault defines the error kinds reported by fw32 operations.
package fault

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure. A Kind is itself an error so it can
// be used directly as the target of errors.Is.
type Kind int

const (
	NotADirectory Kind = iota + 1
	MountFailed
	UnmountFailed
	NoSuchSandboxPath
	ChrootFailed
	ChdirFailed
	PrivilegeDropFailed
	CommandFailed
	PackageManagerFailed
	SandboxAlreadyExists
	SandboxMissing
	FileTreeRemovalFailed
)

var kindNames = map[Kind]string{
	NotADirectory:         "not a directory",
	MountFailed:           "mount failed",
	UnmountFailed:         "unmount failed",
	NoSuchSandboxPath:     "no such path in sandbox",
	ChrootFailed:          "chroot failed",
	ChdirFailed:           "chdir failed",
	PrivilegeDropFailed:   "privilege drop failed",
	CommandFailed:         "command failed",
	PackageManagerFailed:  "package manager failed",
	SandboxAlreadyExists:  "sandbox already exists",
	SandboxMissing:        "sandbox does not exist",
	FileTreeRemovalFailed: "file tree removal failed",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("unknown error kind %d", int(k))
}

// Error returns the kind name, it makes Kind usable as a sentinel.
func (k Kind) Error() string { return k.String() }

// Error is a failure of a given Kind on Path, optionally caused by Err.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

// New returns an Error of kind k for path, wrapping err.
func New(k Kind, path string, err error) error {
	return &Error{Kind: k, Path: path, Err: err}
}

// Error returns a human-readable representation of e.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the error wrapped by e.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the Kind of e or an Error of the same kind.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return t == e.Kind
	case *Error:
		return t.Kind == e.Kind
	}
	return false
}

// KindOf returns the kind of the first Error found in the chain of err,
// or 0 if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
