// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package fault

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"gotest.tools/v3/assert"
)

func TestErrorIs(t *testing.T) {
	err := New(MountFailed, "/usr/lib/fw32/proc", syscall.EPERM)
	wrapped := fmt.Errorf("while mounting all: %w", err)

	assert.Assert(t, errors.Is(wrapped, MountFailed))
	assert.Assert(t, errors.Is(wrapped, &Error{Kind: MountFailed}))
	assert.Assert(t, !errors.Is(wrapped, UnmountFailed))
	assert.Assert(t, errors.Is(wrapped, syscall.EPERM))
	assert.Equal(t, KindOf(wrapped), MountFailed)
	assert.Equal(t, KindOf(errors.New("plain")), Kind(0))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "kind only",
			err:  New(SandboxMissing, "", nil),
			want: "sandbox does not exist",
		},
		{
			name: "with path",
			err:  New(SandboxAlreadyExists, "/usr/lib/fw32", nil),
			want: "sandbox already exists: /usr/lib/fw32",
		},
		{
			name: "with cause",
			err:  New(NotADirectory, "/a/b", syscall.ENOTDIR),
			want: "not a directory: /a/b: not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.err.Error(), tt.want)
		})
	}
}

func TestUnknownKind(t *testing.T) {
	assert.Equal(t, Kind(42).String(), "unknown error kind 42")
}
