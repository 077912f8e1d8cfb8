// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package require skips tests whose requirements are not met by the
// host running them.
package require

import (
	"os"
	"os/exec"
	"runtime"
	"sync"
	"testing"

	"golang.org/x/sys/unix"
)

// Root skips the current test unless it runs with root privileges.
func Root(t *testing.T) {
	t.Helper()
	if os.Geteuid() != 0 {
		t.Skip("test must run as root")
	}
}

// Unprivileged skips the current test when it runs with root privileges.
func Unprivileged(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("test must run as an unprivileged user")
	}
}

// Command skips the current test if name is not found in PATH.
func Command(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s command not found in PATH", name)
	}
}

var (
	hasLinux32     bool
	hasLinux32Once sync.Once
)

// Linux32 checks that the host can run 32-bit x86 code through the
// PER_LINUX32 personality, if not the current test is skipped with a
// message.
func Linux32(t *testing.T) {
	t.Helper()

	hasLinux32Once.Do(func() {
		if runtime.GOARCH != "amd64" {
			t.Logf("PER_LINUX32 only changes the machine name on amd64")
			return
		}
		// 0xffffffff queries the current personality without changing it
		_, _, errno := unix.Syscall(unix.SYS_PERSONALITY, 0xffffffff, 0, 0)
		hasLinux32 = errno == 0
		if !hasLinux32 {
			t.Logf("Could not query personality: %s", errno)
		}
	})
	if !hasLinux32 {
		t.Skipf("linux32 personality seems not supported")
	}
}
