// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package launch

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Personality is a Linux execution domain.
type Personality string

const (
	// PersonalityNative leaves the execution domain untouched.
	PersonalityNative Personality = "native"
	// PersonalityLinux32 reports a 32-bit machine to uname(2).
	PersonalityLinux32 Personality = "linux32"
)

// PER_LINUX32 from <linux/personality.h>.
const perLinux32 = 0x0008

// ParsePersonality returns the personality named s.
func ParsePersonality(s string) (Personality, error) {
	switch p := Personality(s); p {
	case PersonalityNative, PersonalityLinux32:
		return p, nil
	}
	return "", fmt.Errorf("unknown personality %q, must be %q or %q", s, PersonalityLinux32, PersonalityNative)
}

// apply sets the personality of the calling thread, which is inherited
// across execve. The caller must have locked its OS thread.
func (p Personality) apply() error {
	if p != PersonalityLinux32 {
		return nil
	}
	_, _, errno := unix.Syscall(unix.SYS_PERSONALITY, perLinux32, 0, 0)
	if errno != 0 {
		return fmt.Errorf("failed to set %s personality: %w", p, errno)
	}
	return nil
}
