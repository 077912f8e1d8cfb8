// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// Copyright (c) 2018-2022, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package priv

import (
	"fmt"
	"os"
	"syscall"
)

// Drop permanently switches the real, effective and saved IDs of the
// process to gid and uid. The group is changed first, a process which
// dropped its user ID can't change its group anymore.
// Since Go 1.16 syscall.Setresuid and syscall.Setresgid apply to all
// threads of the process.
func Drop(uid, gid int) error {
	if err := syscall.Setresgid(gid, gid, gid); err != nil {
		return fmt.Errorf("failed to set group ID to %d: %w", gid, err)
	}
	if err := syscall.Setresuid(uid, uid, uid); err != nil {
		return fmt.Errorf("failed to set user ID to %d: %w", uid, err)
	}
	return nil
}

// IsSetuid reports whether the process runs with the effective user ID
// root on behalf of another real user.
func IsSetuid() bool {
	return os.Getuid() != 0 && os.Geteuid() == 0
}

// IsRoot reports whether both the real and effective user IDs are root.
func IsRoot() bool {
	return os.Getuid() == 0 && os.Geteuid() == 0
}
