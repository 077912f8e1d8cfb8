// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package buildcfg holds the installation paths and identifiers fixed at
// build time.
package buildcfg

//nolint:revive,stylecheck
const (
	PACKAGE_NAME    = "fw32"
	PACKAGE_VERSION = "1.0.0"

	SYSCONFDIR = "/etc"
	BINDIR     = "/usr/bin"

	// FW32_ROOT is the default location of the 32-bit sandbox root.
	FW32_ROOT = "/usr/lib/fw32"
	// FW32_CONF_FILE is the default fw32 configuration file.
	FW32_CONF_FILE = SYSCONFDIR + "/fw32/fw32.conf"
	// PACMAN_CONF_FILE is the package manager configuration used for
	// every operation on the sandbox root.
	PACMAN_CONF_FILE = SYSCONFDIR + "/fw32/pacman-g2.conf"

	PACMAN_BIN  = BINDIR + "/pacman-g2"
	REPOMAN_BIN = BINDIR + "/repoman"
	FCCACHE_BIN = BINDIR + "/fc-cache"

	MOUNT_TABLE = "/proc/self/mounts"
	PASSWD_FILE = SYSCONFDIR + "/passwd"

	// ENV_PREFIX is prepended to environment variables bound to
	// command line flags.
	ENV_PREFIX = "FW32_"
)
