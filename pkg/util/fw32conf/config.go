// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// Copyright (c) 2019-2021, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package fw32conf reads and writes the fw32.conf configuration file.
package fw32conf

import (
	"time"

	"github.com/frugalware/fw32/internal/pkg/buildcfg"
)

// currentConfig corresponds to the current configuration, may
// be useful for packages requiring to share the same configuration.
var currentConfig *File

// SetCurrentConfig sets the provided configuration as the current
// configuration.
func SetCurrentConfig(config *File) {
	currentConfig = config
}

// GetCurrentConfig returns the current configuration if any.
func GetCurrentConfig() *File {
	return currentConfig
}

const (
	PersonalityLinux32 = "linux32"
	PersonalityNative  = "native"
)

// Bind is an extra host directory exposed in the sandbox.
type Bind struct {
	Source   string `toml:"source"`
	ReadOnly bool   `toml:"read_only"`
}

// File describes the fw32.conf file options
type File struct {
	SandboxRoot          string   `toml:"sandbox_root"`
	PackageManager       string   `toml:"package_manager"`
	PackageManagerConfig string   `toml:"package_manager_config"`
	RepositoryTool       string   `toml:"repository_tool"`
	FontCacheTool        string   `toml:"font_cache_tool"`
	MountTable           string   `toml:"mount_table"`
	DefaultPackages      []string `toml:"default_packages"`
	SettleDelay          string   `toml:"settle_delay"`
	Personality          string   `toml:"personality"`
	HostFiles            []string `toml:"host_files"`
	FSTMarkers           []string `toml:"fst_markers"`
	Bind                 []Bind   `toml:"bind"`
}

// Default returns the built-in configuration.
func Default() *File {
	return &File{
		SandboxRoot:          buildcfg.FW32_ROOT,
		PackageManager:       buildcfg.PACMAN_BIN,
		PackageManagerConfig: buildcfg.PACMAN_CONF_FILE,
		RepositoryTool:       buildcfg.REPOMAN_BIN,
		FontCacheTool:        buildcfg.FCCACHE_BIN,
		MountTable:           buildcfg.MOUNT_TABLE,
		DefaultPackages: []string{
			"chroot-core", "devel-core", "procps", "kbd",
			"psmisc", "less", "git", "man", "openssh",
		},
		SettleDelay: "1s",
		Personality: PersonalityLinux32,
		HostFiles:   []string{"/etc/resolv.conf", "/etc/services", "/etc/localtime"},
		FSTMarkers:  []string{"/var/fst/current", "/var/fst/stable"},
	}
}

// SettleDuration returns the pause following a package or repository
// operation. The value is validated by Parse.
func (f *File) SettleDuration() time.Duration {
	d, err := time.ParseDuration(f.SettleDelay)
	if err != nil {
		return time.Second
	}
	return d
}
