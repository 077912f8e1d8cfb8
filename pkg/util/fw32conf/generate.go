// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package fw32conf

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
)

// Generate writes the configuration c to out using the template tmpl,
// TemplateAsset is used when tmpl is empty.
func Generate(out io.Writer, tmpl string, c *File) error {
	if tmpl == "" {
		tmpl = TemplateAsset
	}

	t, err := template.New("fw32.conf").Funcs(template.FuncMap{
		"quote": strconv.Quote,
		"list":  quoteList,
	}).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("unable to parse template: %w", err)
	}

	if err := t.Execute(out, c); err != nil {
		return fmt.Errorf("unable to execute template: %w", err)
	}
	return nil
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

const TemplateAsset = `# FW32.CONF
# This is the configuration file of fw32. It controls where the 32-bit
# sandbox lives, which host tools manage it and which host directories are
# bound inside it. This file must be owned by root.

# SANDBOX ROOT: [STRING]
# DEFAULT: /usr/lib/fw32
# Host directory holding the sandbox root filesystem.
sandbox_root = {{ quote .SandboxRoot }}

# PACKAGE MANAGER: [STRING]
# DEFAULT: /usr/bin/pacman-g2
# Package manager run on the host against the sandbox root.
package_manager = {{ quote .PackageManager }}

# PACKAGE MANAGER CONFIG: [STRING]
# DEFAULT: /etc/fw32/pacman-g2.conf
# Configuration file given to the package manager.
package_manager_config = {{ quote .PackageManagerConfig }}

# REPOSITORY TOOL: [STRING]
# DEFAULT: /usr/bin/repoman
# Repository tool run inside the sandbox. A sandbox without it is not an
# error.
repository_tool = {{ quote .RepositoryTool }}

# FONT CACHE TOOL: [STRING]
# DEFAULT: /usr/bin/fc-cache
# Font cache tool run inside the sandbox after an upgrade.
font_cache_tool = {{ quote .FontCacheTool }}

# MOUNT TABLE: [STRING]
# DEFAULT: /proc/self/mounts
# Live mount table scanned to find the mounts under the sandbox root.
mount_table = {{ quote .MountTable }}

# DEFAULT PACKAGES: [STRING LIST]
# DEFAULT: ["chroot-core", "devel-core", "procps", "kbd", "psmisc", "less", "git", "man", "openssh"]
# Packages installed by create and refreshed by update.
default_packages = {{ list .DefaultPackages }}

# SETTLE DELAY: [DURATION]
# DEFAULT: 1s
# Pause after the package manager or the repository tool exits, before
# the sandbox mounts are torn down.
settle_delay = {{ quote .SettleDelay }}

# PERSONALITY: [linux32|native]
# DEFAULT: linux32
# Execution domain of the commands started by fw32.
personality = {{ quote .Personality }}

# HOST FILES: [STRING LIST]
# DEFAULT: ["/etc/resolv.conf", "/etc/services", "/etc/localtime"]
# Host files copied into the sandbox before the repository tool runs.
host_files = {{ list .HostFiles }}

# FST MARKERS: [STRING LIST]
# DEFAULT: ["/var/fst/current", "/var/fst/stable"]
# When one of these host paths exists, upgrade also updates the source
# tree with the repository tool.
fst_markers = {{ list .FSTMarkers }}

# BIND: [TABLE LIST]
# Extra host directories bound in the sandbox by mount-all and run, in
# addition to the built-in ones. Example:
#
# [[bind]]
# source = "/opt/games"
# read_only = true
{{- range .Bind }}

[[bind]]
source = {{ quote .Source }}
read_only = {{ .ReadOnly }}
{{- end }}
`
