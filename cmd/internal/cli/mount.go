// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"github.com/spf13/cobra"

	"github.com/frugalware/fw32/docs"
	"github.com/frugalware/fw32/pkg/cmdline"
)

func init() {
	addCmdInit(func(cmdManager *cmdline.CommandManager) {
		cmdManager.RegisterCmd(MountAllCmd)
		cmdManager.RegisterCmd(UnmountAllCmd)
	})
}

// MountAllCmd mounts every sandbox directory.
var MountAllCmd = &cobra.Command{
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	PreRun:                CheckRoot,
	Run: func(cmd *cobra.Command, args []string) {
		if err := newSandbox().MountAll(cmd.Context()); err != nil {
			fatal(cmd, err)
		}
	},

	Use:   docs.MountAllUse,
	Short: docs.MountAllShort,
}

// UnmountAllCmd unmounts everything beneath the sandbox root.
var UnmountAllCmd = &cobra.Command{
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	PreRun:                CheckRoot,
	Run: func(cmd *cobra.Command, args []string) {
		if err := newSandbox().UnmountAll(cmd.Context()); err != nil {
			fatal(cmd, err)
		}
	},

	Aliases: []string{"umount-all"},
	Use:     docs.UnmountAllUse,
	Short:   docs.UnmountAllShort,
	Long:    docs.UnmountAllLong,
}
