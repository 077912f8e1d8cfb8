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
	"github.com/frugalware/fw32/pkg/sylog"
)

func init() {
	addCmdInit(func(cmdManager *cmdline.CommandManager) {
		cmdManager.RegisterCmd(CreateCmd)
		cmdManager.RegisterCmd(UpdateCmd)
		cmdManager.RegisterCmd(DeleteCmd)
		cmdManager.RegisterCmd(UpgradeCmd)
	})
}

// CreateCmd creates the sandbox.
var CreateCmd = &cobra.Command{
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	PreRun:                CheckRoot,
	Run: func(cmd *cobra.Command, args []string) {
		s := newSandbox()
		if err := s.Create(cmd.Context()); err != nil {
			fatal(cmd, err)
		}
		sylog.Infof("Sandbox %s created", s.Root())
	},

	Use:     docs.CreateUse,
	Short:   docs.CreateShort,
	Long:    docs.CreateLong,
	Example: docs.CreateExample,
}

// UpdateCmd refreshes the default packages.
var UpdateCmd = &cobra.Command{
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	PreRun:                CheckRoot,
	Run: func(cmd *cobra.Command, args []string) {
		if err := newSandbox().Update(cmd.Context()); err != nil {
			fatal(cmd, err)
		}
	},

	Use:     docs.UpdateUse,
	Short:   docs.UpdateShort,
	Long:    docs.UpdateLong,
	Example: docs.UpdateExample,
}

// DeleteCmd removes the sandbox.
var DeleteCmd = &cobra.Command{
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	PreRun:                CheckRoot,
	Run: func(cmd *cobra.Command, args []string) {
		s := newSandbox()
		if err := s.Delete(cmd.Context()); err != nil {
			fatal(cmd, err)
		}
		sylog.Infof("Sandbox %s deleted", s.Root())
	},

	Use:     docs.DeleteUse,
	Short:   docs.DeleteShort,
	Long:    docs.DeleteLong,
	Example: docs.DeleteExample,
}

// UpgradeCmd upgrades the sandbox packages.
var UpgradeCmd = &cobra.Command{
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	PreRun:                CheckRoot,
	Run: func(cmd *cobra.Command, args []string) {
		if err := newSandbox().Upgrade(cmd.Context()); err != nil {
			fatal(cmd, err)
		}
	},

	Use:     docs.UpgradeUse,
	Short:   docs.UpgradeShort,
	Long:    docs.UpgradeLong,
	Example: docs.UpgradeExample,
}
