// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/frugalware/fw32/docs"
	"github.com/frugalware/fw32/internal/app/fw32"
	"github.com/frugalware/fw32/pkg/cmdline"
)

func init() {
	addCmdInit(func(cmdManager *cmdline.CommandManager) {
		cmdManager.RegisterCmd(InstallCmd)
		cmdManager.RegisterCmd(InstallPackageCmd)
		cmdManager.RegisterCmd(RemoveCmd)
		cmdManager.RegisterCmd(MergeCmd)
		cmdManager.RegisterCmd(CleanCmd)
	})
}

// packageRun returns a cobra Run function calling op with the command
// arguments on the configured sandbox.
func packageRun(op func(*fw32.Sandbox, context.Context, []string) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := op(newSandbox(), cmd.Context(), args); err != nil {
			fatal(cmd, err)
		}
	}
}

// InstallCmd installs packages from the repositories.
var InstallCmd = &cobra.Command{
	Args:                  cobra.MinimumNArgs(1),
	DisableFlagsInUseLine: true,
	PreRun:                CheckRoot,
	Run:                   packageRun((*fw32.Sandbox).Install),

	Use:     docs.InstallUse,
	Short:   docs.InstallShort,
	Long:    docs.InstallLong,
	Example: docs.InstallExample,
}

// InstallPackageCmd installs package files.
var InstallPackageCmd = &cobra.Command{
	Args:                  cobra.MinimumNArgs(1),
	DisableFlagsInUseLine: true,
	PreRun:                CheckRoot,
	Run:                   packageRun((*fw32.Sandbox).InstallPackage),

	Use:     docs.InstallPackageUse,
	Short:   docs.InstallPackageShort,
	Long:    docs.InstallPackageLong,
	Example: docs.InstallPackageExample,
}

// RemoveCmd removes packages.
var RemoveCmd = &cobra.Command{
	Args:                  cobra.MinimumNArgs(1),
	DisableFlagsInUseLine: true,
	PreRun:                CheckRoot,
	Run:                   packageRun((*fw32.Sandbox).Remove),

	Use:     docs.RemoveUse,
	Short:   docs.RemoveShort,
	Example: docs.RemoveExample,
}

// MergeCmd builds packages from the source tree.
var MergeCmd = &cobra.Command{
	Args:                  cobra.MinimumNArgs(1),
	DisableFlagsInUseLine: true,
	PreRun:                CheckRoot,
	Run:                   packageRun((*fw32.Sandbox).Merge),

	Use:     docs.MergeUse,
	Short:   docs.MergeShort,
	Long:    docs.MergeLong,
	Example: docs.MergeExample,
}

// CleanCmd empties the package cache.
var CleanCmd = &cobra.Command{
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	PreRun:                CheckRoot,
	Run: func(cmd *cobra.Command, args []string) {
		if err := newSandbox().Clean(cmd.Context()); err != nil {
			fatal(cmd, err)
		}
	},

	Use:     docs.CleanUse,
	Short:   docs.CleanShort,
	Long:    docs.CleanLong,
	Example: docs.CleanExample,
}
