// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/frugalware/fw32/docs"
	"github.com/frugalware/fw32/pkg/cmdline"
	"github.com/frugalware/fw32/pkg/sylog"
)

func init() {
	addCmdInit(func(cmdManager *cmdline.CommandManager) {
		cmdManager.RegisterCmd(RunCmd)
	})
	RunCmd.Flags().SetInterspersed(false)
}

// RunCmd runs a command chrooted in the sandbox as the invoking user.
var RunCmd = &cobra.Command{
	Args:                  cobra.ArbitraryArgs,
	DisableFlagsInUseLine: true,
	PreRun:                CheckSetuid,
	Run: func(cmd *cobra.Command, args []string) {
		err := newSandbox().RunInteractive(cmd.Context(), args)
		if err == nil {
			return
		}
		if code, ok := exitStatus(err); ok {
			sylog.Debugf("Command exited: %s", err)
			os.Exit(code)
		}
		fatal(cmd, err)
	},

	Use:     docs.RunUse,
	Short:   docs.RunShort,
	Long:    docs.RunLong,
	Example: docs.RunExample,
}
