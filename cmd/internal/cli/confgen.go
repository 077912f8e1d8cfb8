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

	"github.com/frugalware/fw32/internal/pkg/confgen"
	"github.com/frugalware/fw32/pkg/cmdline"
)

func init() {
	addCmdInit(func(cmdManager *cmdline.CommandManager) {
		cmdManager.RegisterCmd(ConfGenCmd)
	})
}

// ConfGenCmd generates a fw32.conf file, optionally taking an
// existing fw32.conf for initial settings. Without arguments the
// default configuration is written to the standard output.
var ConfGenCmd = &cobra.Command{
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return confgen.GenTo(os.Stdout, "")
		}
		return confgen.Gen(args)
	},
	DisableFlagsInUseLine: true,

	Hidden:  true,
	Args:    cobra.MaximumNArgs(2),
	Use:     "confgen [[oldconffile] newconffile]",
	Short:   "Create a fw32.conf, optionally initializing settings from an old one",
	Example: "$ fw32 confgen /etc/fw32/fw32.conf fw32.conf.new",
}
