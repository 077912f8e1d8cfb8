// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// Copyright (c) 2018, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package main

import (
	"os"

	"github.com/frugalware/fw32/cmd/internal/cli"
	"github.com/frugalware/fw32/internal/pkg/runtime/launch"
)

func main() {
	// fw32 re-executes itself to enter the sandbox
	if len(os.Args) > 1 && os.Args[1] == launch.HelperArg {
		launch.Child(os.Args[2:])
	}

	// In cmd/internal/cli/fw32.go
	cli.ExecuteFw32()
}
