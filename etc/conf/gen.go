// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// Copyright (c) 2018-2021, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Command gen writes the default fw32.conf shipped in packages.
package main

import (
	"fmt"
	"os"

	"github.com/frugalware/fw32/internal/pkg/confgen"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Println("Usage: go run ./etc/conf [infile] <outfile>")
		os.Exit(1)
	}
	if err := confgen.Gen(os.Args[1:]); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
