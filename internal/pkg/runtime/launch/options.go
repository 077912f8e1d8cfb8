// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package launch runs commands inside, or next to, a sandbox root through
// the fw32 helper process.
//
// The helper is the fw32 binary itself re-executed with HelperArg as its
// first argument. It enters the sandbox, drops privileges if requested and
// replaces itself with the requested command. The parent only observes the
// exit status of the helper.
package launch

import (
	"io"
	"os"
)

// DefaultHelper is the binary re-executed as the helper process.
const DefaultHelper = "/proc/self/exe"

// Option configures a Runner.
type Option func(r *Runner)

// OptHelper sets the path of the helper binary.
func OptHelper(path string) Option {
	return func(r *Runner) {
		r.helper = path
	}
}

// OptStdio sets the standard streams of the commands.
func OptStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// OptTargetIDs sets the user and group a command is switched to when it
// drops privileges. The default is the real user and group of fw32.
func OptTargetIDs(uid, gid int) Option {
	return func(r *Runner) {
		r.uid = uid
		r.gid = gid
	}
}

// OptPersonality sets the execution domain of the commands.
func OptPersonality(p Personality) Option {
	return func(r *Runner) {
		r.personality = p
	}
}

func defaultRunner(root string) *Runner {
	return &Runner{
		root:        root,
		helper:      DefaultHelper,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		uid:         os.Getuid(),
		gid:         os.Getgid(),
		personality: PersonalityNative,
	}
}
