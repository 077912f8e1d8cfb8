// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package launch

import (
	"fmt"
	"os"
	"syscall"
)

// missingCode is the exit status of a helper which could not find or
// execute the requested command.
const missingCode = int(syscall.ENOENT)

// Result is the termination status of a helper process.
type Result struct {
	Exited   bool
	ExitCode int
	Signal   syscall.Signal
}

// ResultFromState classifies the state of a terminated process.
func ResultFromState(ps *os.ProcessState) Result {
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok {
		switch {
		case ws.Exited():
			return Result{Exited: true, ExitCode: ws.ExitStatus()}
		case ws.Signaled():
			return Result{Signal: ws.Signal()}
		}
	}
	return Result{Exited: ps.Exited(), ExitCode: ps.ExitCode()}
}

// Missing reports whether the command was not found in the sandbox.
func (r Result) Missing() bool {
	return r.Exited && r.ExitCode == missingCode
}

// Success reports whether the command exited with status 0, or was not
// found when allowMissing is set.
func (r Result) Success(allowMissing bool) bool {
	if r.Exited && r.ExitCode == 0 {
		return true
	}
	return allowMissing && r.Missing()
}

func (r Result) String() string {
	switch {
	case r.Signal != 0:
		return fmt.Sprintf("killed by signal %d (%s)", int(r.Signal), r.Signal)
	case r.Exited:
		return fmt.Sprintf("exit status %d", r.ExitCode)
	}
	return "unknown termination status"
}

// ExitError is returned when a command did not terminate successfully.
type ExitError struct {
	Result
}

func (e *ExitError) Error() string {
	if e.Missing() {
		return fmt.Sprintf("%s: %s", e.Result, syscall.ENOENT)
	}
	return e.Result.String()
}
