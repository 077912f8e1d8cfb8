// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package launch

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/frugalware/fw32/internal/pkg/util/fault"
	"github.com/frugalware/fw32/internal/pkg/util/fs"
	"github.com/frugalware/fw32/pkg/sylog"
)

// Command describes a command run inside the sandbox.
type Command struct {
	// Path is the command, absolute or looked up in the sandbox PATH.
	Path string
	// Dir is the working directory, relative to the sandbox root.
	Dir string
	// DropPrivileges switches to the target user before the command runs.
	DropPrivileges bool
	// Args are passed after Path, which is argv[0].
	Args []string
	// AllowMissing tolerates a command absent from the sandbox.
	AllowMissing bool
}

// Runner starts helper processes for a sandbox root.
type Runner struct {
	root        string
	helper      string
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	uid         int
	gid         int
	personality Personality
}

// NewRunner returns a runner for the sandbox rooted at root.
func NewRunner(root string, opts ...Option) *Runner {
	r := defaultRunner(root)
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run executes c chrooted in the sandbox root and waits for it. The working
// directory must exist in the sandbox.
func (r *Runner) Run(ctx context.Context, c Command) error {
	dir, err := fs.SandboxPath(r.root, c.Dir)
	if err != nil || !fs.IsDir(dir) {
		return fault.New(fault.NoSuchSandboxPath, c.Dir, err)
	}

	args := []string{
		"--" + flagRoot, r.root,
		"--" + flagDir, c.Dir,
	}
	if c.DropPrivileges {
		args = append(args,
			"--"+flagDrop,
			"--"+flagUID, strconv.Itoa(r.uid),
			"--"+flagGID, strconv.Itoa(r.gid),
		)
	}

	sylog.Debugf("Running %s %v in %s (cwd %s)", c.Path, c.Args, r.root, c.Dir)
	return r.start(ctx, args, c.Path, c.Args, c.AllowMissing)
}

// RunHost executes path with args on the host, outside of the sandbox
// root, and waits for it. The command is not allowed to be missing.
func (r *Runner) RunHost(ctx context.Context, path string, args []string) error {
	sylog.Debugf("Running %s %v on the host", path, args)
	return r.start(ctx, []string{"--" + flagHost}, path, args, false)
}

func (r *Runner) start(ctx context.Context, helperArgs []string, path string, args []string, allowMissing bool) error {
	argv := make([]string, 0, len(helperArgs)+len(args)+5)
	argv = append(argv, HelperArg)
	argv = append(argv, helperArgs...)
	argv = append(argv, "--"+flagPersonality, string(r.personality), "--", path)
	argv = append(argv, args...)

	cmd := exec.CommandContext(ctx, r.helper, argv...)
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.Env = append(os.Environ(), sylog.GetEnvVar())

	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res := ResultFromState(exitErr.ProcessState)
		if res.Success(allowMissing) {
			if res.Missing() {
				sylog.Verbosef("%s not found, skipping", path)
			}
			return nil
		}
		return fault.New(fault.CommandFailed, path, &ExitError{Result: res})
	} else if err != nil {
		return fault.New(fault.CommandFailed, path, err)
	}
	return nil
}
