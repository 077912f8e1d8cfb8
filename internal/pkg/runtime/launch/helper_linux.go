// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package launch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/frugalware/fw32/internal/pkg/buildcfg"
	"github.com/frugalware/fw32/internal/pkg/util/fault"
	"github.com/frugalware/fw32/internal/pkg/util/priv"
	"github.com/frugalware/fw32/pkg/sylog"
	"github.com/frugalware/fw32/pkg/util/fw32conf"
)

// HelperArg is the first argument selecting the helper mode of fw32.
const HelperArg = "__fw32_sandbox_exec"

const (
	flagRoot        = "root"
	flagDir         = "dir"
	flagDrop        = "drop-privileges"
	flagUID         = "uid"
	flagGID         = "gid"
	flagHost        = "host"
	flagPersonality = "personality"
)

type request struct {
	root        string
	dir         string
	drop        bool
	uid         int
	gid         int
	host        bool
	personality string
	argv        []string
}

func parseRequest(args []string) (*request, error) {
	req := new(request)

	flags := pflag.NewFlagSet(HelperArg, pflag.ContinueOnError)
	flags.StringVar(&req.root, flagRoot, "", "sandbox root")
	flags.StringVar(&req.dir, flagDir, "/", "working directory in the sandbox")
	flags.BoolVar(&req.drop, flagDrop, false, "drop privileges")
	flags.IntVar(&req.uid, flagUID, -1, "target user ID")
	flags.IntVar(&req.gid, flagGID, -1, "target group ID")
	flags.BoolVar(&req.host, flagHost, false, "run on the host")
	flags.StringVar(&req.personality, flagPersonality, string(PersonalityNative), "execution domain")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	req.argv = flags.Args()
	switch {
	case len(req.argv) == 0:
		return nil, fmt.Errorf("no command to execute provided")
	case !req.host && req.root == "":
		return nil, fmt.Errorf("no sandbox root provided")
	case req.drop && (req.uid < 0 || req.gid < 0):
		return nil, fmt.Errorf("privilege drop requires a target user and group")
	}
	return req, nil
}

// trustedConfig is the only configuration a setuid caller gets the
// sandbox root from.
var trustedConfig = buildcfg.FW32_CONF_FILE

// trustedRoot returns the sandbox root of the trusted configuration, the
// built-in root when the file does not exist.
func trustedRoot() (string, error) {
	c, err := fw32conf.Parse(trustedConfig)
	if errors.Is(err, fs.ErrNotExist) {
		c = fw32conf.Default()
	} else if err != nil {
		return "", fmt.Errorf("while reading %s: %w", trustedConfig, err)
	}
	return filepath.Clean(c.SandboxRoot), nil
}

// confine restricts a request made by a setuid caller: the command runs
// chrooted in root as uid and gid, whatever the request asked for.
func (req *request) confine(uid, gid int, root string) error {
	switch {
	case req.host:
		return errors.New("host commands require root privileges")
	case !req.drop:
		return errors.New("commands must drop privileges")
	case filepath.Clean(req.root) != root:
		return fmt.Errorf("sandbox root %s is not the configured root %s", req.root, root)
	}
	req.uid, req.gid = uid, gid
	return nil
}

// commandEnv returns environ without the variables addressed to the
// helper.
func commandEnv(environ []string) []string {
	env := make([]string, 0, len(environ))
	for _, e := range environ {
		if strings.HasPrefix(e, sylog.LevelEnv+"=") {
			continue
		}
		env = append(env, e)
	}
	return env
}

// enter performs every step preceding the command execution: chroot,
// chdir and privilege drop, in this order.
func (req *request) enter() error {
	if req.host {
		return nil
	}

	if err := syscall.Chroot(req.root); err != nil {
		return fault.New(fault.ChrootFailed, req.root, err)
	}
	if err := syscall.Chdir(req.dir); err != nil {
		return fault.New(fault.ChdirFailed, req.dir, err)
	}
	if req.drop {
		if err := priv.Drop(req.uid, req.gid); err != nil {
			return fault.New(fault.PrivilegeDropFailed, "", err)
		}
	}
	return nil
}

// Child is the entry point of the helper process, it never returns. A
// failing step terminates with a fatal message, a command which cannot
// be executed terminates with the error number as exit status.
func Child(args []string) {
	runtime.LockOSThread()

	req, err := parseRequest(args)
	if err != nil {
		sylog.Fatalf("Bad helper request: %s", err)
	}

	if priv.IsSetuid() {
		root, err := trustedRoot()
		if err != nil {
			sylog.Fatalf("%s", err)
		}
		if err := req.confine(os.Getuid(), os.Getgid(), root); err != nil {
			sylog.Fatalf("Refused helper request: %s", err)
		}
	}

	p, err := ParsePersonality(req.personality)
	if err != nil {
		sylog.Fatalf("%s", err)
	}
	if err := p.apply(); err != nil {
		sylog.Fatalf("%s", err)
	}

	if err := req.enter(); err != nil {
		sylog.Fatalf("%s", err)
	}

	path, err := exec.LookPath(req.argv[0])
	if err != nil {
		sylog.Debugf("Could not find %s: %s", req.argv[0], err)
		if errors.Is(err, os.ErrPermission) {
			os.Exit(int(syscall.EACCES))
		}
		os.Exit(missingCode)
	}

	err = syscall.Exec(path, req.argv, commandEnv(os.Environ()))
	sylog.Debugf("Could not execute %s: %s", path, err)

	var errno syscall.Errno
	if errors.As(err, &errno) {
		os.Exit(int(errno))
	}
	os.Exit(missingCode)
}
