// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package launch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/fs"

	"github.com/frugalware/fw32/internal/pkg/test/tool/require"
	"github.com/frugalware/fw32/internal/pkg/util/fault"
	"github.com/frugalware/fw32/pkg/sylog"
)

// TestMain turns the test binary into the helper process when it is
// re-executed by a Runner.
func TestMain(m *testing.M) {
	if len(os.Args) > 1 && os.Args[1] == HelperArg {
		Child(os.Args[2:])
	}
	os.Exit(m.Run())
}

func newTestRunner(t *testing.T, root string) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	self, err := os.Executable()
	assert.NilError(t, err)

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	r := NewRunner(root, OptHelper(self), OptStdio(nil, stdout, stderr))
	return r, stdout, stderr
}

func exitResult(t *testing.T, err error) Result {
	t.Helper()

	var exitErr *ExitError
	assert.Assert(t, errors.As(err, &exitErr), "expected an exit error, got %v", err)
	return exitErr.Result
}

func TestResultSuccess(t *testing.T) {
	tests := []struct {
		name         string
		result       Result
		allowMissing bool
		success      bool
	}{
		{"zero", Result{Exited: true}, false, true},
		{"zero allow missing", Result{Exited: true}, true, true},
		{"failure", Result{Exited: true, ExitCode: 1}, true, false},
		{"missing", Result{Exited: true, ExitCode: missingCode}, false, false},
		{"missing allowed", Result{Exited: true, ExitCode: missingCode}, true, true},
		{"signaled", Result{Signal: 9}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.result.Success(tt.allowMissing), tt.success)
		})
	}
}

func TestResultString(t *testing.T) {
	assert.Equal(t, Result{Exited: true, ExitCode: 3}.String(), "exit status 3")
	assert.Equal(t, Result{Signal: 9}.String(), "killed by signal 9 (killed)")
	assert.Equal(t, (&ExitError{Result{Exited: true, ExitCode: missingCode}}).Error(), "exit status 2: no such file or directory")
}

func TestRunHost(t *testing.T) {
	r, stdout, _ := newTestRunner(t, t.TempDir())
	ctx := context.Background()

	assert.NilError(t, r.RunHost(ctx, "/bin/sh", []string{"-c", "echo running; exit 0"}))
	assert.Equal(t, stdout.String(), "running\n")

	// bare names are looked up in PATH
	assert.NilError(t, r.RunHost(ctx, "sh", []string{"-c", "exit 0"}))

	err := r.RunHost(ctx, "/bin/sh", []string{"-c", "exit 3"})
	assert.Assert(t, errors.Is(err, fault.CommandFailed))
	assert.Equal(t, exitResult(t, err).ExitCode, 3)
}

func TestRunHostPersonality(t *testing.T) {
	require.Linux32(t)
	require.Command(t, "uname")

	self, err := os.Executable()
	assert.NilError(t, err)
	ctx := context.Background()

	for _, tt := range []struct {
		p    Personality
		want string
	}{
		{PersonalityNative, "x86_64\n"},
		{PersonalityLinux32, "i686\n"},
	} {
		stdout := new(bytes.Buffer)
		r := NewRunner(t.TempDir(), OptHelper(self), OptStdio(nil, stdout, nil), OptPersonality(tt.p))
		assert.NilError(t, r.RunHost(ctx, "uname", []string{"-m"}))
		assert.Equal(t, stdout.String(), tt.want, "personality %s", tt.p)
	}
}

func TestMissingCommandClassification(t *testing.T) {
	r, _, _ := newTestRunner(t, t.TempDir())
	ctx := context.Background()
	missing := "/nonexistent/fw32/command"

	err := r.RunHost(ctx, missing, nil)
	assert.Assert(t, errors.Is(err, fault.CommandFailed))
	assert.Assert(t, exitResult(t, err).Missing())

	// optional commands tolerate a missing binary
	assert.NilError(t, r.start(ctx, []string{"--" + flagHost}, missing, nil, true))
}

func TestRunNoSuchSandboxPath(t *testing.T) {
	r, _, _ := newTestRunner(t, t.TempDir())

	err := r.Run(context.Background(), Command{Path: "/bin/true", Dir: "/does/not/exist"})
	assert.Assert(t, errors.Is(err, fault.NoSuchSandboxPath))
	assert.ErrorContains(t, err, "/does/not/exist")
}

func TestRunChrootUnprivileged(t *testing.T) {
	require.Unprivileged(t)

	r, _, stderr := newTestRunner(t, t.TempDir())

	err := r.Run(context.Background(), Command{Path: "/bin/true", Dir: "/"})
	assert.Assert(t, errors.Is(err, fault.CommandFailed))
	assert.Equal(t, exitResult(t, err).ExitCode, 255)
	assert.Assert(t, is.Contains(stderr.String(), "chroot failed"))
}

func TestRunMissingInSandbox(t *testing.T) {
	require.Root(t)

	root := t.TempDir()
	r, _, _ := newTestRunner(t, root)
	ctx := context.Background()
	repoman := Command{Path: "/usr/bin/repoman", Dir: "/", Args: []string{"update"}}

	err := r.Run(ctx, repoman)
	assert.Assert(t, errors.Is(err, fault.CommandFailed))
	assert.Assert(t, exitResult(t, err).Missing())

	repoman.AllowMissing = true
	assert.NilError(t, r.Run(ctx, repoman))
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := new(bytes.Buffer)
	level := sylog.GetLevel()
	old := sylog.SetWriter(buf)
	sylog.SetLevel(int(sylog.VerboseLevel), false)
	t.Cleanup(func() {
		sylog.SetWriter(old)
		sylog.SetLevel(level, false)
	})
	return buf
}

func TestSkipMessageOnlyForMissing(t *testing.T) {
	r, _, _ := newTestRunner(t, t.TempDir())
	ctx := context.Background()
	log := captureLog(t)

	assert.NilError(t, r.start(ctx, []string{"--" + flagHost}, "/nonexistent/fw32/command", nil, true))
	assert.Assert(t, is.Contains(log.String(), "/nonexistent/fw32/command not found, skipping"))

	log.Reset()
	err := r.start(ctx, []string{"--" + flagHost}, "/bin/sh", []string{"-c", "exit 3"}, true)
	assert.Equal(t, exitResult(t, err).ExitCode, 3)
	assert.Assert(t, !bytes.Contains(log.Bytes(), []byte("not found")), log.String())
}

func TestRunHostScrubsLevelEnv(t *testing.T) {
	r, stdout, _ := newTestRunner(t, t.TempDir())

	err := r.RunHost(context.Background(), "/bin/sh", []string{"-c", "echo ${" + sylog.LevelEnv + "-unset}"})
	assert.NilError(t, err)
	assert.Equal(t, stdout.String(), "unset\n")
}

func TestCommandEnv(t *testing.T) {
	env := commandEnv([]string{
		"PATH=/usr/bin",
		sylog.LevelEnv + "=5,nocolor",
		sylog.LevelEnv + "_EXTRA=kept",
		"HOME=/home/user",
	})
	assert.DeepEqual(t, env, []string{"PATH=/usr/bin", sylog.LevelEnv + "_EXTRA=kept", "HOME=/home/user"})
}

func TestConfineSetuidRequest(t *testing.T) {
	const root = "/usr/lib/fw32"

	tests := []struct {
		name string
		args []string
		err  string
	}{
		{"host command", []string{"--host", "--", "/usr/bin/id"}, "require root privileges"},
		{"no privilege drop", []string{"--root", root, "--", "/usr/bin/id"}, "must drop privileges"},
		{
			"foreign root",
			[]string{"--root", "/tmp/evil", "--drop-privileges", "--uid", "0", "--gid", "0", "--", "/usr/bin/id"},
			"is not the configured root",
		},
		{
			"host root",
			[]string{"--root", "/", "--drop-privileges", "--uid", "1000", "--gid", "100", "--", "/usr/bin/id"},
			"is not the configured root",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := parseRequest(tt.args)
			assert.NilError(t, err)
			assert.ErrorContains(t, req.confine(1000, 100, root), tt.err)
		})
	}

	req, err := parseRequest([]string{
		"--root", root + "/", "--drop-privileges", "--uid", "0", "--gid", "0", "--", "/usr/bin/id",
	})
	assert.NilError(t, err)
	assert.NilError(t, req.confine(1000, 100, root))
	assert.Equal(t, req.uid, 1000)
	assert.Equal(t, req.gid, 100)
}

func TestTrustedRoot(t *testing.T) {
	old := trustedConfig
	t.Cleanup(func() { trustedConfig = old })

	dir := fs.NewDir(t, "conf", fs.WithFile("fw32.conf", `sandbox_root = "/srv/fw32"`+"\n"))
	trustedConfig = dir.Join("fw32.conf")
	root, err := trustedRoot()
	assert.NilError(t, err)
	assert.Equal(t, root, "/srv/fw32")

	trustedConfig = filepath.Join(dir.Path(), "missing.conf")
	root, err = trustedRoot()
	assert.NilError(t, err)
	assert.Equal(t, root, "/usr/lib/fw32")

	assert.NilError(t, os.WriteFile(trustedConfig, []byte("sandbox_root = \n"), 0o644))
	_, err = trustedRoot()
	assert.ErrorContains(t, err, "while reading")
}

func TestContextCancel(t *testing.T) {
	r, _, _ := newTestRunner(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.RunHost(ctx, "/bin/sh", []string{"-c", "sleep 10"})
	assert.Assert(t, errors.Is(err, fault.CommandFailed))
}

func TestParseRequest(t *testing.T) {
	req, err := parseRequest([]string{
		"--root", "/usr/lib/fw32", "--dir", "/home/user",
		"--drop-privileges", "--uid", "1000", "--gid", "100",
		"--personality", "linux32", "--", "/bin/bash", "--login",
	})
	assert.NilError(t, err)
	assert.DeepEqual(t, *req, request{
		root:        "/usr/lib/fw32",
		dir:         "/home/user",
		drop:        true,
		uid:         1000,
		gid:         100,
		personality: "linux32",
		argv:        []string{"/bin/bash", "--login"},
	}, cmp.AllowUnexported(request{}))

	tests := []struct {
		name string
		args []string
		err  string
	}{
		{"no command", []string{"--root", "/r"}, "no command"},
		{"no root", []string{"--", "ls"}, "no sandbox root"},
		{"drop without ids", []string{"--root", "/r", "--drop-privileges", "--", "ls"}, "requires a target user"},
		{"unknown flag", []string{"--bogus"}, "unknown flag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRequest(tt.args)
			assert.ErrorContains(t, err, tt.err)
		})
	}

	req, err = parseRequest([]string{"--host", "--", "pacman-g2", "-Sy"})
	assert.NilError(t, err)
	assert.Assert(t, req.host)
	assert.DeepEqual(t, req.argv, []string{"pacman-g2", "-Sy"})
}

func TestParsePersonality(t *testing.T) {
	p, err := ParsePersonality("linux32")
	assert.NilError(t, err)
	assert.Equal(t, p, PersonalityLinux32)

	_, err = ParsePersonality("linux64")
	assert.ErrorContains(t, err, "unknown personality")
}
