// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package fw32 implements the operations of the fw32 command on a sandbox
// root.
package fw32

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/frugalware/fw32/internal/pkg/buildcfg"
	"github.com/frugalware/fw32/internal/pkg/registry"
	"github.com/frugalware/fw32/internal/pkg/runtime/launch"
	"github.com/frugalware/fw32/internal/pkg/util/fault"
	"github.com/frugalware/fw32/internal/pkg/util/fs"
	"github.com/frugalware/fw32/internal/pkg/util/fs/mount"
	"github.com/frugalware/fw32/pkg/sylog"
	"github.com/frugalware/fw32/pkg/util/fs/proc"
	"github.com/frugalware/fw32/pkg/util/fw32conf"
)

// Mounter manages the bind mounts of a sandbox root.
type Mounter interface {
	Destination(e registry.Entry) (string, error)
	MountOne(e registry.Entry) error
	MountAll() error
	MountBase() error
	UnmountAll() error
	Mounted() ([]string, error)
	LiveMounts() ([]proc.MountEntry, error)
	CreateDirectories() error
}

// Runner starts commands inside and next to a sandbox root.
type Runner interface {
	Run(ctx context.Context, c launch.Command) error
	RunHost(ctx context.Context, path string, args []string) error
}

// Sandbox drives the operations on one sandbox root.
type Sandbox struct {
	cfg      *fw32conf.File
	registry *registry.Registry
	mounts   Mounter
	runner   Runner
	cacheDir string
	sleep    func(time.Duration)
	passwd   string
	getwd    func() (string, error)
	uid      int
}

// Option configures a Sandbox.
type Option func(s *Sandbox)

// WithMounter replaces the mount manager.
func WithMounter(m Mounter) Option {
	return func(s *Sandbox) {
		s.mounts = m
	}
}

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(s *Sandbox) {
		s.runner = r
	}
}

// WithSleep replaces the function pausing after an operation.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *Sandbox) {
		s.sleep = sleep
	}
}

// WithPasswd sets the passwd file used to find the invoking user.
func WithPasswd(path string) Option {
	return func(s *Sandbox) {
		s.passwd = path
	}
}

// WithWorkingDir replaces the function returning the working directory
// of the invoking user.
func WithWorkingDir(getwd func() (string, error)) Option {
	return func(s *Sandbox) {
		s.getwd = getwd
	}
}

// WithUser sets the invoking user ID.
func WithUser(uid int) Option {
	return func(s *Sandbox) {
		s.uid = uid
	}
}

// New returns a Sandbox for the configuration cfg.
func New(cfg *fw32conf.File, opts ...Option) (*Sandbox, error) {
	extra := make([]registry.Entry, 0, len(cfg.Bind))
	for _, b := range cfg.Bind {
		extra = append(extra, registry.Entry{Source: b.Source, ReadOnly: b.ReadOnly})
	}
	reg, err := registry.New(cfg.SandboxRoot, extra)
	if err != nil {
		return nil, errors.Wrap(err, "invalid bind configuration")
	}

	s := &Sandbox{
		cfg:      cfg,
		registry: reg,
		cacheDir: reg.PackageCache().Source,
		sleep:    time.Sleep,
		passwd:   buildcfg.PASSWD_FILE,
		getwd:    os.Getwd,
		uid:      os.Getuid(),
	}
	for _, o := range opts {
		o(s)
	}

	if s.mounts == nil {
		s.mounts = mount.NewManager(cfg.SandboxRoot, cfg.MountTable, reg)
	}
	if s.runner == nil {
		p, err := launch.ParsePersonality(cfg.Personality)
		if err != nil {
			return nil, err
		}
		s.runner = launch.NewRunner(cfg.SandboxRoot, launch.OptPersonality(p))
	}
	return s, nil
}

// Root returns the sandbox root.
func (s *Sandbox) Root() string {
	return s.cfg.SandboxRoot
}

func (s *Sandbox) exists() (bool, error) {
	exists, err := fs.PathExists(s.cfg.SandboxRoot)
	if err != nil {
		return false, errors.Wrapf(err, "while checking %s", s.cfg.SandboxRoot)
	}
	return exists, nil
}

func (s *Sandbox) requireSandbox() error {
	exists, err := s.exists()
	if err != nil {
		return err
	} else if !exists {
		return fault.New(fault.SandboxMissing, s.cfg.SandboxRoot, nil)
	}
	return nil
}

func (s *Sandbox) settle() {
	if d := s.cfg.SettleDuration(); d > 0 {
		sylog.Debugf("Waiting %s for the host to settle", d)
		s.sleep(d)
	}
}

// remount replaces every mount under the sandbox root by the full profile.
func (s *Sandbox) remount() error {
	if err := s.mounts.UnmountAll(); err != nil {
		return errors.Wrap(err, "while unmounting sandbox directories")
	}
	if err := s.mounts.MountAll(); err != nil {
		return errors.Wrap(err, "while mounting sandbox directories")
	}
	return nil
}

// PackageOperation runs the package manager on the host against the
// sandbox root with args, only the package cache being mounted meanwhile.
// The full profile is mounted again afterwards.
func (s *Sandbox) PackageOperation(ctx context.Context, args []string) error {
	if err := s.mounts.UnmountAll(); err != nil {
		return errors.Wrap(err, "while unmounting sandbox directories")
	}
	if err := s.mounts.MountOne(s.registry.PackageCache()); err != nil {
		return errors.Wrap(err, "while mounting package cache")
	}

	argv := make([]string, 0, len(args)+5)
	argv = append(argv, args...)
	argv = append(argv,
		"--noconfirm",
		"--root", s.cfg.SandboxRoot,
		"--config", s.cfg.PackageManagerConfig,
	)

	sylog.Verbosef("Running %s %v", s.cfg.PackageManager, argv)
	if err := s.runner.RunHost(ctx, s.cfg.PackageManager, argv); err != nil {
		return fault.New(fault.PackageManagerFailed, s.cfg.PackageManager, err)
	}

	s.settle()
	return s.remount()
}

// RepositoryOperation runs the repository tool chrooted in the sandbox
// with args, the base profile being mounted meanwhile. A sandbox without
// the repository tool is not an error. The full profile is mounted again
// afterwards.
func (s *Sandbox) RepositoryOperation(ctx context.Context, args []string) error {
	if err := s.mounts.UnmountAll(); err != nil {
		return errors.Wrap(err, "while unmounting sandbox directories")
	}

	for _, f := range s.cfg.HostFiles {
		if !fs.IsFile(f) {
			sylog.Verbosef("Host file %s not found, not copied into the sandbox", f)
			continue
		}
		if err := fs.CopyFile(s.cfg.SandboxRoot, f, 0o644); err != nil {
			return errors.Wrapf(err, "while copying %s into the sandbox", f)
		}
	}

	if err := s.mounts.MountBase(); err != nil {
		return errors.Wrap(err, "while mounting sandbox base directories")
	}

	err := s.runner.Run(ctx, launch.Command{
		Path:         s.cfg.RepositoryTool,
		Dir:          "/",
		Args:         args,
		AllowMissing: true,
	})
	if err != nil {
		return errors.Wrapf(err, "while running %s", s.cfg.RepositoryTool)
	}

	s.settle()
	return s.remount()
}
