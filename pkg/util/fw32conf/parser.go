// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package fw32conf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Parse reads the configuration file at path. An empty path returns the
// default configuration. Options absent from the file keep their default
// value.
func Parse(path string) (*File, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("while opening configuration file: %w", err)
	}
	defer f.Close()

	return ParseReader(f)
}

// ParseReader reads a configuration from r.
func ParseReader(r io.Reader) (*File, error) {
	c := new(File)

	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown configuration options:\n%s", strict.String())
		}
		return nil, fmt.Errorf("while decoding configuration: %w", err)
	}

	c.applyDefaults(Default())
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (f *File) applyDefaults(d *File) {
	setString := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	setList := func(v *[]string, def []string) {
		if len(*v) == 0 {
			*v = def
		}
	}

	setString(&f.SandboxRoot, d.SandboxRoot)
	setString(&f.PackageManager, d.PackageManager)
	setString(&f.PackageManagerConfig, d.PackageManagerConfig)
	setString(&f.RepositoryTool, d.RepositoryTool)
	setString(&f.FontCacheTool, d.FontCacheTool)
	setString(&f.MountTable, d.MountTable)
	setString(&f.SettleDelay, d.SettleDelay)
	setString(&f.Personality, d.Personality)
	setList(&f.DefaultPackages, d.DefaultPackages)
	setList(&f.HostFiles, d.HostFiles)
	setList(&f.FSTMarkers, d.FSTMarkers)
}

func (f *File) validate() error {
	root := f.SandboxRoot
	if !filepath.IsAbs(root) || filepath.Clean(root) != root || root == "/" {
		return fmt.Errorf("sandbox_root %q must be a clean absolute path other than /", root)
	}

	for key, p := range map[string]string{
		"package_manager":        f.PackageManager,
		"package_manager_config": f.PackageManagerConfig,
		"repository_tool":        f.RepositoryTool,
		"font_cache_tool":        f.FontCacheTool,
		"mount_table":            f.MountTable,
	} {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("%s %q is not an absolute path", key, p)
		}
	}
	for _, p := range append(append([]string(nil), f.HostFiles...), f.FSTMarkers...) {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("host path %q is not absolute", p)
		}
	}

	switch f.Personality {
	case PersonalityLinux32, PersonalityNative:
	default:
		return fmt.Errorf("personality %q must be %q or %q", f.Personality, PersonalityLinux32, PersonalityNative)
	}

	d, err := time.ParseDuration(f.SettleDelay)
	if err != nil {
		return fmt.Errorf("settle_delay: %w", err)
	} else if d < 0 {
		return fmt.Errorf("settle_delay %s is negative", f.SettleDelay)
	}

	for _, b := range f.Bind {
		if b.Source == "" {
			return fmt.Errorf("bind entry without source")
		}
	}
	return nil
}
