// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// Copyright (c) 2018-2021, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package confgen

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/frugalware/fw32/pkg/util/fw32conf"
)

// Gen writes a fw32.conf file. With one argument the defaults are written
// to args[0], with two the options set in args[0] are kept in args[1].
func Gen(args []string) error {
	var in, out string

	switch len(args) {
	case 2:
		in, out = filepath.Clean(args[0]), filepath.Clean(args[1])
	case 1:
		out = filepath.Clean(args[0])
	default:
		return errors.New("unexpected number of parameters")
	}
	return genConf(in, out)
}

// GenTo writes the configuration read from in, or the defaults when in is
// empty or missing, to w.
func GenTo(w io.Writer, in string) error {
	c, err := parse(in)
	if err != nil {
		return err
	}
	if err := fw32conf.Generate(w, "", c); err != nil {
		return fmt.Errorf("unable to generate config file: %v", err)
	}
	return nil
}

// parse reads in, a missing file giving the default configuration.
func parse(in string) (*fw32conf.File, error) {
	if in != "" {
		if _, err := os.Stat(in); errors.Is(err, fs.ErrNotExist) {
			in = ""
		}
	}
	c, err := fw32conf.Parse(in)
	if err != nil {
		return nil, fmt.Errorf("unable to parse fw32.conf file: %v", err)
	}
	return c, nil
}

// genConf renders the configuration from in next to out, then renames it
// over out. in and out may be the same file.
func genConf(in, out string) error {
	tmp, err := os.CreateTemp(filepath.Dir(out), "."+filepath.Base(out)+".*")
	if err != nil {
		return fmt.Errorf("unable to create file in %s: %v", filepath.Dir(out), err)
	}
	defer os.Remove(tmp.Name())

	if err := GenTo(tmp, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to set mode of %s: %v", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to write %s: %v", tmp.Name(), err)
	}
	return os.Rename(tmp.Name(), out)
}
