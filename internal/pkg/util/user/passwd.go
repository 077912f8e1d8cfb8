// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// Copyright (c) 2018-2025, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package user looks up users in a passwd database file.
package user

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	pwd "github.com/astromechza/etcpwdparse"
)

// User represents a passwd entry.
type User struct {
	Name  string
	UID   int
	GID   int
	Gecos string
	Dir   string
	Shell string
}

// GetPwUID returns the entry of uid in the passwd file at path.
func GetPwUID(path string, uid int) (*User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening passwd file %s for reading: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := pwd.ParsePasswdLine(line)
		if err != nil {
			return nil, fmt.Errorf("failed to parse passwd line %q: %w", line, err)
		}
		if entry.Uid() != uid {
			continue
		}

		return &User{
			Name:  entry.Username(),
			UID:   entry.Uid(),
			GID:   entry.Gid(),
			Gecos: entry.Info(),
			Dir:   entry.Homedir(),
			Shell: entry.Shell(),
		}, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("while reading %s: %w", path, err)
	}

	return nil, fmt.Errorf("no passwd entry for user ID %d in %s", uid, path)
}

// Current returns the passwd entry of the real user of the process.
func Current(path string) (*User, error) {
	return GetPwUID(path, os.Getuid())
}
