// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cmdline

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/frugalware/fw32/internal/pkg/buildcfg"
)

// EnvPrefix prefixes the environment variables bound to flags.
const EnvPrefix = buildcfg.ENV_PREFIX

// UpdateCmdFlagFromEnv sets the flags of cmd which were not given on the
// command line from their environment variables. The first variable set
// wins, its name and value are recorded in foundKeys.
func (m *CommandManager) UpdateCmdFlagFromEnv(cmd *cobra.Command, foundKeys map[string]string) error {
	var errs []error

	update := func(flag *pflag.Flag) {
		if flag.Changed {
			return
		}
		for _, key := range flag.Annotations[envKeysAnnotation] {
			value, ok := os.LookupEnv(key)
			if !ok {
				continue
			}
			if err := flag.Value.Set(value); err != nil {
				errs = append(errs, fmt.Errorf("while setting flag %s from %s=%q: %w", flag.Name, key, value, err))
				return
			}
			flag.Changed = true
			if foundKeys != nil {
				foundKeys[key] = value
			}
			return
		}
	}

	cmd.Flags().VisitAll(update)
	cmd.PersistentFlags().VisitAll(update)

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
