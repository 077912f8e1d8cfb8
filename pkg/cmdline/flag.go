// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// Copyright (c) 2019-2025, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cmdline

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envKeysAnnotation holds the environment variables bound to a flag.
const envKeysAnnotation = "envkey"

// Flag holds information about a command flag
type Flag struct {
	ID           string
	Value        interface{}
	DefaultValue interface{}
	Name         string
	ShortHand    string
	Usage        string
	Tag          string
	Deprecated   string
	Hidden       bool
	Required     bool
	// EnvKeys are environment variable names, without the FW32_
	// prefix unless WithoutPrefix is set, setting the flag value.
	EnvKeys       []string
	WithoutPrefix bool
}

// flagManager manages cobra command flags registration.
type flagManager struct {
	flags map[string]*Flag
}

func newFlagManager() *flagManager {
	return &flagManager{
		flags: make(map[string]*Flag),
	}
}

func (m *flagManager) setFlagOptions(flag *Flag, cmd *cobra.Command) {
	cmd.Flags().SetAnnotation(flag.Name, "argtag", []string{flag.Tag})
	cmd.Flags().SetAnnotation(flag.Name, "ID", []string{flag.ID})

	if len(flag.EnvKeys) > 0 {
		keys := make([]string, len(flag.EnvKeys))
		for i, k := range flag.EnvKeys {
			keys[i] = k
			if !flag.WithoutPrefix {
				keys[i] = EnvPrefix + k
			}
		}
		cmd.Flags().SetAnnotation(flag.Name, envKeysAnnotation, keys)
	}
	if flag.Deprecated != "" {
		cmd.Flags().MarkDeprecated(flag.Name, flag.Deprecated)
	}
	if flag.Hidden {
		cmd.Flags().MarkHidden(flag.Name)
	}
	if flag.Required {
		cmd.MarkFlagRequired(flag.Name)
	}
}

func (m *flagManager) registerFlagForCmd(flag *Flag, cmds ...*cobra.Command) error {
	switch t := flag.DefaultValue.(type) {
	case string:
		return m.registerStringVar(flag, cmds)
	case []string:
		return m.registerStringSliceVar(flag, cmds)
	case map[string]string:
		return m.registerStringMapVar(flag, cmds)
	case bool:
		return m.registerBoolVar(flag, cmds)
	case int:
		return m.registerIntVar(flag, cmds)
	case uint32:
		return m.registerUint32Var(flag, cmds)
	default:
		return fmt.Errorf("flag of type %T is not supported", t)
	}
}

func (m *flagManager) register(flag *Flag, cmds []*cobra.Command, add func(fs *pflag.FlagSet) bool) error {
	for _, c := range cmds {
		if !add(c.Flags()) {
			return fmt.Errorf("flag %s: value does not match the type of the default value", flag.Name)
		}
		m.setFlagOptions(flag, c)
	}
	m.flags[flag.ID] = flag
	return nil
}

func (m *flagManager) registerStringVar(flag *Flag, cmds []*cobra.Command) error {
	return m.register(flag, cmds, func(fs *pflag.FlagSet) bool {
		v, ok := flag.Value.(*string)
		if ok {
			fs.StringVarP(v, flag.Name, flag.ShortHand, flag.DefaultValue.(string), flag.Usage)
		}
		return ok
	})
}

func (m *flagManager) registerStringSliceVar(flag *Flag, cmds []*cobra.Command) error {
	return m.register(flag, cmds, func(fs *pflag.FlagSet) bool {
		v, ok := flag.Value.(*[]string)
		if ok {
			fs.StringSliceVarP(v, flag.Name, flag.ShortHand, flag.DefaultValue.([]string), flag.Usage)
		}
		return ok
	})
}

func (m *flagManager) registerStringMapVar(flag *Flag, cmds []*cobra.Command) error {
	return m.register(flag, cmds, func(fs *pflag.FlagSet) bool {
		v, ok := flag.Value.(*map[string]string)
		if ok {
			fs.StringToStringVarP(v, flag.Name, flag.ShortHand, flag.DefaultValue.(map[string]string), flag.Usage)
		}
		return ok
	})
}

func (m *flagManager) registerBoolVar(flag *Flag, cmds []*cobra.Command) error {
	return m.register(flag, cmds, func(fs *pflag.FlagSet) bool {
		v, ok := flag.Value.(*bool)
		if ok {
			fs.BoolVarP(v, flag.Name, flag.ShortHand, flag.DefaultValue.(bool), flag.Usage)
		}
		return ok
	})
}

func (m *flagManager) registerIntVar(flag *Flag, cmds []*cobra.Command) error {
	return m.register(flag, cmds, func(fs *pflag.FlagSet) bool {
		v, ok := flag.Value.(*int)
		if ok {
			fs.IntVarP(v, flag.Name, flag.ShortHand, flag.DefaultValue.(int), flag.Usage)
		}
		return ok
	})
}

func (m *flagManager) registerUint32Var(flag *Flag, cmds []*cobra.Command) error {
	return m.register(flag, cmds, func(fs *pflag.FlagSet) bool {
		v, ok := flag.Value.(*uint32)
		if ok {
			fs.Uint32VarP(v, flag.Name, flag.ShortHand, flag.DefaultValue.(uint32), flag.Usage)
		}
		return ok
	})
}
