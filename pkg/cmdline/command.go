// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// Copyright (c) 2019-2025, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package cmdline registers cobra commands and their flags, and binds
// flags to environment variables.
package cmdline

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CommandError represents a command error.
type CommandError string

func (e CommandError) Error() string {
	return string(e)
}

// FlagError represents a flag error.
type FlagError string

func (e FlagError) Error() string {
	return string(e)
}

// CommandManager holds root command and all its sub commands
// with their flags.
type CommandManager struct {
	rootCmd *cobra.Command
	cmds    map[string]*cobra.Command
	fm      *flagManager
	errPool []error
}

// NewCommandManager instantiates a CommandManager for rootCmd.
func NewCommandManager(rootCmd *cobra.Command) *CommandManager {
	cm, err := newCommandManager(rootCmd)
	if err != nil {
		panic(err)
	}
	return cm
}

func newCommandManager(rootCmd *cobra.Command) (*CommandManager, error) {
	if rootCmd == nil {
		return nil, fmt.Errorf("nil root command passed")
	}
	cm := &CommandManager{
		rootCmd: rootCmd,
		cmds:    make(map[string]*cobra.Command),
		fm:      newFlagManager(),
		errPool: make([]error, 0),
	}
	cm.cmds[rootCmd.Name()] = rootCmd
	return cm, nil
}

func (m *CommandManager) pushError(format string, a ...interface{}) {
	m.errPool = append(m.errPool, fmt.Errorf(format, a...))
}

// GetError returns the errors which occurred during registration.
func (m *CommandManager) GetError() []error {
	return m.errPool
}

// GetRootCmd returns the root command.
func (m *CommandManager) GetRootCmd() *cobra.Command {
	return m.rootCmd
}

// GetCmd returns the registered command called name.
func (m *CommandManager) GetCmd(name string) *cobra.Command {
	return m.cmds[name]
}

// RegisterCmd adds cmd to the root command.
func (m *CommandManager) RegisterCmd(cmd *cobra.Command) {
	m.RegisterSubCmd(m.rootCmd, cmd)
}

// RegisterSubCmd adds child to the parent command.
func (m *CommandManager) RegisterSubCmd(parent, child *cobra.Command) {
	switch {
	case parent == nil:
		m.pushError("nil parent command passed")
	case child == nil:
		m.pushError("nil child command passed")
	default:
		if _, ok := m.cmds[child.Name()]; ok {
			m.pushError("command %q already registered", child.Name())
			return
		}
		parent.AddCommand(child)
		m.cmds[child.Name()] = child
	}
}

// RegisterFlagForCmd registers flag for every command of cmds.
func (m *CommandManager) RegisterFlagForCmd(flag *Flag, cmds ...*cobra.Command) {
	if flag == nil {
		m.pushError("nil flag passed")
		return
	}
	if len(cmds) == 0 {
		m.pushError("no command passed for flag %s", flag.Name)
		return
	}
	for _, c := range cmds {
		if c == nil {
			m.pushError("nil command passed for flag %s", flag.Name)
			return
		}
	}
	if err := m.fm.registerFlagForCmd(flag, cmds...); err != nil {
		m.pushError("while registering flag %s: %s", flag.Name, err)
	}
}
