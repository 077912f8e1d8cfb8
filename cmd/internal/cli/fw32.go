// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// Copyright (c) 2018-2022, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/frugalware/fw32/docs"
	"github.com/frugalware/fw32/internal/app/fw32"
	"github.com/frugalware/fw32/internal/pkg/buildcfg"
	"github.com/frugalware/fw32/internal/pkg/runtime/launch"
	"github.com/frugalware/fw32/internal/pkg/util/priv"
	"github.com/frugalware/fw32/pkg/cmdline"
	"github.com/frugalware/fw32/pkg/sylog"
	"github.com/frugalware/fw32/pkg/util/fw32conf"
)

// cmdInits holds all the init function to be called
// for commands/flags registration.
var cmdInits = make([]func(*cmdline.CommandManager), 0)

// fw32 global flags
var (
	debug   bool
	nocolor bool
	silent  bool
	verbose bool
	quiet   bool

	configurationFile string
)

// -d|--debug
var fw32DebugFlag = cmdline.Flag{
	ID:           "fw32DebugFlag",
	Value:        &debug,
	DefaultValue: false,
	Name:         "debug",
	ShortHand:    "d",
	Usage:        "print debugging information (highest verbosity)",
	EnvKeys:      []string{"DEBUG"},
}

// --nocolor
var fw32NoColorFlag = cmdline.Flag{
	ID:           "fw32NoColorFlag",
	Value:        &nocolor,
	DefaultValue: false,
	Name:         "nocolor",
	Usage:        "print without color output (default False)",
	EnvKeys:      []string{"NOCOLOR"},
}

// -s|--silent
var fw32SilentFlag = cmdline.Flag{
	ID:           "fw32SilentFlag",
	Value:        &silent,
	DefaultValue: false,
	Name:         "silent",
	ShortHand:    "s",
	Usage:        "only print errors",
	EnvKeys:      []string{"SILENT"},
}

// -q|--quiet
var fw32QuietFlag = cmdline.Flag{
	ID:           "fw32QuietFlag",
	Value:        &quiet,
	DefaultValue: false,
	Name:         "quiet",
	ShortHand:    "q",
	Usage:        "suppress normal output",
	EnvKeys:      []string{"QUIET"},
}

// -v|--verbose
var fw32VerboseFlag = cmdline.Flag{
	ID:           "fw32VerboseFlag",
	Value:        &verbose,
	DefaultValue: false,
	Name:         "verbose",
	ShortHand:    "v",
	Usage:        "print additional information",
	EnvKeys:      []string{"VERBOSE"},
}

// -c|--config
var fw32ConfigFileFlag = cmdline.Flag{
	ID:           "fw32ConfigFileFlag",
	Value:        &configurationFile,
	DefaultValue: buildcfg.FW32_CONF_FILE,
	Name:         "config",
	ShortHand:    "c",
	Usage:        "specify a configuration file (for root only)",
	EnvKeys:      []string{"CONFIG"},
}

func addCmdInit(cmdInit func(*cmdline.CommandManager)) {
	cmdInits = append(cmdInits, cmdInit)
}

func setSylogMessageLevel() {
	var level int

	if debug {
		level = 5
	} else if verbose {
		level = 4
	} else if quiet {
		level = -1
	} else if silent {
		level = -3
	} else {
		level = 1
	}

	color := true
	if nocolor || !term.IsTerminal(2) {
		color = false
	}

	sylog.SetLevel(level, color)
}

// loadConfig parses the configuration file. A missing default
// configuration file yields the built-in configuration.
func loadConfig() (*fw32conf.File, error) {
	if priv.IsSetuid() && configurationFile != fw32ConfigFileFlag.DefaultValue {
		return nil, fmt.Errorf("--config requires root privileges")
	}

	sylog.Debugf("Parsing configuration file %s", configurationFile)
	config, err := fw32conf.Parse(configurationFile)
	if errors.Is(err, fs.ErrNotExist) && configurationFile == fw32ConfigFileFlag.DefaultValue {
		sylog.Debugf("No configuration file found, using defaults")
		return fw32conf.Default(), nil
	} else if err != nil {
		return nil, fmt.Errorf("couldn't parse configuration file %s: %s", configurationFile, err)
	}
	return config, nil
}

func persistentPreRun(cmd *cobra.Command, args []string) error {
	setSylogMessageLevel()
	sylog.Debugf("fw32 version: %s", buildcfg.PACKAGE_VERSION)

	if cmd.CalledAs() == "confgen" {
		// This command generates the configuration so it may
		// not yet be there
		return nil
	}

	config, err := loadConfig()
	if err != nil {
		return err
	}
	fw32conf.SetCurrentConfig(config)
	return nil
}

// Init initializes and registers all fw32 commands.
func Init() {
	cmdManager := cmdline.NewCommandManager(fw32Cmd)

	fw32Cmd.Flags().SetInterspersed(false)
	fw32Cmd.PersistentFlags().SetInterspersed(false)

	vt := fmt.Sprintf("%s version {{printf \"%%s\" .Version}}\n", buildcfg.PACKAGE_NAME)
	fw32Cmd.SetVersionTemplate(vt)

	// set persistent pre run function here to avoid initialization loop error
	fw32Cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		foundKeys := make(map[string]string)
		if err := cmdManager.UpdateCmdFlagFromEnv(fw32Cmd, foundKeys); err != nil {
			sylog.Fatalf("While parsing global environment variables: %s", err)
		}
		if err := cmdManager.UpdateCmdFlagFromEnv(cmd, foundKeys); err != nil {
			sylog.Fatalf("While parsing environment variables: %s", err)
		}
		if err := persistentPreRun(cmd, args); err != nil {
			sylog.Fatalf("While initializing: %s", err)
		}
		return nil
	}

	cmdManager.RegisterFlagForCmd(&fw32DebugFlag, fw32Cmd)
	cmdManager.RegisterFlagForCmd(&fw32NoColorFlag, fw32Cmd)
	cmdManager.RegisterFlagForCmd(&fw32SilentFlag, fw32Cmd)
	cmdManager.RegisterFlagForCmd(&fw32QuietFlag, fw32Cmd)
	cmdManager.RegisterFlagForCmd(&fw32VerboseFlag, fw32Cmd)
	cmdManager.RegisterFlagForCmd(&fw32ConfigFileFlag, fw32Cmd)

	cmdManager.RegisterCmd(VersionCmd)

	// register all others commands/flags
	for _, cmdInit := range cmdInits {
		cmdInit(cmdManager)
	}

	// any error reported by command manager is considered as fatal
	cliErrors := len(cmdManager.GetError())
	if cliErrors > 0 {
		for _, e := range cmdManager.GetError() {
			sylog.Errorf("%s", e)
		}
		sylog.Fatalf("CLI command manager reported %d error(s)", cliErrors)
	}
}

// fw32Cmd is the base command when called without any subcommands
var fw32Cmd = &cobra.Command{
	TraverseChildren:      true,
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdline.CommandError("invalid command")
	},

	Use:           docs.Fw32Use,
	Version:       buildcfg.PACKAGE_VERSION,
	Short:         docs.Fw32Short,
	Long:          docs.Fw32Long,
	Example:       docs.Fw32Example,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// RootCmd returns the root fw32 cobra command.
func RootCmd() *cobra.Command {
	return fw32Cmd
}

// commandArgs maps an invocation through a "fw32-<command>" link to the
// equivalent "fw32 <command>" arguments.
func commandArgs(argv0 string, args []string) []string {
	name := filepath.Base(argv0)
	cmd := strings.TrimPrefix(name, buildcfg.PACKAGE_NAME+"-")
	if cmd == name || cmd == "" {
		return args
	}
	return append([]string{cmd}, args...)
}

// ExecuteFw32 adds all child commands to the root command and sets
// flags appropriately. This is called by main.main(). It only needs to happen
// once to the root command (fw32).
func ExecuteFw32() {
	Init()

	args := commandArgs(os.Args[0], os.Args[1:])
	fw32Cmd.SetArgs(args)

	// Setup a cancellable context that will trap Ctrl-C / SIGINT
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer func() {
		signal.Stop(c)
		cancel()
	}()
	go func() {
		select {
		case <-c:
			sylog.Debugf("User requested cancellation with interrupt")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := fw32Cmd.ExecuteContext(ctx); err != nil {
		// Find the subcommand to display more useful help, and the correct
		// subcommand name in messages - i.e. 'run' not 'fw32'
		subCmd, _, subCmdErr := fw32Cmd.Find(args)
		if subCmdErr != nil {
			fw32Cmd.Printf("Error: %v\n\n", subCmdErr)
		}

		name := subCmd.Name()
		switch err.(type) {
		case cmdline.FlagError:
			usage := subCmd.Flags().FlagUsagesWrapped(getColumns())
			fw32Cmd.Printf("Error for command %q: %s\n\n", name, err)
			fw32Cmd.Printf("Options for %s command:\n\n%s\n", name, usage)
		case cmdline.CommandError:
			fw32Cmd.Println(subCmd.UsageString())
		default:
			fw32Cmd.Printf("Error for command %q: %s\n\n", name, err)
			fw32Cmd.Println(subCmd.UsageString())
		}
		fw32Cmd.Printf("Run '%s --help' for more detailed usage information.\n",
			fw32Cmd.CommandPath())
		os.Exit(1)
	}
}

// getColumns returns the width of the terminal, 80 when stdout
// is not a terminal.
func getColumns() int {
	cols, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 {
		return 80
	}
	return cols
}

// VersionCmd displays installed fw32 version
var VersionCmd = &cobra.Command{
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(buildcfg.PACKAGE_VERSION)
	},

	Use:   "version",
	Short: "Show the version for fw32",
}

// CheckRoot ensures that a command is executed with root privileges.
func CheckRoot(cmd *cobra.Command, args []string) {
	if !priv.IsRoot() {
		sylog.Fatalf("%q command requires root privileges", cmd.CommandPath())
	}
}

// CheckSetuid ensures that a command is executed by a regular user
// through a setuid root installation.
func CheckSetuid(cmd *cobra.Command, args []string) {
	if !priv.IsSetuid() {
		sylog.Fatalf("%q command must be run by a regular user from a setuid root binary", cmd.CommandPath())
	}
}

// newSandbox returns the sandbox described by the current configuration.
func newSandbox() *fw32.Sandbox {
	s, err := fw32.New(fw32conf.GetCurrentConfig())
	if err != nil {
		sylog.Fatalf("While loading sandbox %s: %s", fw32conf.GetCurrentConfig().SandboxRoot, err)
	}
	return s
}

// exitStatus returns the exit status matching a failed child, a child
// killed by a signal exits with 128 plus the signal number.
func exitStatus(err error) (int, bool) {
	var exitErr *launch.ExitError
	if !errors.As(err, &exitErr) {
		return 0, false
	}
	if exitErr.Signal != 0 {
		return 128 + int(exitErr.Signal), true
	}
	return exitErr.ExitCode, true
}

// fatal terminates the process after a failed operation.
func fatal(cmd *cobra.Command, err error) {
	if errors.Is(err, context.Canceled) {
		sylog.Fatalf("%s interrupted", cmd.Name())
	}
	sylog.Fatalf("%s failed: %s", cmd.Name(), err)
}
