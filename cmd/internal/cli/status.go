// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/frugalware/fw32/docs"
	"github.com/frugalware/fw32/internal/app/fw32"
	"github.com/frugalware/fw32/pkg/cmdline"
)

func init() {
	addCmdInit(func(cmdManager *cmdline.CommandManager) {
		cmdManager.RegisterCmd(StatusCmd)
		cmdManager.RegisterFlagForCmd(&statusFormatFlag, StatusCmd)
	})
}

// -f|--format
var statusFormat string

var statusFormatFlag = cmdline.Flag{
	ID:           "statusFormatFlag",
	Value:        &statusFormat,
	DefaultValue: "text",
	Name:         "format",
	ShortHand:    "f",
	Usage:        "output format: text, json or yaml",
	EnvKeys:      []string{"STATUS_FORMAT"},
}

// StatusCmd shows the state of the sandbox.
var StatusCmd = &cobra.Command{
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := newSandbox().Status(cmd.Context())
		if err != nil {
			fatal(cmd, err)
		}
		if err := writeStatus(os.Stdout, st, statusFormat); err != nil {
			fatal(cmd, err)
		}
	},

	Use:     docs.StatusUse,
	Short:   docs.StatusShort,
	Long:    docs.StatusLong,
	Example: docs.StatusExample,
}

type mountReport struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	ReadOnly    bool   `json:"readOnly" yaml:"read_only"`
	Mounted     bool   `json:"mounted" yaml:"mounted"`
	MountedRO   bool   `json:"mountedReadOnly" yaml:"mounted_read_only"`
}

type statusReport struct {
	Root      string        `json:"root" yaml:"root"`
	Exists    bool          `json:"exists" yaml:"exists"`
	CacheSize int64         `json:"cacheSize" yaml:"cache_size"`
	Mounts    []mountReport `json:"mounts" yaml:"mounts"`
	Unknown   []string      `json:"unknownMounts,omitempty" yaml:"unknown_mounts,omitempty"`
}

func newStatusReport(st *fw32.Status) statusReport {
	r := statusReport{
		Root:      st.Root,
		Exists:    st.Exists,
		CacheSize: st.CacheSize,
		Mounts:    make([]mountReport, 0, len(st.Mounts)),
		Unknown:   st.Unknown,
	}
	for _, m := range st.Mounts {
		r.Mounts = append(r.Mounts, mountReport{
			Source:      m.Entry.Source,
			Destination: m.Destination,
			ReadOnly:    m.Entry.ReadOnly,
			Mounted:     m.Mounted,
			MountedRO:   m.ReadOnly,
		})
	}
	return r
}

// writeStatus writes st to w in format.
func writeStatus(w io.Writer, st *fw32.Status, format string) error {
	switch format {
	case "text":
		return printStatus(w, st)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newStatusReport(st))
	case "yaml":
		b, err := yaml.Marshal(newStatusReport(st))
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	return cmdline.FlagError(fmt.Sprintf("unknown output format %q", format))
}

func mode(readOnly bool) string {
	if readOnly {
		return "ro"
	}
	return "rw"
}

func printStatus(w io.Writer, st *fw32.Status) error {
	if !st.Exists {
		fmt.Fprintf(w, "Sandbox %s does not exist\n", st.Root)
	} else {
		fmt.Fprintf(w, "Sandbox %s\n", st.Root)
	}
	fmt.Fprintf(w, "Package cache: %s\n\n", units.HumanSize(float64(st.CacheSize)))

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tDESTINATION\tMODE\tMOUNTED")
	for _, m := range st.Mounts {
		live := "no"
		if m.Mounted {
			live = "yes (" + mode(m.ReadOnly) + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Entry.Source, m.Destination, mode(m.Entry.ReadOnly), live)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(st.Unknown) > 0 {
		fmt.Fprintf(w, "\nOther mounts beneath %s:\n", st.Root)
		for _, p := range st.Unknown {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
	return nil
}
