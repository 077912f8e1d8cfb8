// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Command generate renders the nfpm package description of fw32.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"text/template"

	"github.com/frugalware/fw32/internal/pkg/buildcfg"
)

// commands are installed as fw32-<command> links to the fw32 binary.
var commands = []string{
	"create", "update", "delete", "run", "upgrade", "merge", "install",
	"install-package", "remove", "clean", "mount-all", "umount-all",
}

type TemplateData struct {
	ConfDir string
	BinDir  string

	Platform string
	Arch     string

	Version     string
	AppName     string
	PackageName string

	Commands []string
}

func main() {
	flagSet := flag.NewFlagSet("generate", flag.ExitOnError)
	version := flagSet.String("version", buildcfg.PACKAGE_VERSION, "generate package with version")
	prefix := flagSet.String("prefix", "/usr", "generate package with prefix")
	packageName := flagSet.String("name", buildcfg.PACKAGE_NAME, "package name")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		log.Fatal(err)
	}

	if *prefix == "" {
		log.Fatalf("a package prefix is required")
	}

	td := TemplateData{
		AppName:     buildcfg.PACKAGE_NAME,
		PackageName: *packageName,
		BinDir:      filepath.Join(*prefix, "bin"),
		ConfDir:     filepath.Dir(buildcfg.FW32_CONF_FILE),
		Version:     *version,
		Platform:    runtime.GOOS,
		Arch:        runtime.GOARCH,
		Commands:    commands,
	}

	file := "dist/nfpm/nfpm.yaml"
	t, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("while reading %s: %s", file, err)
	}

	buf := new(bytes.Buffer)
	tmpl, err := template.New("nfpm.yaml").Parse(string(t))
	if err != nil {
		log.Fatalf("while parsing template nfpm.yaml: %s", err)
	}
	if err := tmpl.Execute(buf, &td); err != nil {
		log.Fatalf("while executing template nfpm.yaml: %s", err)
	}

	fmt.Println(buf.String())
}
