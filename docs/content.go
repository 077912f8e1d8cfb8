// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// Copyright (c) 2017-2021, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package docs

// Global content for help and man pages
const (

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// main fw32 command
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	Fw32Use   string = `fw32 [global options...]`
	Fw32Short string = `
Manage a 32-bit Frugalware sandbox on a 64-bit host`
	Fw32Long string = `
  fw32 maintains a 32-bit root file system next to the host. Host directories
  such as /home, /tmp or /dev are bind mounted into it, and the sandbox
  packages are managed by pacman-g2 running on the host against the sandbox
  root. Every command may also be invoked through a "fw32-<command>" link,
  the link name selecting the command.`
	Fw32Example string = `
  $ fw32 help <command>
  $ fw32 create
  $ fw32-run make`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// create
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	CreateUse   string = `create`
	CreateShort string = `Create the sandbox and install the default packages`
	CreateLong  string = `
  The create command creates the sandbox root with every bind mount
  destination, mounts the package cache and installs the default package set
  with pacman-g2. It fails when the sandbox root already exists.`
	CreateExample string = `
  $ fw32 create`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// update
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	UpdateUse   string = `update`
	UpdateShort string = `Refresh the default packages of the sandbox`
	UpdateLong  string = `
  The update command recreates the missing bind mount destinations and
  installs the default package set again, upgrading older versions.`
	UpdateExample string = `
  $ fw32 update`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// delete
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	DeleteUse   string = `delete`
	DeleteShort string = `Unmount and remove the sandbox`
	DeleteLong  string = `
  The delete command unmounts everything beneath the sandbox root, then
  removes the sandbox root. Nothing is removed while a mount is left.`
	DeleteExample string = `
  $ fw32 delete`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// run
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	RunUse   string = `run [command [args...]]`
	RunShort string = `Run a command or a shell inside the sandbox`
	RunLong  string = `
  The run command mounts the sandbox directories and runs the given command
  chrooted in the sandbox as the invoking user. Without a command the user
  login shell is started. The command starts in the current working directory
  when it exists inside the sandbox, in the user home directory otherwise.

  fw32 run must be installed setuid root and invoked by a regular user. The
  exit status of the command is returned.`
	RunExample string = `
  $ fw32 run
  $ fw32 run make -j4
  $ fw32-run ./configure --prefix=/usr`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// upgrade
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	UpgradeUse   string = `upgrade`
	UpgradeShort string = `Upgrade every package of the sandbox`
	UpgradeLong  string = `
  The upgrade command upgrades all the sandbox packages. When the host has a
  Frugalware source tree, it is updated and upgraded with repoman inside the
  sandbox. The font cache of the sandbox is refreshed last.`
	UpgradeExample string = `
  $ fw32 upgrade`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// merge
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	MergeUse   string = `merge <package> [<package>...]`
	MergeShort string = `Build and install packages from the source tree`
	MergeLong  string = `
  The merge command updates the source tree of the sandbox, then builds and
  installs the given packages with repoman.`
	MergeExample string = `
  $ fw32 merge wine`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// install
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	InstallUse   string = `install <package> [<package>...]`
	InstallShort string = `Install packages from the repositories`
	InstallLong  string = `
  The install command installs the given packages in the sandbox with
  pacman-g2, synchronizing the repositories first.`
	InstallExample string = `
  $ fw32 install wine`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// install-package
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	InstallPackageUse   string = `install-package <file> [<file>...]`
	InstallPackageShort string = `Install package files`
	InstallPackageLong  string = `
  The install-package command installs local package files in the sandbox
  with pacman-g2.`
	InstallPackageExample string = `
  $ fw32 install-package wine-1.0-1-i686.fpm`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// remove
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	RemoveUse   string = `remove <package> [<package>...]`
	RemoveShort string = `Remove packages from the sandbox`
	RemoveExample string = `
  $ fw32 remove wine`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// clean
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	CleanUse   string = `clean`
	CleanShort string = `Remove the cached package files`
	CleanLong  string = `
  The clean command removes the package files cached by pacman-g2 for the
  sandbox and reports the reclaimed space.`
	CleanExample string = `
  $ fw32 clean`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// mount-all / unmount-all
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	MountAllUse     string = `mount-all`
	MountAllShort   string = `Mount every sandbox directory`
	UnmountAllUse   string = `unmount-all`
	UnmountAllShort string = `Unmount everything beneath the sandbox root`
	UnmountAllLong  string = `
  The unmount-all command unmounts every mount point located beneath the
  sandbox root, deepest first, including mounts fw32 did not create.`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// status
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	StatusUse   string = `status`
	StatusShort string = `Show the state of the sandbox`
	StatusLong  string = `
  The status command lists the sandbox directories with their mount state,
  the mounts beneath the sandbox root fw32 does not know about and the size
  of the package cache. Nothing is modified.`
	StatusExample string = `
  $ fw32 status`
)
