// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package sylog

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// LevelEnv carries the message level (and color choice) from fw32 to the
// fw32 helper processes it starts.
const LevelEnv = "FW32_MESSAGELEVEL"

var messageColors = map[messageLevel]*color.Color{
	FatalLevel: color.New(color.FgRed),
	ErrorLevel: color.New(color.FgRed),
	WarnLevel:  color.New(color.FgYellow),
	InfoLevel:  color.New(color.FgBlue),
}

var (
	loggerLevel = InfoLevel
	useColor    = true
	logWriter   = (io.Writer)(os.Stderr)
)

func init() {
	v, ok := os.LookupEnv(LevelEnv)
	if !ok {
		return
	}
	level, colored, _ := strings.Cut(v, ",")
	if l, err := strconv.Atoi(level); err == nil {
		loggerLevel = messageLevel(l)
	}
	useColor = colored != "nocolor"
}

func prefix(msgLevel messageLevel) string {
	label := fmt.Sprintf("%-8s", msgLevel.String()+":")
	if c, ok := messageColors[msgLevel]; ok && useColor {
		c.EnableColor()
		label = c.Sprint(label)
	}

	if loggerLevel < DebugLevel {
		return label + " "
	}

	funcName := "????()"
	if pc, _, _, ok := runtime.Caller(3); ok {
		if details := runtime.FuncForPC(pc); details != nil {
			parts := strings.Split(details.Name(), ".")
			funcName = parts[len(parts)-1] + "()"
		}
	}

	ids := fmt.Sprintf("[U=%d,P=%d]", os.Geteuid(), os.Getpid())

	return fmt.Sprintf("%s%-19s%-30s", label, ids, funcName)
}

func writef(msgLevel messageLevel, format string, a ...interface{}) {
	if loggerLevel < msgLevel {
		return
	}

	message := strings.TrimRight(fmt.Sprintf(format, a...), "\n")

	fmt.Fprintf(logWriter, "%s%s\n", prefix(msgLevel), message)
}

// Fatalf is equivalent to a call to Errorf followed by os.Exit(255). Code that
// may be imported by other projects should NOT use Fatalf.
func Fatalf(format string, a ...interface{}) {
	writef(FatalLevel, format, a...)
	os.Exit(255)
}

// Errorf writes an ERROR level message to the log but does not exit.
func Errorf(format string, a ...interface{}) {
	writef(ErrorLevel, format, a...)
}

// Warningf writes a WARNING level message to the log.
func Warningf(format string, a ...interface{}) {
	writef(WarnLevel, format, a...)
}

// Infof writes an INFO level message to the log. By default, INFO level messages
// will always be output (unless running in silent)
func Infof(format string, a ...interface{}) {
	writef(InfoLevel, format, a...)
}

// Verbosef writes a VERBOSE level message to the log.
func Verbosef(format string, a ...interface{}) {
	writef(VerboseLevel, format, a...)
}

// Debugf writes a DEBUG level message to the log.
func Debugf(format string, a ...interface{}) {
	writef(DebugLevel, format, a...)
}

// SetLevel explicitly sets the logger level and whether level labels
// are colored.
func SetLevel(l int, colored bool) {
	loggerLevel = messageLevel(l)
	useColor = colored
}

// GetLevel returns the current log level as integer
func GetLevel() int {
	return int(loggerLevel)
}

// GetEnvVar returns a formatted environment variable string which
// can later be interpreted by init() in a child proc
func GetEnvVar() string {
	colored := "color"
	if !useColor {
		colored = "nocolor"
	}
	return fmt.Sprintf("%s=%d,%s", LevelEnv, loggerLevel, colored)
}

// Writer returns an io.Writer to pass to an external packages logging utility.
// i.e when --quiet option is set, this function returns io.Discard writer to ignore output
func Writer() io.Writer {
	if loggerLevel <= LogLevel {
		return io.Discard
	}

	return logWriter
}

// SetWriter sets a new io.Writer for subsequent logging
// returns the previous writer so that it may be restored by the caller
// useful to capture log output during unit tests
func SetWriter(writer io.Writer) io.Writer {
	oldWriter := logWriter
	if writer != nil {
		logWriter = writer
	}
	return oldWriter
}
