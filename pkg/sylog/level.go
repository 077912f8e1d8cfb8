// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package sylog

type messageLevel int

const (
	FatalLevel   messageLevel = iota - 4 // fatal     : -4
	ErrorLevel                           // error     : -3
	WarnLevel                            // warn      : -2
	LogLevel                             // log       : -1
	_                                    // SKIP      : 0
	InfoLevel                            // info      : 1
	VerboseLevel                         // verbose   : 2
	_                                    // verbose2  : 3
	_                                    // verbose3  : 4
	DebugLevel                           // debug     : 5
)

func (l messageLevel) String() string {
	str, ok := messageLabels[l]
	if !ok {
		str = "????"
	}
	return str
}

var messageLabels = map[messageLevel]string{
	FatalLevel:   "FATAL",
	ErrorLevel:   "ERROR",
	WarnLevel:    "WARNING",
	LogLevel:     "LOG",
	InfoLevel:    "INFO",
	VerboseLevel: "VERBOSE",
	DebugLevel:   "DEBUG",
}
