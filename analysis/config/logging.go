// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"io"
	"log"
	"os"
)

// LogLevel is the verbosity of a LogGroup
type LogLevel int

const (
	// ErrLevel=1 - the minimum level of logging.
	ErrLevel LogLevel = iota + 1

	// WarnLevel=2 - the level for logging warnings, and errors
	WarnLevel

	// InfoLevel=3 - the level for logging high-level information, results
	InfoLevel

	// DebugLevel=4 - the level for debugging information. The tool will run properly on large programs with
	// that level of debug information.
	DebugLevel

	// TraceLevel=5 - the level for tracing every canonicalization decision. Only useful on small programs.
	TraceLevel
)

func (l LogLevel) prefix() string {
	switch l {
	case ErrLevel:
		return "[ERROR] "
	case WarnLevel:
		return "[WARN] "
	case InfoLevel:
		return "[INFO] "
	case DebugLevel:
		return "[DEBUG] "
	default:
		return "[TRACE] "
	}
}

// A LogGroup holds one logger per level, and only prints messages at or below its level. Warnings and errors go to
// the standard error, the other levels to the standard output.
type LogGroup struct {
	level   LogLevel
	loggers [TraceLevel + 1]*log.Logger
}

// NewLogGroup returns a log group that is configured to the logging settings stored inside the config
func NewLogGroup(config *Config) *LogGroup {
	flags := log.Default().Flags()
	l := &LogGroup{level: LogLevel(config.LogLevel)}
	for lvl := ErrLevel; lvl <= TraceLevel; lvl++ {
		var w io.Writer = os.Stdout
		if lvl <= WarnLevel {
			w = os.Stderr
		}
		if lvl == WarnLevel && config.SilenceWarn {
			w = io.Discard
		}
		l.loggers[lvl] = log.New(w, lvl.prefix(), flags)
	}
	return l
}

// Level returns the logging level of the group
func (l *LogGroup) Level() LogLevel {
	return l.level
}

// Enabled returns true when messages of level lvl are printed.
func (l *LogGroup) Enabled(lvl LogLevel) bool {
	return lvl <= l.level
}

// Logger returns the logger of level lvl, for applications that need a logger as input
func (l *LogGroup) Logger(lvl LogLevel) *log.Logger {
	if lvl < ErrLevel {
		lvl = ErrLevel
	} else if lvl > TraceLevel {
		lvl = TraceLevel
	}
	return l.loggers[lvl]
}

// SetAllOutput sets all the output writers to the writer provided
func (l *LogGroup) SetAllOutput(w io.Writer) {
	for _, lg := range l.loggers[ErrLevel:] {
		lg.SetOutput(w)
	}
}

// SetAllFlags sets the flag of all loggers in the log group to the argument provided
func (l *LogGroup) SetAllFlags(x int) {
	for _, lg := range l.loggers[ErrLevel:] {
		lg.SetFlags(x)
	}
}

func (l *LogGroup) logf(lvl LogLevel, format string, v ...any) {
	if l.Enabled(lvl) {
		l.loggers[lvl].Printf(format, v...)
	}
}

// Tracef prints to the trace logger. Arguments are handled in the manner of Printf
func (l *LogGroup) Tracef(format string, v ...any) { l.logf(TraceLevel, format, v...) }

// Debugf prints to the debug logger. Arguments are handled in the manner of Printf
func (l *LogGroup) Debugf(format string, v ...any) { l.logf(DebugLevel, format, v...) }

// Infof prints to the info logger. Arguments are handled in the manner of Printf
func (l *LogGroup) Infof(format string, v ...any) { l.logf(InfoLevel, format, v...) }

// Warnf prints to the warning logger. Arguments are handled in the manner of Printf
func (l *LogGroup) Warnf(format string, v ...any) { l.logf(WarnLevel, format, v...) }

// Errorf prints to the error logger. Arguments are handled in the manner of Printf
func (l *LogGroup) Errorf(format string, v ...any) { l.logf(ErrLevel, format, v...) }
