// Mgmt
// Copyright (C) 2013-2024+ James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package util has some CLI related utility code.
package util

import (
	"io"
	"os"

	"github.com/purpleidea/hal/util/errwrap"

	"github.com/spf13/afero"
)

// Error is a constant error type that implements error.
type Error string

// Error fulfills the error interface of this type.
func (e Error) Error() string { return string(e) }

const (
	// ErrNoTemplates is returned when a check file contains no templates.
	ErrNoTemplates = Error("no templates to check")

	// ErrContextConflict is returned when a context file and the noop
	// context are both requested.
	ErrContextConflict = Error("can't use a context file with --noop")
)

// CliParseError returns a consistent error if we have a CLI parsing issue.
func CliParseError(err error) error {
	return errwrap.Wrapf(err, "cli parse error")
}

// Flags are some constant flags which are used throughout the program.
type Flags struct {
	Debug   bool // add additional log messages
	Verbose bool // add extra log message output

	// Logf is where all the log messages go. Each subcommand adds its own
	// prefix.
	Logf func(format string, v ...interface{})
}

// Data is a struct of values that we usually pass to the main CLI function.
type Data struct {
	Program string
	Version string
	Copying string
	Tagline string
	Flags   Flags
	Args    []string // os.Args usually

	// Fs is where files are read from. It defaults to the os filesystem.
	Fs afero.Fs

	// Out is where results are printed. It defaults to stdout.
	Out io.Writer
}

// Init fills in any missing defaults.
func (obj *Data) Init() {
	if obj.Fs == nil {
		obj.Fs = afero.NewOsFs()
	}
	if obj.Out == nil {
		obj.Out = os.Stdout
	}
	if obj.Flags.Logf == nil {
		obj.Flags.Logf = func(format string, v ...interface{}) {}
	}
}
