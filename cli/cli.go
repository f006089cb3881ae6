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

// Package cli handles all of the core command line parsing. It's the first
// entry point after the real main function, and it runs the subcommands.
package cli

import (
	"context"
	"fmt"

	cliUtil "github.com/purpleidea/hal/cli/util"
	"github.com/purpleidea/hal/util/errwrap"

	"github.com/alexflint/go-arg"
)

// CLI is the entry point for using hal normally from the CLI.
func CLI(ctx context.Context, data *cliUtil.Data) error {
	// test for sanity
	if data == nil {
		return fmt.Errorf("this CLI was not run correctly")
	}
	if data.Program == "" || data.Version == "" {
		return fmt.Errorf("program was not compiled correctly")
	}
	if data.Copying == "" {
		return fmt.Errorf("program copyrights were removed, can't run")
	}
	if len(data.Args) == 0 {
		return fmt.Errorf("missing program name in args")
	}
	data.Init()

	args := Args{}
	args.version = data.Version // copy this in
	args.description = data.Tagline

	config := arg.Config{
		Program: data.Program,
	}
	parser, err := arg.NewParser(config, &args)
	if err != nil {
		// programming error
		return errwrap.Wrapf(err, "cli config error")
	}
	err = parser.Parse(data.Args[1:]) // args[0] is the program name
	if err == arg.ErrHelp {
		parser.WriteHelp(data.Out)
		return nil
	}
	if err == arg.ErrVersion {
		fmt.Fprintf(data.Out, "%s\n", data.Version) // byon: bring your own newline
		return nil
	}
	if err != nil {
		return cliUtil.CliParseError(err) // consistent errors
	}

	// display the license
	if args.License {
		fmt.Fprintf(data.Out, "%s", data.Copying) // file comes with a trailing nl
		return nil
	}

	if args.Debug {
		data.Flags.Debug = true
	}
	if args.Verbose {
		data.Flags.Verbose = true
	}

	if ok, err := args.Run(ctx, data); err != nil {
		return err
	} else if ok { // did we activate one of the commands?
		return nil
	}

	// print help if no subcommands are set
	parser.WriteHelp(data.Out)

	return nil
}

// Args is the CLI parsing structure and type of the parsed result. This
// particular struct is the top-most one.
type Args struct {
	License bool `arg:"--license" help:"display the license and exit"`

	Debug bool `arg:"--debug,env:HAL_DEBUG" help:"add additional log messages"`

	Verbose bool `arg:"--verbose,env:HAL_VERBOSE" help:"add extra log message output"`

	ParseCmd *ParseArgs `arg:"subcommand:parse" help:"parse a template and show its tokens"`

	ResolveCmd *ResolveArgs `arg:"subcommand:resolve" help:"resolve a template into an address"`

	ReplaceCmd *ReplaceArgs `arg:"subcommand:replace" help:"replace the wildcards of a template"`

	CheckCmd *CheckArgs `arg:"subcommand:check" help:"strictly resolve a file of templates"`

	ServeCmd *ServeArgs `arg:"subcommand:serve" help:"resolve templates over http"`

	// version is a private handle for our version string.
	version string `arg:"-"` // ignored from parsing

	// description is a private handle for our description string.
	description string `arg:"-"` // ignored from parsing
}

// Version returns the version string. Implementing this signature is part of
// the API for the cli library.
func (obj *Args) Version() string {
	return obj.version
}

// Description returns a description string. Implementing this signature is part
// of the API for the cli library.
func (obj *Args) Description() string {
	return obj.description
}

// Run executes the correct subcommand. It errors if there's ever an error. It
// returns true if we did activate one of the subcommands. It returns false if
// we did not. This information is used so that the top-level parser can return
// usage or help information if no subcommand activates.
func (obj *Args) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	var name string
	var cmd runner
	if c := obj.ParseCmd; c != nil {
		name = cliUtil.LookupSubcommand(obj, c) // "parse"
		cmd = c
	}
	if c := obj.ResolveCmd; c != nil {
		name = cliUtil.LookupSubcommand(obj, c) // "resolve"
		cmd = c
	}
	if c := obj.ReplaceCmd; c != nil {
		name = cliUtil.LookupSubcommand(obj, c) // "replace"
		cmd = c
	}
	if c := obj.CheckCmd; c != nil {
		name = cliUtil.LookupSubcommand(obj, c) // "check"
		cmd = c
	}
	if c := obj.ServeCmd; c != nil {
		name = cliUtil.LookupSubcommand(obj, c) // "serve"
		cmd = c
	}
	if cmd == nil {
		return false, nil // nobody activated
	}

	if data.Flags.Debug {
		data.Flags.Logf("cli: subcommand: %s", name)
	}
	return cmd.Run(ctx, data)
}

// runner is what each subcommand implements.
type runner interface {
	Run(context.Context, *cliUtil.Data) (bool, error)
}

// logf returns a logger for the named subcommand.
func logf(data *cliUtil.Data, name string) func(format string, v ...interface{}) {
	return func(format string, v ...interface{}) {
		data.Flags.Logf(name+": "+format, v...)
	}
}
