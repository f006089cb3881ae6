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

package cli

import (
	"context"
	"fmt"

	cliUtil "github.com/purpleidea/hal/cli/util"
	"github.com/purpleidea/hal/template"
	"github.com/purpleidea/hal/util/errwrap"
)

// ResolveArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains all the flags for the `resolve` subcommand.
type ResolveArgs struct {
	ContextArgs

	Template string `arg:"positional,required" help:"address template to resolve"`

	Wildcards []string `arg:"--wildcard,separate" help:"value for the next wildcard, may be repeated"`

	Strict bool `arg:"--strict" help:"fail if any placeholder can't be resolved"`
}

// Run executes the correct subcommand. It errors if there's ever an error. It
// returns true if we did activate one of the subcommands. It returns false if
// we did not. This particular Run is the run for the main `resolve` subcommand.
func (obj *ResolveArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	sc, err := obj.ContextArgs.Load(data)
	if err != nil {
		return false, err
	}

	at := template.Parse(obj.Template)
	resolver := newResolver(data)
	addr, err := resolver.ResolveStrict(at, sc, obj.Wildcards...)
	if obj.Strict && err != nil {
		return false, errwrap.Wrapf(err, "could not resolve: %s", at)
	}

	fmt.Fprintf(data.Out, "%s\n", addr)
	return true, nil
}

// ReplaceArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains all the flags for the `replace` subcommand.
type ReplaceArgs struct {
	Template string `arg:"positional,required" help:"address template"`

	Wildcards []string `arg:"positional,required" help:"values for the wildcards, in order"`
}

// Run executes the correct subcommand. It errors if there's ever an error. It
// returns true if we did activate one of the subcommands. It returns false if
// we did not. This particular Run is the run for the main `replace` subcommand.
func (obj *ReplaceArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	at := template.Parse(obj.Template)
	out := at.ReplaceWildcards(obj.Wildcards[0], obj.Wildcards[1:]...)
	fmt.Fprintf(data.Out, "%s\n", out)
	return true, nil
}
