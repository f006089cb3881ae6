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
	"strings"

	cliUtil "github.com/purpleidea/hal/cli/util"
	"github.com/purpleidea/hal/template"
	"github.com/purpleidea/hal/util/errwrap"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// CheckArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains all the flags for the `check` subcommand.
type CheckArgs struct {
	ContextArgs

	File string `arg:"positional,required" help:"yaml file with a list of templates"`
}

// Run executes the correct subcommand. It errors if there's ever an error. It
// returns true if we did activate one of the subcommands. It returns false if
// we did not. This particular Run is the run for the main `check` subcommand.
// Every template is resolved strictly, and all of the problems are returned
// together.
func (obj *CheckArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	sc, err := obj.ContextArgs.Load(data)
	if err != nil {
		return false, err
	}

	b, err := afero.ReadFile(data.Fs, obj.File)
	if err != nil {
		return false, errwrap.Wrapf(err, "could not read: %s", obj.File)
	}
	templates := []string{}
	if err := yaml.UnmarshalStrict(b, &templates); err != nil {
		return false, errwrap.Wrapf(err, "could not parse: %s", obj.File)
	}
	if len(templates) == 0 {
		return false, cliUtil.ErrNoTemplates
	}

	resolver := newResolver(data)
	var reterr error
	for _, s := range templates {
		if strings.TrimSpace(s) == "" {
			continue
		}
		at := template.Parse(s)
		addr, err := resolver.ResolveStrict(at, sc)
		for _, e := range errwrap.Errors(err) {
			reterr = errwrap.Append(reterr, e)
		}
		if err != nil {
			fmt.Fprintf(data.Out, "fail: %s\n", at)
			continue
		}
		fmt.Fprintf(data.Out, "ok: %s -> %s\n", at, addr)
	}
	if reterr != nil {
		return false, errwrap.Wrapf(reterr, "check failed with %d problem(s)", len(errwrap.Errors(reterr)))
	}
	return true, nil
}
