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
	cliUtil "github.com/purpleidea/hal/cli/util"
	"github.com/purpleidea/hal/statement"
	"github.com/purpleidea/hal/template"
	"github.com/purpleidea/hal/util/errwrap"
)

// ContextArgs are the flags which pick the statement context to resolve with.
// They are shared by the subcommands which resolve templates.
type ContextArgs struct {
	Context string `arg:"--context,env:HAL_CONTEXT" help:"yaml file with the statement context"`

	Noop bool `arg:"--noop" help:"resolve every placeholder to its own name"`
}

// Load returns the statement context these flags ask for. With neither flag,
// the empty context is used.
func (obj *ContextArgs) Load(data *cliUtil.Data) (statement.Context, error) {
	if obj.Noop && obj.Context != "" {
		return nil, cliUtil.ErrContextConflict
	}
	if obj.Noop {
		return statement.Noop{}, nil
	}
	if obj.Context == "" {
		return statement.Empty{}, nil
	}
	sc, err := statement.LoadFile(data.Fs, obj.Context)
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not load context")
	}
	if data.Flags.Debug {
		data.Flags.Logf("context: loaded %d placeholder(s) from %s", len(sc.Names()), obj.Context)
	}
	return sc, nil
}

func newResolver(data *cliUtil.Data) *template.Resolver {
	return &template.Resolver{
		Debug: data.Flags.Debug,
		Logf:  logf(data, "resolve"),
	}
}
