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

	"github.com/sanity-io/litter"
)

// ParseArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains all the flags for the `parse` subcommand.
type ParseArgs struct {
	Template string `arg:"positional,required" help:"address template to parse"`

	Dump bool `arg:"--dump" help:"dump the parsed tokens in full"`
}

// Run executes the correct subcommand. It errors if there's ever an error. It
// returns true if we did activate one of the subcommands. It returns false if
// we did not. This particular Run is the run for the main `parse` subcommand.
func (obj *ParseArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	at := template.Parse(obj.Template)

	fmt.Fprintf(data.Out, "template: %s\n", at)
	fmt.Fprintf(data.Out, "optional: %t\n", at.Optional())
	fmt.Fprintf(data.Out, "size: %d\n", at.Size())
	if rt := at.ResourceType(); rt != "" {
		fmt.Fprintf(data.Out, "resource type: %s\n", rt)
	}

	if obj.Dump {
		opts := litter.Options{
			StripPackageNames: true,
			HidePrivateFields: false,
		}
		fmt.Fprintf(data.Out, "%s\n", opts.Sdump(at.Tokens()))
		return true, nil
	}
	for i, token := range at.Tokens() {
		if token.HasKey() {
			fmt.Fprintf(data.Out, "token #%d: key: %s, value: %s\n", i, token.Key(), token.Value())
			continue
		}
		fmt.Fprintf(data.Out, "token #%d: %s\n", i, token.Value())
	}
	return true, nil
}
