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

package statement

// WellKnown is a placeholder that the console always provides, along with the
// resource type that its tuple resolves to.
type WellKnown struct {
	Name         string
	ResourceType string
}

// The well-known placeholders.
var (
	DomainController     = WellKnown{Name: "domain.controller", ResourceType: "host"}
	SelectedProfile      = WellKnown{Name: "selected.profile", ResourceType: "profile"}
	SelectedGroup        = WellKnown{Name: "selected.group", ResourceType: "server-group"}
	SelectedHost         = WellKnown{Name: "selected.host", ResourceType: "host"}
	SelectedServerConfig = WellKnown{Name: "selected.server-config", ResourceType: "server-config"}
	SelectedServer       = WellKnown{Name: "selected.server", ResourceType: "server"}
)

var wellKnown = []WellKnown{
	DomainController,
	SelectedProfile,
	SelectedGroup,
	SelectedHost,
	SelectedServerConfig,
	SelectedServer,
}

// Lookup returns the well-known placeholder with this name, if there is one.
func Lookup(name string) (WellKnown, bool) {
	for _, x := range wellKnown {
		if x.Name == name {
			return x, true
		}
	}
	return WellKnown{}, false
}

// Variable returns the placeholder as it's written in a template.
func (obj WellKnown) Variable() string {
	return "{" + obj.Name + "}"
}

// Tuple returns the tuple for this placeholder with the given value.
func (obj WellKnown) Tuple(value string) Tuple {
	return Tuple{Key: obj.ResourceType, Value: value}
}
