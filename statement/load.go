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

import (
	"fmt"

	"github.com/purpleidea/hal/util/errwrap"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// Config is the data structure of a statement context file. Lists are ordered
// from the least to the most specific entry.
//
//	values:
//	  selected.profile: [full-ha]
//	tuples:
//	  selected.host:
//	    - [host, primary]
//	    - [host, secondary]
type Config struct {
	Values map[string][]string   `yaml:"values"`
	Tuples map[string][][]string `yaml:"tuples"`
}

// Static builds a static context out of this config. Every tuple must have
// exactly two elements.
func (obj *Config) Static() (*Static, error) {
	sc := NewStatic()
	for name, values := range obj.Values {
		sc.SetValue(name, values...)
	}
	for name, list := range obj.Tuples {
		tuples := []Tuple{}
		for i, pair := range list {
			if len(pair) != 2 {
				return nil, fmt.Errorf("tuple #%d of `%s` has %d elements, expected 2", i, name, len(pair))
			}
			tuples = append(tuples, Tuple{Key: pair[0], Value: pair[1]})
		}
		sc.SetTuple(name, tuples...)
	}
	return sc, nil
}

// Load parses a statement context from yaml.
func Load(data []byte) (*Static, error) {
	config := &Config{}
	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return nil, errwrap.Wrapf(err, "could not parse statement context")
	}
	return config.Static()
}

// LoadFile reads and parses a statement context file from the filesystem.
func LoadFile(fs afero.Fs, path string) (*Static, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not read statement context file: %s", path)
	}
	sc, err := Load(data)
	return sc, errwrap.Wrapf(err, "bad statement context file: %s", path)
}
