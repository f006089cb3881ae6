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

// Package statement contains the statement context, which is what address
// templates get resolved against. A statement context knows the values of the
// placeholders that appear in templates, such as the currently selected
// profile or host.
package statement

// Tuple is a placeholder that resolves to a whole address segment, such as
// `{selected.profile}` resolving to `profile=full`.
type Tuple struct {
	Key   string
	Value string
}

// String returns the key=value form of this tuple.
func (obj Tuple) String() string {
	return obj.Key + "=" + obj.Value
}

// Context is the interface that a statement context must implement. Lookups are
// synchronous and must not block: any data they depend on should be fetched
// before resolution starts.
type Context interface {
	// Resolve returns the single value of the named placeholder.
	Resolve(name string) (string, bool)

	// ResolveTuple returns the single tuple of the named placeholder.
	ResolveTuple(name string) (Tuple, bool)

	// Collect returns every value of the named placeholder. This is used
	// when the same placeholder appears more than once in a template. The
	// list is ordered from the least to the most specific value, and an
	// unknown name returns an empty list.
	Collect(name string) []string

	// CollectTuples is the tuple form of Collect.
	CollectTuples(name string) []Tuple
}

// Empty is a context which can't resolve anything.
type Empty struct{}

// Resolve never finds anything.
func (Empty) Resolve(string) (string, bool) { return "", false }

// ResolveTuple never finds anything.
func (Empty) ResolveTuple(string) (Tuple, bool) { return Tuple{}, false }

// Collect always returns an empty list.
func (Empty) Collect(string) []string { return []string{} }

// CollectTuples always returns an empty list.
func (Empty) CollectTuples(string) []Tuple { return []Tuple{} }

// Noop is a context which resolves every placeholder to its own name. A tuple
// resolves to the name for both its key and value. It's useful for showing
// the shape of a template, and in tests.
type Noop struct{}

// Resolve returns the name.
func (Noop) Resolve(name string) (string, bool) { return name, true }

// ResolveTuple returns a tuple of the name.
func (Noop) ResolveTuple(name string) (Tuple, bool) { return Tuple{Key: name, Value: name}, true }

// Collect returns a list containing the name.
func (Noop) Collect(name string) []string { return []string{name} }

// CollectTuples returns a list containing a tuple of the name.
func (Noop) CollectTuples(name string) []Tuple { return []Tuple{{Key: name, Value: name}} }
