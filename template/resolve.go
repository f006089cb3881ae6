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

package template

import (
	"log"
	"strings"

	"github.com/purpleidea/hal/address"
	"github.com/purpleidea/hal/statement"
	"github.com/purpleidea/hal/util/errwrap"
)

// Observer gets told about every resolution. It's used for metrics.
type Observer interface {
	// Resolved is called after each resolution with the number of
	// placeholders that could not be resolved.
	Resolved(unresolved int)
}

// Resolver turns templates into addresses. The zero value is ready to use, and
// it doesn't log anything.
type Resolver struct {
	Debug bool
	Logf  func(format string, v ...interface{})

	// Observer is optional.
	Observer Observer
}

// defaultResolver is what Template.Resolve uses.
var defaultResolver = &Resolver{
	Logf: func(format string, v ...interface{}) {
		log.Printf("template: "+format, v...)
	},
}

// Resolve resolves the template against the statement context, and logs any
// problems with the standard logger. See Resolver.Resolve for the details.
func (obj *Template) Resolve(sc statement.Context, wildcards ...string) *address.Address {
	return defaultResolver.Resolve(obj, sc, wildcards...)
}

// Resolve returns the address that the template resolves to in the statement
// context. Each wildcard value in the template is replaced by the next of the
// wildcards arguments, until they run out. This never fails. A tuple variable
// which can't be resolved is left out of the address, and a key or value
// variable which can't be resolved becomes Blank. Both cases are logged.
//
// When the same variable appears more than once, each occurrence gets the next
// value the context collected for it, starting with the last one. This way the
// first occurrence gets the most specific value.
func (obj *Resolver) Resolve(t *Template, sc statement.Context, wildcards ...string) *address.Address {
	addr, _ := obj.resolve(t, sc, wildcards)
	return addr
}

// ResolveStrict is like Resolve, but it also returns an error listing every
// placeholder which could not be resolved. The address is always returned.
func (obj *Resolver) ResolveStrict(t *Template, sc statement.Context, wildcards ...string) (*address.Address, error) {
	addr, unresolved := obj.resolve(t, sc, wildcards)
	var reterr error
	for _, ref := range unresolved {
		reterr = errwrap.Append(reterr, errwrap.Wrapf(ErrUnresolved, "`%s` in `%s`", ref, t))
	}
	return addr, reterr
}

func (obj *Resolver) logf(format string, v ...interface{}) {
	if obj.Logf == nil {
		return
	}
	obj.Logf(format, v...)
}

// resolve does the work, and also returns the references that it couldn't
// resolve.
func (obj *Resolver) resolve(t *Template, sc statement.Context, wildcards []string) (*address.Address, []string) {
	if sc == nil {
		sc = statement.Empty{}
	}
	segments := []address.Segment{}
	unresolved := []string{}
	wildcardCount := 0
	tuples := newMemory[statement.Tuple]()
	values := newMemory[string]()

	for i, token := range t.tokens {
		if obj.Debug {
			obj.logf("token #%d: %s", i, token)
		}

		if !token.HasKey() {
			ref := token.Value()
			if name, ok := variable(ref); ok {
				if !tuples.contains(name) {
					tuples.memorize(name, sc.CollectTuples(name))
				}
				tuple, ok := tuples.next(name)
				if !ok {
					obj.logf("suppressing `%s` in `%s`, it can't be resolved", ref, t)
					unresolved = append(unresolved, ref)
					continue
				}
				segments = append(segments, address.Segment{Name: tuple.Key, Value: tuple.Value})
				continue
			}

			// a literal, which is only valid as a key=value pair
			key, value, ok := strings.Cut(ref, "=")
			if !ok {
				obj.logf("suppressing `%s` in `%s`, it's not a key=value pair", ref, t)
				unresolved = append(unresolved, ref)
				continue
			}
			segments = append(segments, address.Segment{Name: key, Value: value})
			continue
		}

		key, ok := resolveSome(sc, values, token.Key())
		if !ok {
			obj.logf("key `%s` in `%s` can't be resolved, using %s", token.Key(), t, Blank)
			unresolved = append(unresolved, token.Key())
		}
		if key == "" {
			key = Blank
		}

		value, ok := resolveSome(sc, values, token.Value())
		if !ok {
			obj.logf("value `%s` in `%s` can't be resolved, using %s", token.Value(), t, Blank)
			unresolved = append(unresolved, token.Value())
		}
		if value == "" {
			value = Blank
		}

		if value == Wildcard && wildcardCount < len(wildcards) {
			value = wildcards[wildcardCount]
			wildcardCount++
		}
		segments = append(segments, address.Segment{Name: key, Value: value})
	}

	if obj.Observer != nil {
		obj.Observer.Resolved(len(unresolved))
	}
	return address.New(segments...), unresolved
}

// resolveSome resolves a key or value reference. A literal resolves to itself.
// It returns false if the variable couldn't be resolved.
func resolveSome(sc statement.Context, mem *memory[string], ref string) (string, bool) {
	name, ok := variable(ref)
	if !ok {
		return ref, true
	}
	if !mem.contains(name) {
		mem.memorize(name, sc.Collect(name))
	}
	return mem.next(name)
}
