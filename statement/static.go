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
	"sort"
	"sync"

	"github.com/purpleidea/hal/util"
)

// Static is a context that is backed by a set of maps. It's filled in ahead of
// time, and it's safe to use from multiple goroutines at once. The zero value
// is an empty context that is ready to use.
//
// For a well-known placeholder which has values but no tuples, the tuples are
// built from the values and the placeholder resource type.
type Static struct {
	mutex  sync.RWMutex
	values map[string][]string
	tuples map[string][]Tuple
}

// NewStatic returns an empty static context.
func NewStatic() *Static {
	return &Static{}
}

// init must be called with the lock held.
func (obj *Static) init() {
	if obj.values == nil {
		obj.values = make(map[string][]string)
	}
	if obj.tuples == nil {
		obj.tuples = make(map[string][]Tuple)
	}
}

// SetValue replaces the values of this placeholder. They're given from the
// least to the most specific.
func (obj *Static) SetValue(name string, values ...string) *Static {
	obj.mutex.Lock()
	defer obj.mutex.Unlock()
	obj.init()
	obj.values[name] = append([]string{}, values...)
	return obj
}

// AddValue appends a more specific value to this placeholder.
func (obj *Static) AddValue(name, value string) *Static {
	obj.mutex.Lock()
	defer obj.mutex.Unlock()
	obj.init()
	obj.values[name] = append(obj.values[name], value)
	return obj
}

// SetTuple replaces the tuples of this placeholder.
func (obj *Static) SetTuple(name string, tuples ...Tuple) *Static {
	obj.mutex.Lock()
	defer obj.mutex.Unlock()
	obj.init()
	obj.tuples[name] = append([]Tuple{}, tuples...)
	return obj
}

// AddTuple appends a more specific tuple to this placeholder.
func (obj *Static) AddTuple(name string, tuple Tuple) *Static {
	obj.mutex.Lock()
	defer obj.mutex.Unlock()
	obj.init()
	obj.tuples[name] = append(obj.tuples[name], tuple)
	return obj
}

// SetWellKnown sets both the values and the tuples of a well-known placeholder.
func (obj *Static) SetWellKnown(w WellKnown, values ...string) *Static {
	tuples := []Tuple{}
	for _, v := range values {
		tuples = append(tuples, w.Tuple(v))
	}
	return obj.SetValue(w.Name, values...).SetTuple(w.Name, tuples...)
}

// Names returns every placeholder that this context knows about, sorted.
func (obj *Static) Names() []string {
	obj.mutex.RLock()
	defer obj.mutex.RUnlock()
	names := append(util.SortedMapKeys(obj.values), util.SortedMapKeys(obj.tuples)...)
	names = util.StrRemoveDuplicatesInList(names)
	sort.Strings(names)
	return names
}

// Resolve returns the most specific value of the placeholder.
func (obj *Static) Resolve(name string) (string, bool) {
	values := obj.Collect(name)
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

// ResolveTuple returns the most specific tuple of the placeholder.
func (obj *Static) ResolveTuple(name string) (Tuple, bool) {
	tuples := obj.CollectTuples(name)
	if len(tuples) == 0 {
		return Tuple{}, false
	}
	return tuples[len(tuples)-1], true
}

// Collect returns a copy of all the values of the placeholder.
func (obj *Static) Collect(name string) []string {
	obj.mutex.RLock()
	defer obj.mutex.RUnlock()
	return append([]string{}, obj.values[name]...)
}

// CollectTuples returns a copy of all the tuples of the placeholder.
func (obj *Static) CollectTuples(name string) []Tuple {
	obj.mutex.RLock()
	defer obj.mutex.RUnlock()
	if tuples, exists := obj.tuples[name]; exists {
		return append([]Tuple{}, tuples...)
	}
	w, ok := Lookup(name)
	if !ok {
		return []Tuple{}
	}
	tuples := []Tuple{}
	for _, v := range obj.values[name] {
		tuples = append(tuples, w.Tuple(v))
	}
	return tuples
}
