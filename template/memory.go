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

// memory holds everything a context returned for each placeholder during a
// single resolution, so that repeated occurrences of the same placeholder each
// get their own value. Values are handed out starting from the end of the list.
type memory[T any] struct {
	values  map[string][]T
	indexes map[string]int
}

func newMemory[T any]() *memory[T] {
	return &memory[T]{
		values:  make(map[string][]T),
		indexes: make(map[string]int),
	}
}

func (obj *memory[T]) contains(key string) bool {
	_, exists := obj.values[key]
	return exists
}

func (obj *memory[T]) memorize(key string, resolved []T) {
	obj.values[key] = resolved
	obj.indexes[key] = len(resolved) - 1
}

// next returns the next value for the key, and false once they're used up.
func (obj *memory[T]) next(key string) (T, bool) {
	var zero T
	items := obj.values[key]
	idx, exists := obj.indexes[key]
	if !exists || idx < 0 || idx >= len(items) {
		return zero, false
	}
	obj.indexes[key] = idx - 1
	return items[idx], true
}
