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
	"github.com/purpleidea/hal/util/errwrap"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize is the number of templates a cache holds by default.
const DefaultCacheSize = 512

// CacheObserver gets told about every cache lookup. It's used for metrics.
type CacheObserver interface {
	CacheLookup(hit bool)
}

// Cache holds parsed templates keyed by their string, so that the constant
// templates that callers use over and over are only parsed once. Since
// templates are immutable, the same one can be handed out to everyone. It is
// safe for concurrent use.
type Cache struct {
	// Observer is optional.
	Observer CacheObserver

	lru *lru.Cache
}

// NewCache returns a cache which holds at most size templates. The least
// recently used template is dropped first.
func NewCache(size int) (*Cache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not build cache of size %d", size)
	}
	return &Cache{
		lru: c,
	}, nil
}

// Get returns the parsed template for this string, parsing it if needed.
func (obj *Cache) Get(template string) *Template {
	if v, ok := obj.lru.Get(template); ok {
		obj.observe(true)
		return v.(*Template)
	}
	obj.observe(false)
	t := Parse(template)
	obj.lru.Add(template, t)
	return t
}

// Len returns the number of templates in the cache.
func (obj *Cache) Len() int {
	return obj.lru.Len()
}

// Purge empties the cache.
func (obj *Cache) Purge() {
	obj.lru.Purge()
}

func (obj *Cache) observe(hit bool) {
	if obj.Observer != nil {
		obj.Observer.CacheLookup(hit)
	}
}
