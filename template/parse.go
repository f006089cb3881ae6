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
	"strings"
)

// parse splits a template string into tokens. It never fails. The grammar is:
//
//	address-template ::= "/" | segment
//	segment          ::= tuple | segment "/" tuple
//	tuple            ::= variable | key "=" value
//	variable         ::= "{" alpha "}"
//	key              ::= alpha
//	value            ::= variable | alpha | "*"
//
// An optional template starts with OptionalPrefix. Empty segments are skipped,
// and a segment is split on its first equals sign only.
//
// A template which isn't optional but whose first segment is literally `opt:`
// (eg: `/opt:/x=y`) has a canonical form that reads back as optional. Such a
// segment can never resolve, so this is left alone.
func parse(template string) ([]Token, bool) {
	tokens := []Token{}
	optional := strings.HasPrefix(template, OptionalPrefix)
	s := strings.TrimPrefix(template, OptionalPrefix)
	if s == Separator {
		return tokens, optional
	}

	for _, segment := range strings.Split(s, Separator) {
		if segment == "" {
			continue
		}
		if key, value, ok := strings.Cut(segment, "="); ok {
			tokens = append(tokens, NewKeyedToken(key, value))
			continue
		}
		tokens = append(tokens, NewToken(segment))
	}
	return tokens, optional
}

// join is the inverse of parse. It builds the canonical form of a template.
func join(optional bool, tokens []Token) string {
	parts := []string{}
	for _, token := range tokens {
		parts = append(parts, token.String())
	}
	s := strings.Join(parts, Separator)
	if optional {
		return OptionalPrefix + s
	}
	return s
}
