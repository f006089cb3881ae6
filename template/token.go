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

// Token is one segment of a template. A keyed token was parsed from a segment
// with an equals sign, and either side of it may be a variable. A bare token is
// either a variable that resolves to a whole tuple, or a literal.
type Token struct {
	key   string
	value string
	keyed bool
}

// NewToken returns a bare token.
func NewToken(value string) Token {
	return Token{value: value}
}

// NewKeyedToken returns a key=value token.
func NewKeyedToken(key, value string) Token {
	return Token{key: key, value: value, keyed: true}
}

// HasKey returns true if this token was parsed with an equals sign.
func (obj Token) HasKey() bool { return obj.keyed }

// Key returns the key of a keyed token. It's empty for bare tokens.
func (obj Token) Key() string { return obj.key }

// Value returns the value of the token.
func (obj Token) Value() string { return obj.value }

// String returns the token as it would appear in a template.
func (obj Token) String() string {
	if obj.keyed {
		return obj.key + "=" + obj.value
	}
	return obj.value
}

// variable returns the name inside of a `{name}` reference, and true if the
// string is one. Any string starting with a brace is a reference, and the
// closing brace is optional, so `{a` names the placeholder `a` and not the
// empty name.
func variable(s string) (string, bool) {
	if !strings.HasPrefix(s, "{") {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}"), true
}
