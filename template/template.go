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

// Package template implements address templates. An address template is a
// management model address which may contain variables and wildcards, such as
// `{selected.profile}/subsystem=mail/mail-session=*`. Templates are resolved
// against a statement context to get a fully qualified address.
//
//	t := template.Parse("{selected.profile}/subsystem=mail/mail-session=*")
//	addr := t.Resolve(sc, "default") // /profile=full/subsystem=mail/mail-session=default
package template

import (
	"fmt"
	"strings"

	"github.com/purpleidea/hal/util/errwrap"
)

// Error is a constant error type that implements error.
type Error string

// Error fulfills the error interface of this type.
func (e Error) Error() string { return string(e) }

const (
	// ErrOutOfRange is returned for bad SubTemplate indexes.
	ErrOutOfRange = Error("index out of range")

	// ErrUnresolved is used to report placeholders that could not be
	// resolved in strict mode.
	ErrUnresolved = Error("unresolved placeholder")
)

const (
	// OptionalPrefix marks a template as optional.
	OptionalPrefix = "opt:/"

	// Separator divides the segments of a template.
	Separator = "/"

	// Wildcard is the value which is replaced by wildcard arguments.
	Wildcard = "*"

	// Blank is what an unresolved key or value becomes.
	Blank = "_blank"
)

// Template is a parsed address template. It is never modified after it has
// been parsed, and all of its methods return new templates. This makes it safe
// to share and to resolve from many goroutines at once.
type Template struct {
	template string
	tokens   []Token
	optional bool
}

// Parse builds a template out of a string. This never fails: any string is a
// template, although it might not resolve to anything useful.
func Parse(template string) *Template {
	tokens, optional := parse(template)
	return &Template{
		template: join(optional, tokens),
		tokens:   tokens,
		optional: optional,
	}
}

// Of joins the segments with the separator and parses the result. It's handy
// for combining well-known variables, eg: Of("{selected.host}", "{selected.server}").
func Of(segments ...string) *Template {
	return Parse(strings.Join(segments, Separator))
}

// Root returns the empty template.
func Root() *Template {
	return Parse(Separator)
}

// String returns the canonical form of the template. The root is empty.
func (obj *Template) String() string { return obj.template }

// Optional returns true if the template was marked with OptionalPrefix.
func (obj *Template) Optional() bool { return obj.optional }

// IsEmpty returns true if the template contains no tokens.
func (obj *Template) IsEmpty() bool { return len(obj.tokens) == 0 }

// Size returns the number of tokens.
func (obj *Template) Size() int { return len(obj.tokens) }

// Tokens returns a copy of the list of tokens.
func (obj *Template) Tokens() []Token {
	tokens := make([]Token, len(obj.tokens))
	copy(tokens, obj.tokens)
	return tokens
}

// Equals returns true if both templates have the same canonical form and the
// same optional flag.
func (obj *Template) Equals(other *Template) bool {
	if other == nil {
		return false
	}
	return obj.optional == other.optional && obj.template == other.template
}

// Append returns a new template with the other template added on the end. It
// makes no difference whether the other template starts with a slash or not.
func (obj *Template) Append(template string) *Template {
	if !strings.HasPrefix(template, Separator) {
		template = Separator + template
	}
	return Parse(obj.template + template)
}

// SubTemplate returns a new template made of the tokens between from (included)
// and to (excluded). The optional flag is kept. It errors with ErrOutOfRange if
// from is negative, if to is past the end, or if from is past to.
func (obj *Template) SubTemplate(from, to int) (*Template, error) {
	if from < 0 || to > len(obj.tokens) || from > to {
		return nil, errwrap.Wrapf(ErrOutOfRange, "sub template [%d, %d) of `%s` with %d tokens", from, to, obj.template, len(obj.tokens))
	}
	return Parse(join(obj.optional, obj.tokens[from:to])), nil
}

// MustSubTemplate is like SubTemplate but it panics on error.
func (obj *Template) MustSubTemplate(from, to int) *Template {
	t, err := obj.SubTemplate(from, to)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return t
}

// Parent returns the template without its last token. The parent of an empty
// template is itself.
func (obj *Template) Parent() *Template {
	if obj.IsEmpty() {
		return obj
	}
	return obj.MustSubTemplate(0, len(obj.tokens)-1)
}

// ReplaceWildcards replaces the wildcard values of keyed tokens with the given
// values, from left to right. Extra values are ignored, and extra wildcards are
// left alone. The result is not resolved, so it may still contain variables.
func (obj *Template) ReplaceWildcards(wildcard string, wildcards ...string) *Template {
	all := append([]string{wildcard}, wildcards...)
	tokens := []Token{}
	for _, token := range obj.tokens {
		if len(all) > 0 && token.HasKey() && token.Value() == Wildcard {
			tokens = append(tokens, NewKeyedToken(token.Key(), all[0]))
			all = all[1:]
			continue
		}
		tokens = append(tokens, token)
	}
	return Parse(join(obj.optional, tokens))
}

// ResourceType returns the key of the last token, or the empty string if the
// template is empty or the last token has no key.
func (obj *Template) ResourceType() string {
	return obj.LastName()
}

// FirstName returns the key of the first token, if it has one.
func (obj *Template) FirstName() string {
	if obj.IsEmpty() {
		return ""
	}
	return obj.tokens[0].Key()
}

// FirstValue returns the value of the first token, if it has a key.
func (obj *Template) FirstValue() string {
	if obj.IsEmpty() || !obj.tokens[0].HasKey() {
		return ""
	}
	return obj.tokens[0].Value()
}

// LastName returns the key of the last token, if it has one.
func (obj *Template) LastName() string {
	if obj.IsEmpty() {
		return ""
	}
	return obj.tokens[len(obj.tokens)-1].Key()
}

// LastValue returns the value of the last token, if it has a key.
func (obj *Template) LastValue() string {
	if obj.IsEmpty() || !obj.tokens[len(obj.tokens)-1].HasKey() {
		return ""
	}
	return obj.tokens[len(obj.tokens)-1].Value()
}
