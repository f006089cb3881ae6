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

// Package address contains the fully qualified form of a management model
// address. An address is an ordered list of name and value segments with no
// variables or wildcards left in it. The empty address is the root.
package address

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/purpleidea/hal/util/errwrap"
)

// Error is a constant error type that implements error.
type Error string

// Error fulfills the error interface of this type.
func (e Error) Error() string { return string(e) }

const (
	// ErrMalformed is returned when a string can't be read as an address.
	ErrMalformed = Error("malformed address")

	// Separator divides the segments of an address.
	Separator = "/"

	// EncodedSlash is what a slash inside of a value gets encoded to, so that
	// it doesn't get mistaken for a Separator.
	EncodedSlash = "%2F"
)

// EncodeValue escapes any slashes in a value so it can be used in a template.
func EncodeValue(value string) string {
	return strings.ReplaceAll(value, Separator, EncodedSlash)
}

// DecodeValue reverses EncodeValue.
func DecodeValue(value string) string {
	return strings.ReplaceAll(value, EncodedSlash, Separator)
}

// Segment is a single name=value pair of an address.
type Segment struct {
	Name  string
	Value string
}

// String returns the name=value form of this segment.
func (obj Segment) String() string {
	return obj.Name + "=" + obj.Value
}

// Address is a resolved address. It is never modified after construction, all
// of the methods which change it return a new address instead.
type Address struct {
	segments []Segment
}

// Root returns the empty address.
func Root() *Address {
	return &Address{}
}

// New builds an address out of the list of segments, in order.
func New(segments ...Segment) *Address {
	s := make([]Segment, len(segments))
	copy(s, segments)
	return &Address{
		segments: s,
	}
}

// From reads an address in the `/a=b/c=d` form. Unlike templates, this does not
// accept anything other than name=value pairs, and it errors if it sees one.
// Each part is split on its first equals sign, like templates are, so that the
// String of any resolved address can be read back. Either half may be empty.
func From(address string) (*Address, error) {
	s := strings.TrimSpace(address)
	s = strings.TrimPrefix(s, Separator)
	s = strings.TrimSuffix(s, Separator)
	if s == "" {
		return Root(), nil
	}

	segments := []Segment{}
	for _, part := range strings.Split(s, Separator) {
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, errwrap.Wrapf(ErrMalformed, "bad part `%s` in address: `%s`", part, address)
		}
		segments = append(segments, Segment{Name: name, Value: value})
	}
	return &Address{segments: segments}, nil
}

// Add returns a new address with the extra segment on the end.
func (obj *Address) Add(name, value string) *Address {
	return obj.AddAddress(New(Segment{Name: name, Value: value}))
}

// AddAddress returns a new address with all the segments of the other address
// appended to ours. A nil address adds nothing.
func (obj *Address) AddAddress(address *Address) *Address {
	s := obj.Segments()
	if address != nil {
		s = append(s, address.segments...)
	}
	return &Address{segments: s}
}

// Segments returns a copy of the list of segments.
func (obj *Address) Segments() []Segment {
	s := make([]Segment, len(obj.segments))
	copy(s, obj.segments)
	return s
}

// Size returns the number of segments.
func (obj *Address) Size() int { return len(obj.segments) }

// IsEmpty returns true if this is the root address.
func (obj *Address) IsEmpty() bool { return len(obj.segments) == 0 }

// FirstValue returns the value of the first segment, or the empty string for
// the root address.
func (obj *Address) FirstValue() string {
	if obj.IsEmpty() {
		return ""
	}
	return obj.segments[0].Value
}

// LastName returns the name of the last segment, or the empty string for the
// root address.
func (obj *Address) LastName() string {
	if obj.IsEmpty() {
		return ""
	}
	return obj.segments[len(obj.segments)-1].Name
}

// LastValue returns the value of the last segment, or the empty string for the
// root address.
func (obj *Address) LastValue() string {
	if obj.IsEmpty() {
		return ""
	}
	return obj.segments[len(obj.segments)-1].Value
}

// Parent returns the address without its last segment. The parent of the root
// is the root.
func (obj *Address) Parent() *Address {
	if obj.IsEmpty() {
		return obj
	}
	return New(obj.segments[:len(obj.segments)-1]...)
}

// StartsWith returns true if the other address is a prefix of this one.
func (obj *Address) StartsWith(address *Address) bool {
	if obj.Size() < address.Size() {
		return false
	}
	for i, segment := range address.segments {
		if obj.segments[i] != segment {
			return false
		}
	}
	return true
}

// ReplaceValue returns a new address where every segment with this name has
// the new value instead.
func (obj *Address) ReplaceValue(name, value string) *Address {
	s := obj.Segments()
	for i := range s {
		if s[i].Name == name {
			s[i].Value = value
		}
	}
	return &Address{segments: s}
}

// Cmp compares two addresses. It returns nil if they have the same segments in
// the same order, and an error describing the first difference otherwise.
func (obj *Address) Cmp(address *Address) error {
	if obj.Size() != address.Size() {
		return fmt.Errorf("size differs: %d != %d", obj.Size(), address.Size())
	}
	for i, segment := range address.segments {
		if obj.segments[i] != segment {
			return fmt.Errorf("segment %d differs: %s != %s", i, obj.segments[i], segment)
		}
	}
	return nil
}

// String returns the address in the `/a=b/c=d` form. The root is `/`.
func (obj *Address) String() string {
	parts := []string{}
	for _, segment := range obj.segments {
		parts = append(parts, segment.String())
	}
	return Separator + strings.Join(parts, Separator)
}

// MarshalJSON encodes the address as a list of single key objects, which is
// the shape the management model expects in an operation.
func (obj *Address) MarshalJSON() ([]byte, error) {
	list := []map[string]string{}
	for _, segment := range obj.segments {
		list = append(list, map[string]string{segment.Name: segment.Value})
	}
	return json.Marshal(list)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (obj *Address) UnmarshalJSON(data []byte) error {
	list := []map[string]string{}
	if err := json.Unmarshal(data, &list); err != nil {
		return errwrap.Wrapf(err, "can't decode address")
	}
	segments := []Segment{}
	for i, m := range list {
		if len(m) != 1 {
			return errwrap.Wrapf(ErrMalformed, "segment %d has %d keys", i, len(m))
		}
		for name, value := range m {
			segments = append(segments, Segment{Name: name, Value: value})
		}
	}
	obj.segments = segments
	return nil
}
