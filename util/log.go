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

package util

import (
	"log"
	"strings"
)

// LogWriter is a simple interface that wraps our logf interface.
type LogWriter struct {
	Prefix string
	Logf   func(format string, v ...interface{})
}

// Write satisfies the io.Writer interface. Trailing newlines are dropped since
// Logf adds its own.
func (obj *LogWriter) Write(p []byte) (n int, err error) {
	if obj.Logf == nil {
		return len(p), nil
	}
	obj.Logf("%s%s", obj.Prefix, strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// NewLogger returns a standard library logger which sends everything through
// logf. This is useful for packages like net/http which want a *log.Logger.
func NewLogger(logf func(format string, v ...interface{}), prefix string) *log.Logger {
	return log.New(&LogWriter{Prefix: prefix, Logf: logf}, "", 0)
}

// Nologf is a logf which discards everything. Components use it when no Logf
// was specified.
func Nologf(format string, v ...interface{}) {}
