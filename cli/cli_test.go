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

//go:build !root

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	cliUtil "github.com/purpleidea/hal/cli/util"
	"github.com/purpleidea/hal/template"
	"github.com/purpleidea/hal/util"
	"github.com/purpleidea/hal/util/errwrap"

	"github.com/spf13/afero"
)

const testContext = `
values:
  selected.profile: [full-ha]
tuples:
  selected.host:
    - [host, primary]
    - [host, secondary]
`

const testCheck = `
- "{selected.profile}/subsystem=mail/mail-session=*"
- "{selected.host}/server-config=*"
- "{selected.group}/deployment=*"
- "{nothing}/a=b"
`

func newTestData(t *testing.T, args ...string) (*cliUtil.Data, *bytes.Buffer) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/context.yaml", []byte(testContext), 0644); err != nil {
		t.Fatalf("write failed: %+v", err)
	}
	if err := afero.WriteFile(fs, "/check.yaml", []byte(testCheck), 0644); err != nil {
		t.Fatalf("write failed: %+v", err)
	}
	if err := afero.WriteFile(fs, "/empty.yaml", []byte("[]\n"), 0644); err != nil {
		t.Fatalf("write failed: %+v", err)
	}
	out := &bytes.Buffer{}
	data := &cliUtil.Data{
		Program: "hal",
		Version: "0.0.1-test",
		Copying: "GPLv3\n",
		Tagline: "address template resolver",
		Flags: cliUtil.Flags{
			Logf: func(format string, v ...interface{}) {
				t.Logf("cli: "+format, v...)
			},
		},
		Args: append([]string{"hal"}, args...),
		Fs:   fs,
		Out:  out,
	}
	return data, out
}

func TestCLI0(t *testing.T) {
	type test struct { // an individual test
		name string
		args []string
		out  []string // lines which must appear in the output
		fail bool
	}
	testCases := []test{}

	testCases = append(testCases, test{
		name: "license",
		args: []string{"--license"},
		out:  []string{"GPLv3"},
	})
	testCases = append(testCases, test{
		name: "version",
		args: []string{"--version"},
		out:  []string{"0.0.1-test"},
	})
	testCases = append(testCases, test{
		name: "no subcommand prints help",
		args: []string{},
		out:  []string{"Usage: hal"},
	})
	testCases = append(testCases, test{
		name: "bad flag",
		args: []string{"--nope"},
		fail: true,
	})
	testCases = append(testCases, test{
		name: "parse",
		args: []string{"parse", "opt://{selected.profile}/subsystem=mail"},
		out: []string{
			"template: opt:/{selected.profile}/subsystem=mail",
			"optional: true",
			"resource type: subsystem",
			"token #0: {selected.profile}",
			"token #1: key: subsystem, value: mail",
		},
	})
	testCases = append(testCases, test{
		name: "parse dump",
		args: []string{"parse", "--dump", "a=b"},
		out:  []string{"template: a=b", "key:"},
	})
	testCases = append(testCases, test{
		name: "resolve with context",
		args: []string{"resolve", "--context", "/context.yaml", "--wildcard", "mySession", "{selected.profile}/subsystem=mail/mail-session=*"},
		out:  []string{"/profile=full-ha/subsystem=mail/mail-session=mySession"},
	})
	testCases = append(testCases, test{
		name: "resolve repeated tuples",
		args: []string{"resolve", "--context", "/context.yaml", "{selected.host}/{selected.host}"},
		out:  []string{"/host=secondary/host=primary"},
	})
	testCases = append(testCases, test{
		name: "resolve noop",
		args: []string{"resolve", "--noop", "{selected.profile}/a={b}"},
		out:  []string{"/selected.profile=selected.profile/a=b"},
	})
	testCases = append(testCases, test{
		name: "resolve lenient",
		args: []string{"resolve", "{selected.profile}/a={b}"},
		out:  []string{"/a=_blank"},
	})
	testCases = append(testCases, test{
		name: "resolve strict",
		args: []string{"resolve", "--strict", "{selected.profile}/a=b"},
		fail: true,
	})
	testCases = append(testCases, test{
		name: "resolve conflicting context",
		args: []string{"resolve", "--noop", "--context", "/context.yaml", "a=b"},
		fail: true,
	})
	testCases = append(testCases, test{
		name: "resolve missing context file",
		args: []string{"resolve", "--context", "/missing.yaml", "a=b"},
		fail: true,
	})
	testCases = append(testCases, test{
		name: "replace",
		args: []string{"replace", "a=*/b=*/c=*", "1", "2"},
		out:  []string{"a=1/b=2/c=*"},
	})
	testCases = append(testCases, test{
		name: "replace needs a wildcard",
		args: []string{"replace", "a=*"},
		fail: true,
	})
	testCases = append(testCases, test{
		name: "check empty",
		args: []string{"check", "/empty.yaml"},
		fail: true,
	})
	testCases = append(testCases, test{
		name: "check missing",
		args: []string{"check", "/missing.yaml"},
		fail: true,
	})

	names := []string{}
	for index, tc := range testCases { // run all the tests
		if tc.name == "" {
			t.Errorf("test #%d: not named", index)
			continue
		}
		if util.StrInList(tc.name, names) {
			t.Errorf("test #%d: duplicate sub test name of: %s", index, tc.name)
			continue
		}
		names = append(names, tc.name)

		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			data, out := newTestData(t, tc.args...)
			err := CLI(context.Background(), data)
			if !tc.fail && err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: error: %+v", index, err)
				return
			}
			if tc.fail && err == nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: expected error, got output: %s", index, out.String())
				return
			}
			for _, line := range tc.out {
				if !strings.Contains(out.String(), line) {
					t.Errorf("test #%d: FAIL", index)
					t.Errorf("test #%d: missing: %s", index, line)
					t.Errorf("test #%d: output:\n%s", index, out.String())
				}
			}
		})
	}
}

func TestCheck0(t *testing.T) {
	data, out := newTestData(t, "check", "--context", "/context.yaml", "/check.yaml")
	err := CLI(context.Background(), data)
	if err == nil {
		t.Errorf("expected check to fail")
		return
	}
	problems := errwrap.Errors(err)
	if len(problems) != 2 {
		t.Errorf("expected 2 problems, got %d: %+v", len(problems), err)
	}
	for _, e := range problems {
		if !errors.Is(e, template.ErrUnresolved) {
			t.Errorf("unexpected problem: %+v", e)
		}
	}
	s := out.String()
	if !strings.Contains(s, "ok: {selected.profile}/subsystem=mail/mail-session=* -> /profile=full-ha/subsystem=mail/mail-session=*") {
		t.Errorf("missing ok line:\n%s", s)
	}
	if !strings.Contains(s, "ok: {selected.host}/server-config=* -> /host=secondary/server-config=*") {
		t.Errorf("missing ok line:\n%s", s)
	}
	if strings.Count(s, "fail: ") != 2 {
		t.Errorf("expected two failures:\n%s", s)
	}
}

func TestCheck1(t *testing.T) {
	data, out := newTestData(t, "check", "--noop", "/check.yaml")
	if err := CLI(context.Background(), data); err != nil {
		t.Errorf("noop check failed: %+v", err)
	}
	if n := strings.Count(out.String(), "ok: "); n != 4 {
		t.Errorf("expected 4 ok lines, got %d:\n%s", n, out.String())
	}
}

func TestSanity0(t *testing.T) {
	if err := CLI(context.Background(), nil); err == nil {
		t.Errorf("expected nil data to fail")
	}
	data, _ := newTestData(t)
	data.Copying = ""
	if err := CLI(context.Background(), data); err == nil {
		t.Errorf("expected missing copying to fail")
	}
}

func TestServeWatchNeedsContext0(t *testing.T) {
	data, _ := newTestData(t, "serve", "--watch")
	if err := CLI(context.Background(), data); err == nil {
		t.Errorf("expected --watch without --context to fail")
	}
}

func TestSubcommandName0(t *testing.T) {
	for _, name := range []string{"parse", "replace"} {
		args := []string{"--debug", name, "a=*", "1"}
		if name == "parse" {
			args = args[:3]
		}
		data, _ := newTestData(t, args...)
		lines := []string{}
		data.Flags.Logf = func(format string, v ...interface{}) {
			lines = append(lines, fmt.Sprintf(format, v...))
		}
		if err := CLI(context.Background(), data); err != nil {
			t.Errorf("%s: unexpected error: %+v", name, err)
			continue
		}
		if !util.StrInList("cli: subcommand: "+name, lines) {
			t.Errorf("%s: subcommand was not logged: %v", name, lines)
		}
	}

	data, _ := newTestData(t, "parse", "a=b")
	lines := []string{}
	data.Flags.Logf = func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	}
	if err := CLI(context.Background(), data); err != nil {
		t.Errorf("unexpected error: %+v", err)
	}
	if len(lines) != 0 {
		t.Errorf("nothing should be logged without debug: %v", lines)
	}
}
