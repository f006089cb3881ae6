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

package template

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/purpleidea/hal/address"
	"github.com/purpleidea/hal/statement"
	"github.com/purpleidea/hal/util"
	"github.com/purpleidea/hal/util/errwrap"

	"github.com/davecgh/go-spew/spew"
	"github.com/kylelemons/godebug/pretty"
)

// recorder is a context which counts its lookups.
type recorder struct {
	statement.Context
	collect       map[string]int
	collectTuples map[string]int
}

func newRecorder(sc statement.Context) *recorder {
	return &recorder{
		Context:       sc,
		collect:       make(map[string]int),
		collectTuples: make(map[string]int),
	}
}

func (obj *recorder) Collect(name string) []string {
	obj.collect[name]++
	return obj.Context.Collect(name)
}

func (obj *recorder) CollectTuples(name string) []statement.Tuple {
	obj.collectTuples[name]++
	return obj.Context.CollectTuples(name)
}

func seg(name, value string) address.Segment {
	return address.Segment{Name: name, Value: value}
}

func TestResolve0(t *testing.T) {
	type test struct { // an individual test
		name      string
		template  string
		sc        statement.Context
		wildcards []string
		exp       []address.Segment
		problems  int // number of unresolved placeholders
	}
	testCases := []test{}

	profile := statement.NewStatic().SetTuple("selected.profile", statement.Tuple{Key: "profile", Value: "full"})
	hosts := statement.NewStatic().
		SetTuple("selected.host", statement.Tuple{Key: "host", Value: "primary"}, statement.Tuple{Key: "host", Value: "secondary"}).
		SetValue("name", "n1", "n2")

	testCases = append(testCases, test{
		name:     "root",
		template: "/",
		sc:       statement.Noop{},
		exp:      []address.Segment{},
	})
	testCases = append(testCases, test{
		name:     "literal",
		template: "subsystem=logging",
		sc:       statement.Empty{},
		exp:      []address.Segment{seg("subsystem", "logging")},
	})
	testCases = append(testCases, test{
		name:     "literal with noop",
		template: "subsystem=logging",
		sc:       statement.Noop{},
		exp:      []address.Segment{seg("subsystem", "logging")},
	})
	testCases = append(testCases, test{
		name:     "nil context",
		template: "subsystem=logging/{x}",
		sc:       nil,
		exp:      []address.Segment{seg("subsystem", "logging")},
		problems: 1,
	})
	testCases = append(testCases, test{
		name:     "noop variables",
		template: "{a}/b={c}",
		sc:       statement.Noop{},
		exp:      []address.Segment{seg("a", "a"), seg("b", "c")},
	})
	testCases = append(testCases, test{
		name:      "wildcards",
		template:  "socket-binding-group=*/socket-binding=*",
		sc:        statement.Noop{},
		wildcards: []string{"sbg1", "sb1"},
		exp:       []address.Segment{seg("socket-binding-group", "sbg1"), seg("socket-binding", "sb1")},
	})
	testCases = append(testCases, test{
		name:     "no wildcards",
		template: "a=*/c=*",
		sc:       statement.Noop{},
		exp:      []address.Segment{seg("a", "*"), seg("c", "*")},
	})
	testCases = append(testCases, test{
		name:      "too few wildcards",
		template:  "a=*/c=*",
		sc:        statement.Noop{},
		wildcards: []string{"b"},
		exp:       []address.Segment{seg("a", "b"), seg("c", "*")},
	})
	testCases = append(testCases, test{
		name:      "too many wildcards",
		template:  "a=*/c=*",
		sc:        statement.Noop{},
		wildcards: []string{"b", "d", "foo"},
		exp:       []address.Segment{seg("a", "b"), seg("c", "d")},
	})
	testCases = append(testCases, test{
		name:      "wildcards skip non wildcard values",
		template:  "a=*/b=x/c=*",
		sc:        statement.Noop{},
		wildcards: []string{"1", "2"},
		exp:       []address.Segment{seg("a", "1"), seg("b", "x"), seg("c", "2")},
	})
	testCases = append(testCases, test{
		name:      "variable resolving to a wildcard",
		template:  "a={w}",
		sc:        statement.NewStatic().SetValue("w", "*"),
		wildcards: []string{"x"},
		exp:       []address.Segment{seg("a", "x")},
	})
	testCases = append(testCases, test{
		name:     "tuple",
		template: "{selected.profile}/subsystem=mail",
		sc:       profile,
		exp:      []address.Segment{seg("profile", "full"), seg("subsystem", "mail")},
	})
	testCases = append(testCases, test{
		name:     "missing tuple",
		template: "{selected.profile}/subsystem=mail",
		sc:       statement.Empty{},
		exp:      []address.Segment{seg("subsystem", "mail")},
		problems: 1,
	})
	testCases = append(testCases, test{
		name:     "repeated tuple",
		template: "{selected.host}/server=one/{selected.host}",
		sc:       hosts,
		exp:      []address.Segment{seg("host", "secondary"), seg("server", "one"), seg("host", "primary")},
	})
	testCases = append(testCases, test{
		name:     "repeated tuple exhausted",
		template: "{selected.host}/{selected.host}/{selected.host}/a=b",
		sc:       hosts,
		exp:      []address.Segment{seg("host", "secondary"), seg("host", "primary"), seg("a", "b")},
		problems: 1,
	})
	testCases = append(testCases, test{
		name:     "repeated value",
		template: "a={name}/b={name}/c={name}",
		sc:       hosts,
		exp:      []address.Segment{seg("a", "n2"), seg("b", "n1"), seg("c", Blank)},
		problems: 1,
	})
	testCases = append(testCases, test{
		name:     "key and value share memory",
		template: "{name}={name}",
		sc:       hosts,
		exp:      []address.Segment{seg("n2", "n1")},
	})
	testCases = append(testCases, test{
		name:     "unresolved key and value",
		template: "{k}={v}/x=y",
		sc:       statement.Empty{},
		exp:      []address.Segment{seg(Blank, Blank), seg("x", "y")},
		problems: 2,
	})
	testCases = append(testCases, test{
		name:     "empty key and value",
		template: "=/a=",
		sc:       statement.Empty{},
		exp:      []address.Segment{seg(Blank, Blank), seg("a", Blank)},
	})
	testCases = append(testCases, test{
		name:     "empty resolved value",
		template: "a={e}",
		sc:       statement.NewStatic().SetValue("e", ""),
		exp:      []address.Segment{seg("a", Blank)},
	})
	testCases = append(testCases, test{
		name:     "bare literal",
		template: "literal/a=b",
		sc:       statement.Noop{},
		exp:      []address.Segment{seg("a", "b")},
		problems: 1,
	})
	testCases = append(testCases, test{
		name:     "unclosed variable",
		template: "{a/b=c",
		sc:       statement.Noop{},
		exp:      []address.Segment{seg("a", "a"), seg("b", "c")},
	})
	testCases = append(testCases, test{
		name:      "mail session",
		template:  "{selected.profile}/subsystem=mail/mail-session=*",
		sc:        statement.NewStatic().SetWellKnown(statement.SelectedProfile, "full-ha"),
		wildcards: []string{"mySession"},
		exp:       []address.Segment{seg("profile", "full-ha"), seg("subsystem", "mail"), seg("mail-session", "mySession")},
	})
	testCases = append(testCases, test{
		name:     "optional",
		template: "opt:/{selected.profile}/subsystem=mail",
		sc:       profile,
		exp:      []address.Segment{seg("profile", "full"), seg("subsystem", "mail")},
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
			at := Parse(tc.template)
			before := at.String()
			resolver := &Resolver{
				Debug: testing.Verbose(), // set via the -test.v flag to `go test`
				Logf: func(format string, v ...interface{}) {
					t.Logf("resolve: "+format, v...)
				},
			}

			addr, err := resolver.ResolveStrict(at, tc.sc, tc.wildcards...)
			if tc.problems == 0 && err != nil {
				t.Errorf("test #%d: unexpected error: %+v", index, err)
			}
			if tc.problems > 0 {
				if !errors.Is(err, ErrUnresolved) {
					t.Errorf("test #%d: expected unresolved error, got: %+v", index, err)
				} else if n := len(errwrap.Errors(err)); n != tc.problems {
					t.Errorf("test #%d: expected %d problems, got %d: %s", index, tc.problems, n, err)
				}
			}

			lenient := resolver.Resolve(at, tc.sc, tc.wildcards...)
			if err := lenient.Cmp(addr); err != nil {
				t.Errorf("test #%d: strict and lenient differ: %+v", index, err)
			}

			if at.String() != before {
				t.Errorf("test #%d: resolve changed the template: %s", index, at)
			}

			exp := address.New(tc.exp...)
			if err := addr.Cmp(exp); err == nil {
				return
			}
			t.Errorf("test #%d: address did not match expected", index)
			t.Logf("test #%d:   actual: %s", index, addr)
			t.Logf("test #%d: expected: %s", index, exp)
			t.Logf("test #%d: diff:\n%s", index, pretty.Compare(addr.Segments(), exp.Segments()))
		})
	}
}

// TestResolveMemoize0 checks that each placeholder is collected once per call,
// and that nothing is remembered between calls.
func TestResolveMemoize0(t *testing.T) {
	sc := newRecorder(statement.NewStatic().
		SetValue("v", "1", "2").
		SetWellKnown(statement.SelectedHost, "primary", "secondary"))
	at := Parse("{selected.host}/{selected.host}/a={v}/b={v}")
	resolver := &Resolver{}

	for i := 0; i < 3; i++ {
		addr := resolver.Resolve(at, sc)
		if s := addr.String(); s != "/host=secondary/host=primary/a=2/b=1" {
			t.Errorf("call #%d: got: %s", i, s)
		}
	}
	if n := sc.collectTuples["selected.host"]; n != 3 {
		t.Errorf("expected one tuple collect per call, got: %d", n)
	}
	if n := sc.collect["v"]; n != 3 {
		t.Errorf("expected one collect per call, got: %d", n)
	}
}

// TestResolveWildcardsPerCall0 checks that the wildcard counter starts over.
func TestResolveWildcardsPerCall0(t *testing.T) {
	at := Parse("a=*/b=*")
	resolver := &Resolver{}
	first := resolver.Resolve(at, statement.Noop{}, "1", "2")
	second := resolver.Resolve(at, statement.Noop{}, "3")
	if s := first.String(); s != "/a=1/b=2" {
		t.Errorf("first: %s", s)
	}
	if s := second.String(); s != "/a=3/b=*" {
		t.Errorf("second: %s", s)
	}
}

type countingObserver struct {
	mutex      sync.Mutex
	calls      int
	unresolved int
}

func (obj *countingObserver) Resolved(unresolved int) {
	obj.mutex.Lock()
	defer obj.mutex.Unlock()
	obj.calls++
	obj.unresolved += unresolved
}

func TestResolveObserver0(t *testing.T) {
	observer := &countingObserver{}
	resolver := &Resolver{Observer: observer}
	resolver.Resolve(Parse("{a}/b={c}/d=e"), statement.Empty{})
	resolver.Resolve(Parse("d=e"), statement.Empty{})
	if observer.calls != 2 || observer.unresolved != 2 {
		t.Errorf("observer saw: %s", spew.Sdump(observer))
	}
}

// TestResolveConcurrent0 resolves a shared template from many goroutines.
func TestResolveConcurrent0(t *testing.T) {
	at := Parse("{selected.host}/{selected.host}/server=*")
	sc := statement.NewStatic().SetWellKnown(statement.SelectedHost, "dc", "leaf")
	observer := &countingObserver{}
	resolver := &Resolver{Observer: observer}

	wg := &sync.WaitGroup{}
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := fmt.Sprintf("s%d", i)
			addr := resolver.Resolve(at, sc, w)
			exp := "/host=leaf/host=dc/server=" + w
			if s := addr.String(); s != exp {
				errs <- fmt.Errorf("got: %s, expected: %s", s, exp)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("%+v", err)
	}
	if observer.calls != 64 {
		t.Errorf("calls: %d", observer.calls)
	}
}

func TestTemplateResolve0(t *testing.T) {
	addr := Parse("{selected.profile}/subsystem=mail").Resolve(statement.Noop{})
	if s := addr.String(); s != "/selected.profile=selected.profile/subsystem=mail" {
		t.Errorf("got: %s", s)
	}
}

func TestMemory0(t *testing.T) {
	m := newMemory[string]()
	if m.contains("a") {
		t.Errorf("empty memory contains a")
	}
	if _, ok := m.next("a"); ok {
		t.Errorf("next on unknown key should fail")
	}
	m.memorize("a", []string{"x", "y", "z"})
	m.memorize("e", []string{})
	if !m.contains("a") || !m.contains("e") {
		t.Errorf("memorized keys should be contained")
	}
	for _, exp := range []string{"z", "y", "x"} {
		if v, ok := m.next("a"); !ok || v != exp {
			t.Errorf("next: %s, expected: %s", v, exp)
		}
	}
	if _, ok := m.next("a"); ok {
		t.Errorf("next after exhaustion should fail")
	}
	if _, ok := m.next("e"); ok {
		t.Errorf("next on empty list should fail")
	}
}

func TestResolveFromRoundTrip0(t *testing.T) {
	sc := statement.NewStatic().
		SetWellKnown(statement.SelectedHost, "primary").
		SetValue("equation", "x=y")
	testCases := []struct {
		name string
		at   string
		sc   statement.Context
	}{
		{"root", "/", statement.Noop{}},
		{"plain", "a=b/c=d", statement.Noop{}},
		{"extra equals", "a=b=c/{}/x={}", statement.Noop{}},
		{"blanks", "{missing}/a={missing}/{nope}=b", statement.Empty{}},
		{"equals in resolved value", "{selected.host}/eq={equation}", sc},
		{"wildcard", "a=*", statement.Empty{}},
	}
	for index, tc := range testCases {
		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			addr := (&Resolver{}).Resolve(Parse(tc.at), tc.sc)
			out, err := address.From(addr.String())
			if err != nil {
				t.Errorf("test #%d: could not read back `%s`: %+v", index, addr, err)
				return
			}
			if err := out.Cmp(addr); err != nil {
				t.Errorf("test #%d: round trip differs: %+v", index, err)
				t.Logf("test #%d: diff:\n%s", index, pretty.Compare(out.Segments(), addr.Segments()))
			}
		})
	}
}
