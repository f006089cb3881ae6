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

package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	cliUtil "github.com/purpleidea/hal/cli/util"
	"github.com/purpleidea/hal/prometheus"
	"github.com/purpleidea/hal/statement"
	"github.com/purpleidea/hal/template"
	"github.com/purpleidea/hal/util/errwrap"
	"github.com/purpleidea/hal/web"
)

// ServeArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains all the flags for the `serve` subcommand.
type ServeArgs struct {
	ContextArgs

	Listen string `arg:"--listen,env:HAL_LISTEN" help:"address to listen on"`

	Watch bool `arg:"--watch" help:"reload the context file when it changes"`

	CacheSize int `arg:"--cache-size" default:"512" help:"number of parsed templates to keep"`

	NoMetrics bool `arg:"--no-metrics" help:"don't serve prometheus metrics"`
}

// Run executes the correct subcommand. It errors if there's ever an error. It
// returns true if we did activate one of the subcommands. It returns false if
// we did not. This particular Run is the run for the main `serve` subcommand.
// It blocks until it's interrupted.
func (obj *ServeArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	Logf := logf(data, "serve")

	cliUtil.Hello(os.Stderr, data.Program, data.Version, data.Flags) // say hello!
	defer Logf("goodbye!")

	wg := &sync.WaitGroup{}
	defer wg.Wait() // after cancel

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var sc statement.Context
	if obj.Watch {
		if obj.Noop || obj.Context == "" {
			return false, cliUtil.CliParseError(cliUtil.Error("--watch needs a --context file"))
		}
		watcher := &statement.Watcher{
			Path:  obj.Context,
			Fs:    data.Fs,
			Debug: data.Flags.Debug,
			Logf:  logf(data, "watch"),
		}
		if err := watcher.Init(); err != nil {
			return false, errwrap.Wrapf(err, "could not load context")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watcher.Run(ctx); err != nil {
				Logf("watcher exited: %v", err)
			}
		}()
		sc = watcher
	} else {
		var err error
		if sc, err = obj.ContextArgs.Load(data); err != nil {
			return false, err
		}
	}

	cache, err := template.NewCache(obj.CacheSize)
	if err != nil {
		return false, errwrap.Wrapf(err, "could not make cache")
	}

	var prom *prometheus.Prometheus
	if !obj.NoMetrics {
		prom = &prometheus.Prometheus{}
		if err := prom.Init(); err != nil {
			return false, errwrap.Wrapf(err, "could not start prometheus")
		}
	}

	server := &web.Server{
		Listen:     obj.Listen,
		Context:    sc,
		Cache:      cache,
		Prometheus: prom,
		Debug:      data.Flags.Debug,
		Logf:       logf(data, "web"),
	}
	if err := server.Init(); err != nil {
		return false, errwrap.Wrapf(err, "could not init server")
	}

	if err := server.Run(ctx); err != nil {
		return false, err
	}
	return true, nil
}
