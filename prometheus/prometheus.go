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

// Package prometheus provides the metrics for template resolution, and the
// handler which exposes them.
package prometheus

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus is the struct that contains the metrics. Run Init() on it. Each
// instance has its own registry, so more than one can exist at a time.
type Prometheus struct {
	registry *prometheus.Registry

	resolveTotal            *prometheus.CounterVec // total of resolutions, by completeness
	unresolvedTotal         prometheus.Counter     // total of placeholders that couldn't be resolved
	cacheLookupTotal        *prometheus.CounterVec // total of template cache lookups, by result
	processStartTimeSeconds prometheus.Gauge       // process start time in seconds since unix epoch
}

// Init creates and registers the metrics.
func (obj *Prometheus) Init() error {
	obj.registry = prometheus.NewRegistry()

	obj.resolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hal_template_resolve_total",
			Help: "Number of address templates that were resolved.",
		},
		// complete: if every placeholder could be resolved
		[]string{"complete"},
	)
	obj.unresolvedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hal_template_unresolved_total",
			Help: "Number of placeholders that could not be resolved.",
		},
	)
	obj.cacheLookupTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hal_template_cache_lookup_total",
			Help: "Number of template cache lookups.",
		},
		// hit: if the template was already in the cache
		[]string{"hit"},
	)
	obj.processStartTimeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hal_process_start_time_seconds",
			Help: "Start time of the process since unix epoch in seconds.",
		},
	)
	// directly set the processStartTimeSeconds
	obj.processStartTimeSeconds.SetToCurrentTime()

	for _, c := range []prometheus.Collector{
		obj.resolveTotal,
		obj.unresolvedTotal,
		obj.cacheLookupTotal,
		obj.processStartTimeSeconds,
		collectors.NewGoCollector(),
	} {
		if err := obj.registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Gatherer returns the registry, so the metrics can be read back.
func (obj *Prometheus) Gatherer() prometheus.Gatherer {
	return obj.registry
}

// Handler returns an http handler that responds to /metrics as prometheus would
// expect.
func (obj *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(obj.registry, promhttp.HandlerOpts{})
}

// Resolved counts a resolution. It is the template.Observer interface.
func (obj *Prometheus) Resolved(unresolved int) {
	complete := strconv.FormatBool(unresolved == 0)
	obj.resolveTotal.With(prometheus.Labels{"complete": complete}).Inc()
	obj.unresolvedTotal.Add(float64(unresolved))
}

// CacheLookup counts a cache lookup. It is the template.CacheObserver interface.
func (obj *Prometheus) CacheLookup(hit bool) {
	obj.cacheLookupTotal.With(prometheus.Labels{"hit": strconv.FormatBool(hit)}).Inc()
}
