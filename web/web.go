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

// Package web serves address template resolution over http. It's a small
// debugging aid which lets other tools resolve templates against the same
// statement context that the console would use.
package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/purpleidea/hal/prometheus"
	"github.com/purpleidea/hal/statement"
	"github.com/purpleidea/hal/template"
	"github.com/purpleidea/hal/util"
	"github.com/purpleidea/hal/util/errwrap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// DefaultListen is the address we listen on if none is given.
	DefaultListen = "127.0.0.1:9990"

	// RequestIDHeader is where the request id is sent back.
	RequestIDHeader = "X-Request-Id"

	shutdownTimeout = 5 * time.Second
)

func init() {
	// XXX: here for now: https://github.com/gin-gonic/gin/issues/1180
	gin.SetMode(gin.ReleaseMode) // for production
}

// Server resolves templates over http. Run Init() on it first.
type Server struct {
	// Listen is the address to listen on.
	Listen string

	// Context is what templates are resolved against.
	Context statement.Context

	// Cache holds the parsed templates. One is built if it's nil.
	Cache *template.Cache

	// Prometheus is optional. If it's set, it receives the metrics and
	// they're served on /metrics.
	Prometheus *prometheus.Prometheus

	Debug bool
	Logf  func(format string, v ...interface{})

	resolver *template.Resolver
	router   *gin.Engine
}

// Init validates the server and builds the router.
func (obj *Server) Init() error {
	if obj.Context == nil {
		return fmt.Errorf("the Context is nil")
	}
	if obj.Listen == "" {
		obj.Listen = DefaultListen
	}
	if obj.Logf == nil {
		obj.Logf = util.Nologf
	}
	if obj.Cache == nil {
		cache, err := template.NewCache(template.DefaultCacheSize)
		if err != nil {
			return err
		}
		obj.Cache = cache
	}

	obj.resolver = &template.Resolver{
		Debug: obj.Debug,
		Logf: func(format string, v ...interface{}) {
			obj.Logf("resolve: "+format, v...)
		},
	}
	if obj.Prometheus != nil {
		obj.resolver.Observer = obj.Prometheus
		obj.Cache.Observer = obj.Prometheus
	}

	obj.router = obj.newRouter()
	return nil
}

// Handler returns the http handler. Init must have been called.
func (obj *Server) Handler() http.Handler {
	return obj.router
}

// Run serves until the context is cancelled, and then shuts down cleanly.
func (obj *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:     obj.Listen,
		Handler:  obj.router,
		ErrorLog: util.NewLogger(obj.Logf, "http: "),
	}

	errch := make(chan error, 1)
	go func() {
		obj.Logf("listening on: %s", obj.Listen)
		errch <- server.ListenAndServe()
	}()

	select {
	case err := <-errch:
		return errwrap.Wrapf(err, "server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errwrap.Wrapf(err, "shutdown failed")
	}
	if err := <-errch; err != nil && err != http.ErrServerClosed {
		return errwrap.Wrapf(err, "server failed")
	}
	return nil
}

// ginLogger is a helper to get structured logs out of gin. It also tags each
// request with an id.
func (obj *Server) ginLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Header(RequestIDHeader, id)
		start := time.Now()
		c.Next()
		if !obj.Debug {
			return
		}
		method := c.Request.Method
		path := c.Request.URL.Path
		status := c.Writer.Status()
		clientIP := c.ClientIP()
		obj.Logf("%s: %v %s %s (%d) in %s", id, clientIP, method, path, status, time.Since(start))
	}
}

func (obj *Server) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(obj.ginLogger(), gin.RecoveryWithWriter(&util.LogWriter{
		Prefix: "panic: ",
		Logf:   obj.Logf,
	}))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	router.GET("/parse", func(c *gin.Context) {
		s, ok := c.GetQuery("template")
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing template"})
			return
		}
		at := obj.Cache.Get(s)
		tokens := []gin.H{}
		for _, token := range at.Tokens() {
			tokens = append(tokens, gin.H{
				"key":    token.Key(),
				"value":  token.Value(),
				"hasKey": token.HasKey(),
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"template": at.String(),
			"optional": at.Optional(),
			"tokens":   tokens,
		})
	})

	router.GET("/resolve", func(c *gin.Context) {
		s, ok := c.GetQuery("template")
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing template"})
			return
		}
		strict := false
		if v := c.Query("strict"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("bad strict value: %s", v)})
				return
			}
			strict = b
		}

		at := obj.Cache.Get(s)
		wildcards := c.QueryArray("wildcard")
		addr, err := obj.resolver.ResolveStrict(at, obj.Context, wildcards...)
		if strict && err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":    err.Error(),
				"problems": errwrap.Strings(err),
				"address":  addr,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"template": at.String(),
			"address":  addr,
			"string":   addr.String(),
		})
	})

	if obj.Prometheus != nil {
		router.GET("/metrics", gin.WrapH(obj.Prometheus.Handler()))
	}

	return router
}
