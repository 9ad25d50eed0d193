/*
 * Copyright 2026 The SyncSphere Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package profiling

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/syncsphere/syncsphere/server/logging"
	"github.com/syncsphere/syncsphere/server/profiling/prometheus"
)

const (
	pathMetrics = "/metrics"
	pathHealth  = "/healthz"

	// pathDebug is where the pprof routes are mounted: /debug/pprof/...
	pathDebug = "/debug"
)

// Server serves the metrics of SyncSphere and, when enabled, the runtime
// profiles of pprof.
type Server struct {
	conf       *Config
	handler    http.Handler
	httpServer *http.Server
}

// NewServer creates an instance of Server.
func NewServer(conf *Config, metrics *prometheus.Metrics) *Server {
	r := chi.NewRouter()
	r.Get(pathHealth, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if metrics != nil {
		r.Method(
			http.MethodGet,
			pathMetrics,
			promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}),
		)
	}

	if conf.EnablePprof {
		r.Mount(pathDebug, chimiddleware.Profiler())
	}

	return &Server{
		conf:    conf,
		handler: r,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", conf.Port),
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Handler returns the root handler of the server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start opens the port and serves in the background.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen profiling on %d: %w", s.conf.Port, err)
	}

	go func() {
		logging.DefaultLogger().Infof("serving profiling on %d", s.conf.Port)
		if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.DefaultLogger().Errorf("profiling server: %v", err)
		}
	}()
	return nil
}

// Shutdown shuts down the server. A graceful shutdown waits for the ongoing
// scrapes.
func (s *Server) Shutdown(graceful bool) {
	if graceful {
		if err := s.httpServer.Shutdown(context.Background()); err != nil {
			logging.DefaultLogger().Errorf("profiling server shutdown: %v", err)
		}
		return
	}

	if err := s.httpServer.Close(); err != nil {
		logging.DefaultLogger().Errorf("profiling server close: %v", err)
	}
}
