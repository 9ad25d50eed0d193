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

// Package server provides the SyncSphere server which is the main entry
// point of the SyncSphere system. The server is responsible for starting the
// REST server, the profiling server and the housekeeping service.
package server

import (
	gosync "sync"

	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/backend/housekeeping"
	"github.com/syncsphere/syncsphere/server/profiling"
	"github.com/syncsphere/syncsphere/server/profiling/prometheus"
	"github.com/syncsphere/syncsphere/server/rest"
)

// SyncSphere is a server of SyncSphere.
// The server serves the REST API of the projects, the members, the
// check-ins and the social features, and keeps them in the database.
type SyncSphere struct {
	lock gosync.Mutex

	conf            *Config
	backend         *backend.Backend
	restServer      *rest.Server
	profilingServer *profiling.Server
	housekeeping    *housekeeping.Housekeeping

	shutdown   bool
	shutdownCh chan struct{}
}

// New creates a new instance of SyncSphere.
func New(conf *Config) (*SyncSphere, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	metrics, err := prometheus.NewMetrics()
	if err != nil {
		return nil, err
	}

	be, err := backend.New(conf.Backend, conf.Mongo, conf.Storage, metrics)
	if err != nil {
		return nil, err
	}

	restServer, err := rest.NewServer(conf.REST, be)
	if err != nil {
		_ = be.Shutdown()
		return nil, err
	}

	var profilingServer *profiling.Server
	if conf.Profiling != nil {
		profilingServer = profiling.NewServer(conf.Profiling, metrics)
	}

	var hskp *housekeeping.Housekeeping
	if conf.Housekeeping != nil {
		if hskp, err = housekeeping.New(conf.Housekeeping, be.DB); err != nil {
			_ = be.Shutdown()
			return nil, err
		}
	}

	return &SyncSphere{
		conf:            conf,
		backend:         be,
		restServer:      restServer,
		profilingServer: profilingServer,
		housekeeping:    hskp,
		shutdownCh:      make(chan struct{}),
	}, nil
}

// Start starts the server by opening the REST port.
func (s *SyncSphere) Start() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.profilingServer != nil {
		if err := s.profilingServer.Start(); err != nil {
			return err
		}
	}

	if s.housekeeping != nil {
		if err := s.housekeeping.Start(); err != nil {
			return err
		}
	}

	return s.restServer.Start()
}

// Shutdown shuts down this SyncSphere server.
func (s *SyncSphere) Shutdown(graceful bool) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.shutdown {
		return nil
	}

	s.restServer.Shutdown(graceful)
	if s.profilingServer != nil {
		s.profilingServer.Shutdown(graceful)
	}
	if s.housekeeping != nil {
		if err := s.housekeeping.Stop(); err != nil {
			return err
		}
	}

	if err := s.backend.Shutdown(); err != nil {
		return err
	}

	close(s.shutdownCh)
	s.shutdown = true
	return nil
}

// ShutdownCh returns the shutdown channel.
func (s *SyncSphere) ShutdownCh() <-chan struct{} {
	return s.shutdownCh
}

// RESTAddr returns the address of the REST server.
func (s *SyncSphere) RESTAddr() string {
	return s.conf.RESTAddr()
}
