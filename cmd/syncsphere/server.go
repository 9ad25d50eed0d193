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

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/syncsphere/syncsphere/server"
	"github.com/syncsphere/syncsphere/server/backend/database/mongo"
	"github.com/syncsphere/syncsphere/server/logging"
)

var (
	gracefulTimeout = 10 * time.Second
)

var (
	flagConfPath    string
	flagLogLevel    string
	flagLogEncoding string

	tokenDuration         time.Duration
	authCacheTTL          time.Duration
	housekeepingInterval  time.Duration
	notificationRetention time.Duration

	mongoConnectionURI     string
	mongoConnectionTimeout time.Duration
	mongoDatabase          string
	mongoPingTimeout       time.Duration

	conf = server.NewConfig()
)

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server [options]",
		Short: "Start SyncSphere server",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf.Backend.TokenDuration = tokenDuration.String()
			conf.Backend.AuthCacheTTL = authCacheTTL.String()
			conf.Housekeeping.Interval = housekeepingInterval.String()
			conf.Housekeeping.NotificationRetention = notificationRetention.String()

			if mongoConnectionURI != "" {
				conf.Mongo = &mongo.Config{
					ConnectionURI:     mongoConnectionURI,
					ConnectionTimeout: mongoConnectionTimeout.String(),
					Database:          mongoDatabase,
					PingTimeout:       mongoPingTimeout.String(),
				}
			}

			// If config file is given, command-line arguments will be overwritten.
			if flagConfPath != "" {
				parsed, err := server.NewConfigFromFile(flagConfPath)
				if err != nil {
					return err
				}
				conf = parsed
			}

			if err := logging.SetLogLevel(flagLogLevel); err != nil {
				return err
			}
			if err := logging.SetEncoding(flagLogEncoding); err != nil {
				return err
			}

			s, err := server.New(conf)
			if err != nil {
				return err
			}

			if err := s.Start(); err != nil {
				return err
			}

			if code := handleSignal(s); code != 0 {
				return fmt.Errorf("exit code: %d", code)
			}

			return nil
		},
	}
}

func handleSignal(s *server.SyncSphere) int {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	var sig os.Signal
	select {
	case received := <-sigCh:
		sig = received
	case <-s.ShutdownCh():
		return 0
	}

	graceful := false
	if sig == syscall.SIGINT || sig == syscall.SIGTERM {
		graceful = true
	}

	gracefulCh := make(chan struct{})
	go func() {
		if err := s.Shutdown(graceful); err != nil {
			logging.DefaultLogger().Error(err)
			return
		}
		close(gracefulCh)
	}()

	select {
	case <-sigCh:
		return 1
	case <-time.After(gracefulTimeout):
		return 1
	case <-gracefulCh:
		return 0
	}
}

func init() {
	cmd := newServerCmd()
	flags := cmd.Flags()

	flags.StringVarP(&flagConfPath, "config", "c", "", "Config path")
	flags.StringVarP(&flagLogLevel, "log-level", "l", "info", "Log level: debug, info, warn, error, panic, fatal")
	flags.StringVar(&flagLogEncoding, "log-encoding", "console", "Log encoding: console, json")

	// REST API
	flags.IntVar(&conf.REST.Port, "rest-port", server.DefaultRESTPort, "REST port")
	flags.StringVar(&conf.REST.CertFile, "rest-cert-file", "", "REST certification file's path")
	flags.StringVar(&conf.REST.KeyFile, "rest-key-file", "", "REST key file's path")
	flags.Int64Var(&conf.REST.MaxRequestBytes, "rest-max-request-bytes", conf.REST.MaxRequestBytes,
		"Maximum request body size in bytes the server will accept.")
	flags.Float64Var(&conf.REST.RateLimit, "rest-rate-limit", conf.REST.RateLimit,
		"Number of requests per second a user can make.")
	flags.IntVar(&conf.REST.RateBurst, "rest-rate-burst", conf.REST.RateBurst,
		"Number of requests a user can make at once.")

	// Profiling
	flags.IntVar(&conf.Profiling.Port, "profiling-port", server.DefaultProfilingPort, "Profiling port")
	flags.BoolVar(&conf.Profiling.EnablePprof, "enable-pprof", false, "Enable runtime profiling data via HTTP server.")

	// Housekeeping
	flags.DurationVar(&housekeepingInterval, "housekeeping-interval", server.DefaultHousekeepingInterval,
		"housekeeping interval between housekeeping runs")
	flags.DurationVar(&notificationRetention, "housekeeping-notification-retention",
		server.DefaultHousekeepingNotificationRetention,
		"How long read notifications are kept before housekeeping deletes them")

	// MongoDB
	flags.StringVar(&mongoConnectionURI, "mongo-connection-uri", "",
		"MongoDB's connection URI. The memory database is used if it is not given.")
	flags.DurationVar(&mongoConnectionTimeout, "mongo-connection-timeout", server.DefaultMongoConnectionTimeout,
		"Mongo DB's connection timeout")
	flags.StringVar(&mongoDatabase, "mongo-database", server.DefaultMongoDatabase, "SyncSphere's database name in MongoDB")
	flags.DurationVar(&mongoPingTimeout, "mongo-ping-timeout", server.DefaultMongoPingTimeout, "Mongo DB's ping timeout")

	// Backend
	flags.StringVar(&conf.Backend.SecretKey, "backend-secret-key", server.DefaultSecretKey,
		"The secret key for signing authentication tokens.")
	flags.DurationVar(&tokenDuration, "token-duration", server.DefaultTokenDuration,
		"The duration of the authentication token.")
	flags.BoolVar(&conf.Backend.AsyncHooks, "backend-async-hooks", true,
		"Whether to create the notifications and the activities in the background.")
	flags.Int64Var(&conf.Backend.HookConcurrency, "backend-hook-concurrency", server.DefaultHookConcurrency,
		"Maximum number of notifications created at once.")
	flags.IntVar(&conf.Backend.FeedLimit, "backend-feed-limit", server.DefaultFeedLimit,
		"Maximum number of activities returned by a feed.")
	flags.IntVar(&conf.Backend.AuthCacheSize, "auth-cache-size", server.DefaultAuthCacheSize,
		"The cache size of the authenticated users.")
	flags.DurationVar(&authCacheTTL, "auth-cache-ttl", server.DefaultAuthCacheTTL,
		"TTL value to set when caching an authenticated user.")

	// Storage
	flags.StringVar(&conf.Storage.Root, "storage-root", server.DefaultStorageRoot,
		"Directory where the checked in files are stored.")
	flags.Int64Var(&conf.Storage.MaxFileBytes, "storage-max-file-bytes", conf.Storage.MaxFileBytes,
		"Maximum size of a single uploaded file in bytes.")

	rootCmd.AddCommand(cmd)
}
