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

// Package backend provides the backend implementation of SyncSphere.
// This package is responsible for managing the database, the blob storage
// and other resources shared by the business operations.
package backend

import (
	"context"
	"errors"

	"github.com/syncsphere/syncsphere/server/backend/background"
	"github.com/syncsphere/syncsphere/server/backend/cache"
	"github.com/syncsphere/syncsphere/server/backend/database"
	memdb "github.com/syncsphere/syncsphere/server/backend/database/memory"
	"github.com/syncsphere/syncsphere/server/backend/database/mongo"
	"github.com/syncsphere/syncsphere/server/backend/hooks"
	"github.com/syncsphere/syncsphere/server/backend/storage"
	"github.com/syncsphere/syncsphere/server/backend/storage/local"
	"github.com/syncsphere/syncsphere/server/logging"
	"github.com/syncsphere/syncsphere/server/profiling/prometheus"
)

// Backend manages SyncSphere's backend such as Database and Storage. It
// also runs the post-commit hooks of the business operations.
type Backend struct {
	Config *Config

	// Cache is the central cache manager for all caches.
	Cache *cache.Manager
	// Background is used to manage background tasks.
	Background *background.Background

	// Metrics is used to expose metrics.
	Metrics *prometheus.Metrics
	// DB is the database instance.
	DB database.Database
	// Storage is the blob storage of the uploaded files.
	Storage storage.Storage

	fanOut *fanOut
}

// New creates a new instance of Backend.
func New(
	conf *Config,
	mongoConf *mongo.Config,
	storageConf *storage.Config,
	metrics *prometheus.Metrics,
) (*Backend, error) {
	// 01. Create the cache manager and the background task manager.
	cacheManager, err := cache.New(cache.Options{
		UserCacheSize: conf.AuthCacheSize,
		UserCacheTTL:  conf.ParseAuthCacheTTL(),
	})
	if err != nil {
		return nil, err
	}
	bg := background.New(metrics)

	// 02. Create the database instance. If the MongoDB configuration is given,
	// create a MongoDB instance. Otherwise, create a memory database instance.
	var db database.Database
	if mongoConf != nil {
		db, err = mongo.Dial(mongoConf)
		if err != nil {
			return nil, err
		}
	} else {
		db, err = memdb.New()
		if err != nil {
			return nil, err
		}
	}

	// 03. Create the blob storage.
	store, err := local.New(storageConf)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	dbInfo := "memory"
	if mongoConf != nil {
		dbInfo = mongoConf.ConnectionURI
	}
	logging.DefaultLogger().Infof(
		"backend created: db: %s, storage: %s, async hooks: %t",
		dbInfo,
		storageConf.Root,
		conf.AsyncHooks,
	)

	return &Backend{
		Config: conf,

		Cache:      cacheManager,
		Background: bg,

		Metrics: metrics,
		DB:      db,
		Storage: store,

		fanOut: newFanOut(conf.HookConcurrency),
	}, nil
}

// Shutdown waits for the background tasks and closes the database.
func (b *Backend) Shutdown() error {
	var errs []error

	b.Background.Close()
	b.Cache.LogStats(logging.DefaultLogger())

	if err := b.DB.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	logging.DefaultLogger().Infof("backend stopped")
	return nil
}

// RunHooks runs the post-commit hooks of an operation. The hooks finish
// before it returns unless the backend runs them asynchronously. The
// cancellation of ctx does not reach the hooks. Failures are logged and
// counted but never returned.
func (b *Backend) RunHooks(ctx context.Context, list hooks.List) {
	if len(list) == 0 {
		return
	}

	if !b.Config.AsyncHooks {
		// The primary write already committed, so a client that went away
		// must not cancel its side effects.
		b.runHooks(context.WithoutCancel(ctx), list)
		return
	}

	if !b.Background.AttachGoroutine(func(ctx context.Context) {
		b.runHooks(ctx, list)
	}, "hooks") {
		logging.From(ctx).Warnf("%d hooks dropped: background closed", len(list))
	}
}

func (b *Backend) runHooks(ctx context.Context, list hooks.List) {
	logger := logging.From(ctx)
	hooks.Run(ctx, list, func(name string, err error) {
		logger.Errorf("hook %s: %v", name, err)
		b.Metrics.AddHookFailure(name)
	})
}

// RecordCascade logs and counts the documents removed with a project.
func (b *Backend) RecordCascade(ctx context.Context, counts *database.DeletedCounts) {
	b.Metrics.AddCascadeDeleted("checkins", counts.CheckIns)
	b.Metrics.AddCascadeDeleted("notifications", counts.Notifications)
	b.Metrics.AddCascadeDeleted("activities", counts.Activities)
	b.Metrics.AddCascadeDeleted("discussions", counts.Discussions)

	logging.From(ctx).Infof(
		"cascade deleted: checkins=%d notifications=%d activities=%d discussions=%d",
		counts.CheckIns,
		counts.Notifications,
		counts.Activities,
		counts.Discussions,
	)
}
