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

// Package helper provides helper functions for testing.
package helper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	gotime "time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
	gomongo "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/server"
	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/backend/database"
	"github.com/syncsphere/syncsphere/server/backend/database/mongo"
	"github.com/syncsphere/syncsphere/server/backend/storage"
	"github.com/syncsphere/syncsphere/server/logging"
	"github.com/syncsphere/syncsphere/server/profiling"
	"github.com/syncsphere/syncsphere/server/profiling/prometheus"
	"github.com/syncsphere/syncsphere/server/rest"
)

var testStartedAt int64

// Below are the values of the SyncSphere config used in the test.
var (
	RESTPort      = 12101
	ProfilingPort = 12102

	SecretKey       = "test-secret-key"
	TokenDuration   = 10 * gotime.Second
	HookConcurrency = int64(4)
	FeedLimit       = 50
	AuthCacheSize   = 100
	AuthCacheTTL    = 10 * gotime.Second
	MaxFileBytes    = int64(1 << 20)

	MongoConnectionURI     = "mongodb://localhost:27017"
	MongoConnectionTimeout = "5s"
	MongoPingTimeout       = "5s"

	portOffset atomic.Int32
	nameSeq    atomic.Int64
)

func init() {
	testStartedAt = gotime.Now().Unix()
}

// TestDBName returns the name of test database with timestamp.
// timestamp is set only once on first call.
func TestDBName() string {
	return fmt.Sprintf("test-%s-%d", server.DefaultMongoDatabase, testStartedAt)
}

// TestBackendConfig returns the backend config used in the test. The hooks
// run inline so that tests observe their effects on return.
func TestBackendConfig() *backend.Config {
	return &backend.Config{
		SecretKey:       SecretKey,
		TokenDuration:   TokenDuration.String(),
		HookConcurrency: HookConcurrency,
		FeedLimit:       FeedLimit,
		AuthCacheSize:   AuthCacheSize,
		AuthCacheTTL:    AuthCacheTTL.String(),
	}
}

// TestConfig returns the server config used in the test. The memory
// database is used and the blobs are stored under a temporary directory.
func TestConfig(t testing.TB) *server.Config {
	offset := int(portOffset.Add(10))
	return &server.Config{
		REST: &rest.Config{
			Port:            RESTPort + offset,
			MaxRequestBytes: rest.DefaultMaxRequestBytes,
			RateLimit:       rest.DefaultRateLimit,
			RateBurst:       rest.DefaultRateBurst,
		},
		Profiling: &profiling.Config{
			Port: ProfilingPort + offset,
		},
		Backend: TestBackendConfig(),
		Storage: &storage.Config{
			Root:         t.TempDir(),
			MaxFileBytes: MaxFileBytes,
		},
	}
}

// TestMongoConfig returns the mongo config of the test database.
func TestMongoConfig() *mongo.Config {
	return &mongo.Config{
		ConnectionURI:     MongoConnectionURI,
		ConnectionTimeout: MongoConnectionTimeout,
		PingTimeout:       MongoPingTimeout,
		Database:          TestDBName(),
	}
}

// TestBackend returns a new backend over the memory database. It is shut
// down when the test finishes.
func TestBackend(t testing.TB) *backend.Backend {
	return TestBackendWithConfig(t, TestBackendConfig())
}

// TestBackendWithConfig returns a new backend over the memory database with
// the given config.
func TestBackendWithConfig(t testing.TB, conf *backend.Config) *backend.Backend {
	metrics, err := prometheus.NewMetrics()
	assert.NoError(t, err)

	be, err := backend.New(conf, nil, &storage.Config{
		Root:         t.TempDir(),
		MaxFileBytes: MaxFileBytes,
	}, metrics)
	assert.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, be.Shutdown())
	})
	return be
}

// UniqueName returns a name that is a valid username and unique in the test
// binary.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s%d", strings.ToLower(prefix), nameSeq.Add(1))
}

// CreateUser creates a user with the given username prefix.
func CreateUser(t testing.TB, be *backend.Backend, prefix string) *database.UserInfo {
	name := UniqueName(prefix)
	info, err := be.DB.CreateUserInfo(
		context.Background(),
		name,
		name+"@example.com",
		"hashed-password",
		"",
	)
	assert.NoError(t, err)
	return info
}

// CreateProject creates a project owned by the given user.
func CreateProject(t testing.TB, be *backend.Backend, owner types.ID, name string) *database.ProjectInfo {
	info, err := be.DB.CreateProjectInfo(context.Background(), owner, &types.ProjectFields{
		Name: &name,
	})
	assert.NoError(t, err)
	return info
}

// AddMember adds the user to the project with the given role.
func AddMember(
	t testing.TB,
	be *backend.Backend,
	project *database.ProjectInfo,
	userID types.ID,
	role types.Role,
) *database.ProjectInfo {
	info, err := be.DB.AddProjectMember(context.Background(), project.ID, userID, role, project.Owner)
	assert.NoError(t, err)
	return info
}

// CountNotifications returns the number of notifications of the recipient.
func CountNotifications(t testing.TB, be *backend.Backend, recipient types.ID) int {
	infos, err := be.DB.ListNotificationInfos(context.Background(), recipient, false, 0)
	assert.NoError(t, err)
	return len(infos)
}

// MetricSum returns the sum of the values of the counter family.
func MetricSum(t testing.TB, be *backend.Backend, name string) float64 {
	families, err := be.Metrics.Registry().Gather()
	assert.NoError(t, err)

	var sum float64
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			sum += metric.GetCounter().GetValue()
		}
	}
	return sum
}

// ErrInjected is returned by the operations that FaultyDB fails.
var ErrInjected = errors.New("injected failure")

// FaultyDB is a database that fails the selected operations.
type FaultyDB struct {
	database.Database

	FailNotifications bool
	FailActivities    bool
	FailRelease       bool
}

// CreateNotificationInfo fails if FailNotifications is set.
func (d *FaultyDB) CreateNotificationInfo(
	ctx context.Context,
	info *database.NotificationInfo,
) (*database.NotificationInfo, error) {
	if d.FailNotifications {
		return nil, ErrInjected
	}
	return d.Database.CreateNotificationInfo(ctx, info)
}

// CreateActivityInfo fails if FailActivities is set.
func (d *FaultyDB) CreateActivityInfo(
	ctx context.Context,
	info *database.ActivityInfo,
) (*database.ActivityInfo, error) {
	if d.FailActivities {
		return nil, ErrInjected
	}
	return d.Database.CreateActivityInfo(ctx, info)
}

// ReleaseProject fails if FailRelease is set.
func (d *FaultyDB) ReleaseProject(
	ctx context.Context,
	projectID types.ID,
	userID types.ID,
	files []*database.FileInfo,
) (*database.ProjectInfo, error) {
	if d.FailRelease {
		return nil, ErrInjected
	}
	return d.Database.ReleaseProject(ctx, projectID, userID, files)
}

// setupRawMongoClient returns the raw mongo client.
func setupRawMongoClient(conf *mongo.Config) (*gomongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.ParseConnectionTimeout())
	defer cancel()

	client, err := gomongo.Connect(
		options.Client().
			ApplyURI(conf.ConnectionURI).
			SetRegistry(mongo.NewRegistry()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	ctxPing, cancel := context.WithTimeout(ctx, conf.ParsePingTimeout())
	defer cancel()

	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logging.DefaultLogger().Infof("MongoDB connected, URI: %s, DB: %s", conf.ConnectionURI, conf.Database)

	return client, nil
}

// CleanUpAllCollections removes all data in every collection.
func CleanUpAllCollections(conf *mongo.Config) error {
	cli, err := setupRawMongoClient(conf)
	if err != nil {
		return err
	}
	defer func() {
		_ = cli.Disconnect(context.Background())
	}()

	for _, col := range mongo.Collections {
		_, err := cli.Database(conf.Database).Collection(col).DeleteMany(context.Background(), bson.D{})
		if err != nil {
			return err
		}
	}
	return nil
}
