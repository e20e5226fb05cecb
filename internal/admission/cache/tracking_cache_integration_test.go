//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"admissio/internal/admission/cache"
	"admissio/internal/admission/models"
	"admissio/internal/platform/metrics"
	"admissio/internal/platform/redis"
	id "admissio/pkg/domain"
	"admissio/pkg/testutil/containers"
)

type TrackingCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.TrackingCache
}

func TestTrackingCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(TrackingCacheSuite))
}

func (s *TrackingCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())

	client, err := redis.New(context.Background(), s.redis.Addr)
	s.Require().NoError(err)
	s.cache = cache.NewTrackingCache(client, time.Minute, nil, metrics.New())
}

func (s *TrackingCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func sampleApplication(trackingID string) *models.Application {
	now := time.Now().UTC().Truncate(time.Second)
	app := models.NewApplication(id.NewApplicantID(), id.NewCentreID(), now)
	app.TrackingID = trackingID
	return app
}

func (s *TrackingCacheSuite) TestReadThrough() {
	ctx := context.Background()

	_, ok := s.cache.Get(ctx, "SM-120590-001")
	s.False(ok, "empty cache must miss")

	app := sampleApplication("SM-120590-001")
	s.cache.Set(ctx, app)

	got, ok := s.cache.Get(ctx, "SM-120590-001")
	s.Require().True(ok)
	s.Equal(app.ID, got.ID)
	s.Equal(app.TrackingID, got.TrackingID)
	s.Equal(app.Status, got.Status)
	s.True(app.DateSubmitted.Equal(got.DateSubmitted))
}

func (s *TrackingCacheSuite) TestInvalidateDropsSnapshot() {
	ctx := context.Background()

	app := sampleApplication("SM-120590-002")
	s.cache.Set(ctx, app)

	s.cache.Invalidate(ctx, app.TrackingID)

	_, ok := s.cache.Get(ctx, app.TrackingID)
	s.False(ok, "invalidated entry must miss")
}

func (s *TrackingCacheSuite) TestCorruptEntryMisses() {
	ctx := context.Background()

	s.Require().NoError(s.redis.Client.Set(ctx, "tracking:SM-120590-003", "not json", time.Minute).Err())

	_, ok := s.cache.Get(ctx, "SM-120590-003")
	s.False(ok, "undecodable payload must degrade to a miss")
}

func (s *TrackingCacheSuite) TestEntriesExpire() {
	ctx := context.Background()

	client, err := redis.New(ctx, s.redis.Addr)
	s.Require().NoError(err)
	short := cache.NewTrackingCache(client, 50*time.Millisecond, nil, nil)

	app := sampleApplication("SM-120590-004")
	short.Set(ctx, app)

	_, ok := short.Get(ctx, app.TrackingID)
	s.Require().True(ok)

	time.Sleep(100 * time.Millisecond)

	_, ok = short.Get(ctx, app.TrackingID)
	s.False(ok, "entry should expire with its TTL")
}
