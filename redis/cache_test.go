package redis_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/isocert"
	isoredis "github.com/fwojciec/isocert/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestKey(t *testing.T) {
	t.Parallel()

	assert.True(t, strings.HasPrefix(isoredis.Key("삼성전자"), isoredis.KeyPrefix))
	assert.Equal(t, isoredis.Key("삼성전자"), isoredis.Key("삼성전자"))
	assert.NotEqual(t, isoredis.Key("삼성전자"), isoredis.Key("네이버"))
}

func TestCacheService_SaveCachedResult_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	svc := isoredis.NewCacheService(nil) // validation happens before any call

	err := svc.SaveCachedResult(context.Background(), "", nil, time.Hour)
	assert.Equal(t, isocert.EINVALID, isocert.ErrorCode(err))

	err = svc.SaveCachedResult(context.Background(), "key", nil, 0)
	assert.Equal(t, isocert.EINVALID, isocert.ErrorCode(err))
}

type CacheSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *redis.Client
	svc       *isoredis.CacheService
}

func TestCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	url, err := container.ConnectionString(ctx)
	s.Require().NoError(err)

	client, err := isoredis.NewClient(ctx, isoredis.Config{URL: url})
	s.Require().NoError(err)
	s.client = client
	s.svc = isoredis.NewCacheService(client)
}

func (s *CacheSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *CacheSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(context.Background()).Err())
	s.svc.Now = time.Now
}

func (s *CacheSuite) TestRoundTrip() {
	ctx := context.Background()
	results := []*isocert.Certification{{
		CompanyName:        "삼성전자",
		CertificationTypes: []string{"ISO 9001:2015"},
		Status:             isocert.StatusValid,
		Sources:            []isocert.Source{{URL: "https://ksa.or.kr/search", Source: "KSA"}},
	}}

	s.Require().NoError(s.svc.SaveCachedResult(ctx, "삼성전자", results, time.Hour))

	got, err := s.svc.FindCachedResult(ctx, "삼성전자")
	s.Require().NoError(err)
	s.Equal("삼성전자", got.Key)
	s.Require().Len(got.Results, 1)
	s.Equal(results[0].CertificationTypes, got.Results[0].CertificationTypes)

	ttl, err := s.client.TTL(ctx, isoredis.Key("삼성전자")).Result()
	s.Require().NoError(err)
	s.InDelta(time.Hour.Seconds(), ttl.Seconds(), 5)
}

func (s *CacheSuite) TestMissingKey() {
	_, err := s.svc.FindCachedResult(context.Background(), "missing")
	s.Equal(isocert.ENOTFOUND, isocert.ErrorCode(err))
}

func (s *CacheSuite) TestExpiredPayloadIgnored() {
	ctx := context.Background()
	s.Require().NoError(s.svc.SaveCachedResult(ctx, "key", nil, time.Hour))

	s.svc.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err := s.svc.FindCachedResult(ctx, "key")
	s.Equal(isocert.ENOTFOUND, isocert.ErrorCode(err))
}

func (s *CacheSuite) TestLastWriteWins() {
	ctx := context.Background()
	first := []*isocert.Certification{{CompanyName: "a", CertificationTypes: []string{"ISO 9001"}}}

	s.Require().NoError(s.svc.SaveCachedResult(ctx, "key", first, time.Hour))
	s.Require().NoError(s.svc.SaveCachedResult(ctx, "key", nil, time.Hour))

	got, err := s.svc.FindCachedResult(ctx, "key")
	s.Require().NoError(err)
	s.NotNil(got.Results)
	s.Empty(got.Results)
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := isoredis.NewClient(context.Background(), isoredis.Config{URL: "not-a-url"})
	require.Error(t, err)
}
