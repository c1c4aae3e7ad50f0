package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/workout-planner-go/internal/domain"
	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

var cachedSquat = domain.VideoSearchResult{
	VideoID:      "abcDEF12345",
	Title:        "Goblet Squat",
	ThumbnailURL: "https://img.youtube.com/vi/abcDEF12345/mqdefault.jpg",
	ShortsURL:    "https://www.youtube.com/shorts/abcDEF12345",
	Source:       domain.VideoSourceYouTubeAPI,
}

func newMockCache(t *testing.T) (*CacheService, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	t.Cleanup(func() { _ = client.Close() })
	return newCacheService(client, time.Hour, nil), mock
}

func TestCacheServiceGetVideoHit(t *testing.T) {
	c, mock := newMockCache(t)
	payload, err := json.Marshal(cachedSquat)
	require.NoError(t, err)
	mock.ExpectGet("video:goblet squat").SetVal(string(payload))

	got, ok := c.GetVideo(context.Background(), "video:goblet squat")
	require.True(t, ok)
	assert.Equal(t, cachedSquat, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheServiceGetVideoMiss(t *testing.T) {
	c, mock := newMockCache(t)
	mock.ExpectGet("video:lunge").RedisNil()

	got, ok := c.GetVideo(context.Background(), "video:lunge")
	assert.False(t, ok)
	assert.Empty(t, got.VideoID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheServiceErrorIsMiss(t *testing.T) {
	c, mock := newMockCache(t)
	mock.ExpectGet("video:plank").SetErr(errors.New("connection reset by peer"))
	mock.ExpectGet("video:plank").SetErr(errors.New("connection reset by peer"))

	_, ok := c.GetVideo(context.Background(), "video:plank")
	assert.False(t, ok)

	found, err := c.Get(context.Background(), "video:plank", &domain.VideoSearchResult{})
	assert.False(t, found)
	var storageErr *apperrors.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "get", storageErr.Operation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheServiceCorruptValueIsMiss(t *testing.T) {
	c, mock := newMockCache(t)
	mock.ExpectGet("video:deadlift").SetVal("{not json")
	mock.ExpectGet("video:deadlift").SetVal("{not json")

	_, ok := c.GetVideo(context.Background(), "video:deadlift")
	assert.False(t, ok)

	found, err := c.Get(context.Background(), "video:deadlift", &domain.VideoSearchResult{})
	assert.False(t, found)
	var storageErr *apperrors.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "video:deadlift", storageErr.Key)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheServiceSetVideoUsesTTL(t *testing.T) {
	c, mock := newMockCache(t)
	payload, err := json.Marshal(cachedSquat)
	require.NoError(t, err)
	mock.ExpectSet("video:goblet squat", payload, time.Hour).SetVal("OK")

	c.SetVideo(context.Background(), "video:goblet squat", cachedSquat)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheServiceSetVideoFailureIsSwallowed(t *testing.T) {
	c, mock := newMockCache(t)
	payload, err := json.Marshal(cachedSquat)
	require.NoError(t, err)
	mock.ExpectSet("video:goblet squat", payload, time.Hour).SetErr(errors.New("READONLY replica"))

	assert.NotPanics(t, func() {
		c.SetVideo(context.Background(), "video:goblet squat", cachedSquat)
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheServicePing(t *testing.T) {
	c, mock := newMockCache(t)
	mock.ExpectPing().SetVal("PONG")
	mock.ExpectPing().SetErr(errors.New("dial tcp: connection refused"))

	require.NoError(t, c.Ping(context.Background()))
	require.Error(t, c.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
