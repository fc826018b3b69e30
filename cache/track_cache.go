package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"wwjtop/db"
	"wwjtop/model"
)

const (
	trackListKey = "tracks:public"
	trackListTTL = 10 * time.Minute
)

// playCounterKey builds the Redis key mirroring a track's play counter.
func playCounterKey(trackID int64) string {
	return fmt.Sprintf("track:plays:%d", trackID)
}

// encodeTrackList marshals the list for caching. A nil list is stored as [] so
// that an empty library still produces a cache hit on the way back.
func encodeTrackList(tracks []*model.MusicTrack) ([]byte, error) {
	if tracks == nil {
		tracks = []*model.MusicTrack{}
	}
	return json.Marshal(tracks)
}

// decodeTrackList unmarshals a cached list. The result is never nil on
// success; callers use nil as the cache-miss marker.
func decodeTrackList(data []byte) ([]*model.MusicTrack, error) {
	tracks := []*model.MusicTrack{}
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, err
	}
	if tracks == nil {
		tracks = []*model.MusicTrack{}
	}
	return tracks, nil
}

// GetTrackList returns the cached public track list, or (nil, nil) on a cache
// miss or when Redis is unavailable.
func GetTrackList(ctx context.Context) ([]*model.MusicTrack, error) {
	if db.RedisClient == nil {
		return nil, nil
	}

	data, err := db.RedisClient.Get(ctx, trackListKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get track list from cache: %w", err)
	}

	tracks, err := decodeTrackList(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached track list: %w", err)
	}
	return tracks, nil
}

// SetTrackList caches the public track list.
func SetTrackList(ctx context.Context, tracks []*model.MusicTrack) error {
	if db.RedisClient == nil {
		return nil
	}

	data, err := encodeTrackList(tracks)
	if err != nil {
		return fmt.Errorf("failed to marshal track list: %w", err)
	}

	if err := db.RedisClient.Set(ctx, trackListKey, data, trackListTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache track list: %w", err)
	}
	return nil
}

// InvalidateTrackList drops the cached list. Called after every admin track
// mutation so stale ordering is never served past the mutation.
func InvalidateTrackList(ctx context.Context) error {
	if db.RedisClient == nil {
		return nil
	}

	if err := db.RedisClient.Del(ctx, trackListKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate track list cache: %w", err)
	}
	return nil
}

// IncrementPlayCounter bumps the Redis-side play counter. The database holds
// the authoritative count; this mirror serves cheap stat reads.
func IncrementPlayCounter(ctx context.Context, trackID int64) (int64, error) {
	if db.RedisClient == nil {
		return 0, nil
	}
	return db.RedisClient.Incr(ctx, playCounterKey(trackID)).Result()
}
