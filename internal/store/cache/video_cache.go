package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/snehitv/vidshare-server/internal/store"
)

const (
	videoListKey = "videos:all"
	videoListTTL = 60 * time.Second
)

type VideoCache interface {
	GetVideos(ctx context.Context) ([]store.VideoWithChannel, bool)
	SetVideos(ctx context.Context, videos []store.VideoWithChannel)
	Invalidate(ctx context.Context)
}

// RedisVideoCache is a read-through cache for the all-videos listing. It
// fails open: any Redis error is logged and the caller falls back to
// Postgres.
type RedisVideoCache struct {
	client *redis.Client
	logger *log.Logger
}

func NewRedisVideoCache(client *redis.Client, logger *log.Logger) *RedisVideoCache {
	return &RedisVideoCache{client: client, logger: logger}
}

func (vc *RedisVideoCache) GetVideos(ctx context.Context) ([]store.VideoWithChannel, bool) {
	payload, err := vc.client.Get(ctx, videoListKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			vc.logger.Println("Error reading video list from cache:", err)
		}
		return nil, false
	}

	var videos []store.VideoWithChannel
	if err := json.Unmarshal(payload, &videos); err != nil {
		vc.logger.Println("Error decoding cached video list:", err)
		return nil, false
	}

	return videos, true
}

func (vc *RedisVideoCache) SetVideos(ctx context.Context, videos []store.VideoWithChannel) {
	payload, err := json.Marshal(videos)
	if err != nil {
		vc.logger.Println("Error encoding video list for cache:", err)
		return
	}

	if err := vc.client.Set(ctx, videoListKey, payload, videoListTTL).Err(); err != nil {
		vc.logger.Println("Error writing video list to cache:", err)
	}
}

// Invalidate drops the cached listing. Called after any mutation that
// changes which videos exist.
func (vc *RedisVideoCache) Invalidate(ctx context.Context) {
	if err := vc.client.Del(ctx, videoListKey).Err(); err != nil {
		vc.logger.Println("Error invalidating video list cache:", err)
	}
}
