package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"storeshard/pkg/hashsvc"
	"storeshard/pkg/types"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL 是缓存条目的默认过期时间
const DefaultTTL = 24 * time.Hour

// CachedService 是一个装饰器，为底层 hashsvc.Service 添加 Redis 缓存
// 同样的种子字节永远得到同样的 digest，所以缓存结果是安全的
type CachedService struct {
	backend hashsvc.Service
	client  *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
}

type Config struct {
	RedisURL string        // redis://<user>:<password>@<host>:<port>/<db>
	TTL      time.Duration // 0 表示 DefaultTTL
	Logger   *zap.Logger
}

func NewCachedService(backend hashsvc.Service, cfg Config) (*CachedService, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Fail-fast 连接检查
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewWithClient(backend, client, cfg.TTL, cfg.Logger), nil
}

// NewWithClient 复用一个已有的 Redis 客户端
func NewWithClient(backend hashsvc.Service, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedService{
		backend: backend,
		client:  client,
		ttl:     ttl,
		logger:  logger,
	}
}

// cacheKey 以种子字节的 sha256 作为 key，避免把任意长度的种子直接塞进 Redis key
func (s *CachedService) cacheKey(data []byte) string {
	sum := sha256.Sum256(data)
	return "storeshard:store:" + hex.EncodeToString(sum[:])
}

// StoreDigest 优先查 Redis，未命中再调用底层服务并回填
func (s *CachedService) StoreDigest(ctx context.Context, data []byte) (types.Digest, error) {
	key := s.cacheKey(data)

	// 1. 查 Redis
	val, err := s.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if d := types.Digest(val); d.IsValid(types.KindStore) {
			return d, nil
		}
		// 缓存里的值不合法，当作未命中，稍后覆盖
		s.logger.Warn("discarding malformed cached digest", zap.String("key", key))
	case errors.Is(err, redis.Nil):
		// Cache Miss
	default:
		// 缓存故障降级: Redis 挂了就直接走底层服务
		s.logger.Warn("redis unavailable, falling back to backend", zap.Error(err))
	}

	// 2. 穿透到底层服务
	d, err := s.backend.StoreDigest(ctx, data)
	if err != nil {
		return "", err
	}

	// 3. 回填，失败不影响主流程
	if err := s.client.Set(ctx, key, d.String(), s.ttl).Err(); err != nil {
		s.logger.Warn("failed to fill digest cache", zap.Error(err))
	}

	return d, nil
}

func (s *CachedService) Close() error {
	return s.client.Close()
}
