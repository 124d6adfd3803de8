// pkg/app/app.go
package app

import (
	"errors"
	"fmt"
	"sync"

	"storeshard/pkg/deriver"
	"storeshard/pkg/hashsvc"
	"storeshard/pkg/hashsvc/cache"
	"storeshard/pkg/scratch"
	"storeshard/pkg/shard"
	"storeshard/pkg/storage/disk"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// App 是整个应用程序的依赖容器 (Dependency Container)
// NewApp 本身没有副作用: 目录和 Redis 连接在第一次用到时才创建
type App struct {
	Deriver     *deriver.Deriver
	Provisioner scratch.Provisioner
	Logger      *zap.Logger
	Depth       int

	storePath string
	mu        sync.Mutex
	layout    *disk.Layout
	closers   []func() error
}

// NewApp 按 Viper 配置组装所有组件，但不知道具体的 CLI 命令
func NewApp() (*App, error) {
	// 1. Logger
	logger, err := newLogger(viper.GetBool("log.debug"))
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	// 2. 分片参数，只做校验，不创建目录
	depth := viper.GetInt("shard.depth")
	if depth < 0 {
		return nil, fmt.Errorf("%w: shard.depth must be non-negative, got %d", shard.ErrInvalidArgument, depth)
	}
	storePath := viper.GetString("storage.path")
	if storePath == "" {
		return nil, fmt.Errorf("storage path not set")
	}

	// 3. 哈希服务 (可选 Redis 缓存，延迟连接)
	svc, closer, err := initService(logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		Deriver: deriver.New(svc, deriver.Options{
			Timeout:     viper.GetDuration("hash.timeout"),
			Concurrency: viper.GetInt("derive.concurrency"),
		}),
		Logger:    logger,
		Depth:     depth,
		storePath: storePath,
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	a.closers = append(a.closers, func() error {
		// stderr 上的 Sync 可能返回 EINVAL，忽略
		_ = logger.Sync()
		return nil
	})
	return a, nil
}

// NewWithLayout 用现成的组件组装 App (测试和嵌入场景)
func NewWithLayout(d *deriver.Deriver, layout *disk.Layout, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		Deriver:   d,
		Logger:    logger,
		Depth:     layout.Depth(),
		storePath: layout.Root(),
		layout:    layout,
	}
}

// Layout 第一次调用时创建 storage.path
func (a *App) Layout() (*disk.Layout, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.layout != nil {
		return a.layout, nil
	}
	layout, err := disk.NewLayout(a.storePath, a.Depth)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}
	a.layout = layout
	return layout, nil
}

// Close 释放 Redis 连接等资源
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// initService 根据 hash.backend 选择实现，再按需套上 Redis 缓存
// 缓存在第一次 StoreDigest 时才连接
func initService(logger *zap.Logger) (hashsvc.Service, func() error, error) {
	var svc hashsvc.Service

	switch backend := viper.GetString("hash.backend"); backend {
	case "", "native":
		svc = hashsvc.NewNative()
	case "nix":
		svc = hashsvc.NewNixHash(hashsvc.NixHashConfig{
			Binary: viper.GetString("hash.binary"),
			Logger: logger,
		})
	default:
		return nil, nil, fmt.Errorf("unsupported hash backend: %s", backend)
	}

	redisURL := viper.GetString("cache.redis_url")
	if redisURL == "" {
		return svc, nil, nil
	}

	cfg := cache.Config{
		RedisURL: redisURL,
		TTL:      viper.GetDuration("cache.ttl"),
		Logger:   logger,
	}
	lazy := newLazyService(func() (*cache.CachedService, error) {
		cached, err := cache.NewCachedService(svc, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to init digest cache: %w", err)
		}
		return cached, nil
	})
	return lazy, lazy.Close, nil
}
