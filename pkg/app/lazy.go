package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storeshard/pkg/hashsvc"
	"storeshard/pkg/hashsvc/cache"
	"storeshard/pkg/types"
)

var errCacheClosed = errors.New("digest cache closed")

// lazyService 在第一次 StoreDigest 时才建立 Redis 连接
// 初始化失败会被记住，之后的调用直接返回同一个错误
type lazyService struct {
	connect func() (*cache.CachedService, error)

	mu     sync.Mutex
	done   bool
	cached *cache.CachedService
	err    error
}

func newLazyService(connect func() (*cache.CachedService, error)) *lazyService {
	return &lazyService{connect: connect}
}

func (l *lazyService) get() (*cache.CachedService, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.done {
		l.cached, l.err = l.connect()
		l.done = true
	}
	return l.cached, l.err
}

func (l *lazyService) StoreDigest(ctx context.Context, data []byte) (types.Digest, error) {
	cached, err := l.get()
	if err != nil {
		return "", fmt.Errorf("%w: %w", hashsvc.ErrHashingService, err)
	}
	return cached.StoreDigest(ctx, data)
}

// Close 只关闭真正建立过的连接
func (l *lazyService) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 关闭之后不能再建立连接
	l.done, l.err = true, errCacheClosed
	if l.cached == nil {
		return nil
	}
	err := l.cached.Close()
	l.cached = nil
	return err
}
