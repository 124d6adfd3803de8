package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"storeshard/pkg/hashsvc"
	"storeshard/pkg/hashsvc/cache"
	"storeshard/pkg/types"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitService_Native(t *testing.T) {
	viper.Reset()
	viper.Set("hash.backend", "native")

	svc, closer, err := initService(zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, closer)
	assert.IsType(t, hashsvc.Native{}, svc)
}

func TestInitService_Nix(t *testing.T) {
	viper.Reset()
	viper.Set("hash.backend", "nix")
	viper.Set("hash.binary", "/opt/nix/bin/nix-hash")

	svc, _, err := initService(zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &hashsvc.NixHash{}, svc)
}

func TestInitService_UnknownBackend(t *testing.T) {
	viper.Reset()
	viper.Set("hash.backend", "md5sum") // 不支持的类型

	svc, _, err := initService(zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "unsupported hash backend")
}

// 缓存配置错误在第一次 StoreDigest 时才暴露，且作为哈希服务错误
func TestInitService_BadRedisURL(t *testing.T) {
	viper.Reset()
	viper.Set("cache.redis_url", "ftp://nowhere")

	svc, closer, err := initService(zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, closer)
	defer closer()

	_, err = svc.StoreDigest(context.Background(), []byte("1"))
	assert.ErrorIs(t, err, hashsvc.ErrHashingService)
	assert.Contains(t, err.Error(), "failed to init digest cache")
}

func TestNewApp(t *testing.T) {
	viper.Reset()
	storePath := filepath.Join(t.TempDir(), "objects")
	viper.Set("storage.path", storePath)
	viper.Set("shard.depth", 3)

	a, err := NewApp()
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 3, a.Depth)

	layout, err := a.Layout()
	require.NoError(t, err)
	assert.Equal(t, storePath, layout.Root())
	assert.Equal(t, 3, layout.Depth())

	d, err := a.Deriver.DeriveStoreDigest(context.Background(), types.Seeded("1"))
	require.NoError(t, err)
	assert.Equal(t, types.Digest("xajasisp7xdgy1fvxhm3rbia7wxazaf9"), d)
}

func TestNewApp_NegativeDepth(t *testing.T) {
	viper.Reset()
	viper.Set("storage.path", t.TempDir())
	viper.Set("shard.depth", -2)

	a, err := NewApp()
	assert.Error(t, err)
	assert.Nil(t, a)
}

func TestNewApp_MissingStoragePath(t *testing.T) {
	viper.Reset()

	a, err := NewApp()
	assert.Error(t, err)
	assert.Nil(t, a)
	assert.Contains(t, err.Error(), "storage path not set")
}

// NewApp 不创建目录，也不连接 Redis
func TestNewApp_NoSideEffects(t *testing.T) {
	viper.Reset()
	storePath := filepath.Join(t.TempDir(), "objects")
	viper.Set("storage.path", storePath)
	// 没有人监听的端口，连接一定失败
	viper.Set("cache.redis_url", "redis://127.0.0.1:1/0")

	a, err := NewApp()
	require.NoError(t, err, "Redis 不可用时 NewApp 也必须成功")
	defer a.Close()

	_, err = os.Stat(storePath)
	assert.True(t, os.IsNotExist(err), "NewApp 不应该创建 storage.path")

	// 纯计算不受 Redis 影响
	d, err := a.Deriver.DeriveContentDigest(types.Seeded("1"))
	require.NoError(t, err)
	assert.True(t, d.IsValid(types.KindContent))

	// store digest 需要缓存，失败时是哈希服务错误
	_, err = a.Deriver.DeriveStoreDigest(context.Background(), types.Seeded("1"))
	assert.ErrorIs(t, err, hashsvc.ErrHashingService)

	// 第一次 Layout() 才创建目录
	_, err = a.Layout()
	require.NoError(t, err)
	info, err := os.Stat(storePath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLazyService_ClosedBeforeUse(t *testing.T) {
	connects := 0
	lazy := newLazyService(func() (*cache.CachedService, error) {
		connects++
		return nil, errors.New("unreachable")
	})

	require.NoError(t, lazy.Close())
	_, err := lazy.StoreDigest(context.Background(), []byte("1"))
	assert.ErrorIs(t, err, hashsvc.ErrHashingService)
	assert.ErrorIs(t, err, errCacheClosed)
	assert.Zero(t, connects, "关闭后不能再连接")
}

func TestLazyService_RemembersFailure(t *testing.T) {
	connects := 0
	lazy := newLazyService(func() (*cache.CachedService, error) {
		connects++
		return nil, errors.New("unreachable")
	})
	defer lazy.Close()

	for i := 0; i < 3; i++ {
		_, err := lazy.StoreDigest(context.Background(), []byte("1"))
		assert.ErrorIs(t, err, hashsvc.ErrHashingService)
	}
	assert.Equal(t, 1, connects)
}
