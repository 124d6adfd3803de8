package deriver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"storeshard/pkg/hashsvc"
	"storeshard/pkg/types"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTimeout 限制一次外部哈希调用的最长时间
	DefaultTimeout = 10 * time.Second
	// DefaultConcurrency 是 DeriveMany 的默认并发数
	DefaultConcurrency = 8
)

type Options struct {
	Timeout     time.Duration // <= 0 表示 DefaultTimeout
	Concurrency int           // <= 0 表示 DefaultConcurrency
}

// Deriver 把种子转换为 Digest
// 没有内部可变状态，可以并发使用
type Deriver struct {
	svc         hashsvc.Service
	timeout     time.Duration
	concurrency int
}

func New(svc hashsvc.Service, opts Options) *Deriver {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Deriver{
		svc:         svc,
		timeout:     opts.Timeout,
		concurrency: opts.Concurrency,
	}
}

// RandomToken 生成一个 128 bit 的随机 token (UUIDv4，32 位小写 hex，无分隔符)
func RandomToken() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(u[:]), nil
}

// resolve 把 Random 替换成新的随机 token
func resolve(seed types.Seed) ([]byte, error) {
	if v, ok := seed.Value(); ok {
		return []byte(v), nil
	}
	token, err := RandomToken()
	if err != nil {
		return nil, err
	}
	return []byte(token), nil
}

// DeriveStoreDigest 通过哈希服务计算截断的 base32 digest (store path 风格)
// 服务失败、超时或输出不合法时返回 hashsvc.ErrHashingService，不重试
func (d *Deriver) DeriveStoreDigest(ctx context.Context, seed types.Seed) (types.Digest, error) {
	data, err := resolve(seed)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	digest, err := d.svc.StoreDigest(ctx, data)
	if err != nil {
		// 超时、取消等错误也统一归为 ErrHashingService
		if !errors.Is(err, hashsvc.ErrHashingService) {
			err = fmt.Errorf("%w: %w", hashsvc.ErrHashingService, err)
		}
		return "", fmt.Errorf("derive store digest: %w", err)
	}
	// 对所有实现统一做一次校验，包括测试里的 fake
	if !digest.IsValid(types.KindStore) {
		return "", fmt.Errorf("derive store digest: %w: malformed digest %q", hashsvc.ErrHashingService, digest)
	}
	return digest, nil
}

// DeriveContentDigest 计算完整 sha256，输出 64 位小写 hex
func (d *Deriver) DeriveContentDigest(seed types.Seed) (types.Digest, error) {
	data, err := resolve(seed)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return types.Digest(hex.EncodeToString(sum[:])), nil
}

// Derive 按 kind 分发
func (d *Deriver) Derive(ctx context.Context, kind types.DigestKind, seed types.Seed) (types.Digest, error) {
	switch kind {
	case types.KindStore:
		return d.DeriveStoreDigest(ctx, seed)
	case types.KindContent:
		return d.DeriveContentDigest(seed)
	default:
		return "", fmt.Errorf("unsupported digest kind: %d", kind)
	}
}

// DeriveMany 并发计算一批 digest，结果顺序与 seeds 一致
// 任何一个失败都会取消剩余的计算
func (d *Deriver) DeriveMany(ctx context.Context, kind types.DigestKind, seeds []types.Seed) ([]types.Digest, error) {
	out := make([]types.Digest, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for i, seed := range seeds {
		g.Go(func() error {
			digest, err := d.Derive(ctx, kind, seed)
			if err != nil {
				return fmt.Errorf("seed #%d: %w", i, err)
			}
			out[i] = digest
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
