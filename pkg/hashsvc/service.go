package hashsvc

import (
	"context"
	"errors"
	"fmt"

	"storeshard/pkg/types"
)

// ErrHashingService 表示外部哈希服务不可用或者输出不合法
// 所有实现返回的错误都必须 wrap 它，调用方用 errors.Is 判断
var ErrHashingService = errors.New("hashing service error")

// Service 是哈希服务的边界
// StoreDigest 的语义固定为: sha256 + truncate + base32 + flat (单文件模式)
// 实现可以是外部进程 (nix-hash)，也可以是进程内计算
type Service interface {
	StoreDigest(ctx context.Context, data []byte) (types.Digest, error)
}

// CheckStoreDigest 校验服务输出: 非空、长度 32、nix base32 字母表
func CheckStoreDigest(out string) (types.Digest, error) {
	if out == "" {
		return "", fmt.Errorf("%w: empty output", ErrHashingService)
	}
	d := types.Digest(out)
	if !d.IsValid(types.KindStore) {
		return "", fmt.Errorf("%w: malformed digest %q", ErrHashingService, out)
	}
	return d, nil
}
