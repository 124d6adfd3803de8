package disk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"storeshard/pkg/shard"
)

// Layout 把 digest 映射到 root 下的多级分片目录
// 策略：前 depth 段每段 2 个字符作为目录，剩余部分作为对象名
// Example (depth=2): "aabbcc..." -> root/aa/bb/cc...
//
// Layout 只负责目录结构，不读写对象内容
type Layout struct {
	rootPath string
	depth    int
}

// NewLayout 创建 Layout 并确保根目录存在
func NewLayout(root string, depth int) (*Layout, error) {
	if depth < 0 {
		return nil, fmt.Errorf("%w: layout depth must be non-negative, got %d", shard.ErrInvalidArgument, depth)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage dir: %w", err)
	}
	return &Layout{rootPath: root, depth: depth}, nil
}

func (l *Layout) Root() string { return l.rootPath }
func (l *Layout) Depth() int   { return l.depth }

// checkName 拒绝会逃出 root 的 digest
func checkName(digest string) error {
	if digest == "" {
		return fmt.Errorf("%w: empty digest", shard.ErrInvalidArgument)
	}
	if strings.ContainsAny(digest, `/\`) || strings.Contains(digest, "..") {
		return fmt.Errorf("%w: digest %q is not a safe file name", shard.ErrInvalidArgument, digest)
	}
	return nil
}

// Path 返回 digest 对应的物理路径
func (l *Layout) Path(digest string) (string, error) {
	if err := checkName(digest); err != nil {
		return "", err
	}
	// 剩余段不能为空，否则对象路径会和更长 digest 的分片目录重合
	// 例如 depth=1 时 "ab" -> root/ab，而 "abcd" -> root/ab/cd
	if utf8.RuneCountInString(digest) <= shard.DigestPrefixLen(l.depth) {
		return "", fmt.Errorf("%w: digest %q too short for shard depth %d", shard.ErrInvalidArgument, digest, l.depth)
	}
	segments, err := shard.Shard(digest, l.depth)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.rootPath, segments.Path()), nil
}

// Ensure 创建 digest 所需的分片目录，返回对象路径
// 幂等：目录已存在时直接返回
func (l *Layout) Ensure(ctx context.Context, digest string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target, err := l.Path(digest)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("failed to create shard dirs: %w", err)
	}
	return target, nil
}

// Has 检查 digest 对应的对象路径是否存在
func (l *Layout) Has(ctx context.Context, digest string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	target, err := l.Path(digest)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(target)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
