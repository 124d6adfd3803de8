package types

import (
	"path/filepath"
	"strings"
)

// ShardPath 是 digest 切分后的目录分段
// 前 depth 段是 2 字符前缀，最后一段是剩余部分
type ShardPath []string

// Join 把所有分段拼回原始 digest
func (p ShardPath) Join() string { return strings.Join(p, "") }

// Depth 返回前缀段的数量 (不含最后的剩余段)
func (p ShardPath) Depth() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Dirs 返回前缀段 (目录部分)
func (p ShardPath) Dirs() []string {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Remainder 返回最后一段
func (p ShardPath) Remainder() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Path 渲染为相对文件路径，例如 aa/bb/cc/ddee...
// 空分段会被 filepath.Join 忽略
func (p ShardPath) Path() string { return filepath.Join(p...) }
