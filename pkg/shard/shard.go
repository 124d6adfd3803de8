package shard

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"storeshard/pkg/types"
)

// DefaultDepth 是默认的前缀层数: 5 层 x 2 字符
const DefaultDepth = 5

// segmentWidth 是每个前缀段的字符数 (按 code point 计，不是字节)
const segmentWidth = 2

var ErrInvalidArgument = errors.New("invalid argument")

// Shard 把 digest 切成 depth 个 2 字符前缀段 + 1 个剩余段
// Example: Shard("aabbccddee112233445566", 3) -> [aa bb cc ddee112233445566]
//
// digest 比 2*depth 短时不是错误: 后面的分段为空或不足 2 字符，
// 但拼接结果永远等于原始 digest。
// 按字符切分，多字节字符不会被拆开；非法 UTF-8 字节各算一个字符，原样保留。
func Shard(digest string, depth int) (types.ShardPath, error) {
	if depth < 0 {
		return nil, fmt.Errorf("%w: shard depth must be non-negative, got %d", ErrInvalidArgument, depth)
	}

	segments := make(types.ShardPath, 0, depth+1)
	rest := digest
	for i := 0; i < depth; i++ {
		n := prefixLen(rest, segmentWidth)
		segments = append(segments, rest[:n])
		rest = rest[n:]
	}
	segments = append(segments, rest)

	return segments, nil
}

// DigestPrefixLen 返回 depth 层前缀段一共占用的字符数
func DigestPrefixLen(depth int) int { return segmentWidth * depth }

// Default 使用 DefaultDepth 切分
func Default(digest string) types.ShardPath {
	p, _ := Shard(digest, DefaultDepth) // DefaultDepth 非负，不会出错
	return p
}

// prefixLen 返回 s 前 k 个字符占用的字节数，不足 k 个字符时返回 len(s)
func prefixLen(s string, k int) int {
	n := 0
	for i := 0; i < k && n < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[n:])
		n += size
	}
	return n
}
