// pkg/types/common.go
package types

import "strings"

const (
	// StoreDigestLen 是截断 (160 bit) 后 nix base32 编码的长度
	StoreDigestLen = 32
	// ContentDigestLen 是完整 SHA-256 的 Hex 长度
	ContentDigestLen = 64
)

// NixBase32Alphabet 是 nix 使用的 base32 字母表 (去掉了 e, o, t, u)
const NixBase32Alphabet = "0123456789abcdfghijklmnpqrsvwxyz"

const hexAlphabet = "0123456789abcdef"

// DigestKind 区分两种编码方式
type DigestKind int

const (
	// KindStore: store path 风格，截断 + base32
	KindStore DigestKind = iota
	// KindContent: 内容哈希风格，完整 sha256 hex
	KindContent
)

func (k DigestKind) String() string {
	switch k {
	case KindStore:
		return "store"
	case KindContent:
		return "content"
	default:
		return "unknown"
	}
}

// Digest 是一个不可变的标识符 (值对象)
type Digest string

func (d Digest) String() string { return string(d) }
func (d Digest) IsZero() bool   { return d == "" }

// IsValid 检查长度和字母表
func (d Digest) IsValid(kind DigestKind) bool {
	switch kind {
	case KindStore:
		return len(d) == StoreDigestLen && onlyIn(string(d), NixBase32Alphabet)
	case KindContent:
		return len(d) == ContentDigestLen && onlyIn(string(d), hexAlphabet)
	default:
		return false
	}
}

func onlyIn(s, alphabet string) bool {
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(alphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}

// Seed 是一个二选一的变体: Seeded(s) | Random
// 零值等价于 Random()
type Seed struct {
	value  string
	seeded bool
}

// Seeded 使用调用方给定的种子
func Seeded(s string) Seed { return Seed{value: s, seeded: true} }

// Random 表示由 deriver 生成一个新的随机 token
func Random() Seed { return Seed{} }

// Value 返回种子内容；第二个返回值为 false 表示 Random
func (s Seed) Value() (string, bool) { return s.value, s.seeded }

func (s Seed) IsRandom() bool { return !s.seeded }

func (s Seed) String() string {
	if !s.seeded {
		return "<random>"
	}
	return s.value
}
