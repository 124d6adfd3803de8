package hashsvc

import (
	"context"
	"crypto/sha256"

	"storeshard/pkg/types"
)

// truncatedSize 是 nix --truncate 折叠后的字节数 (160 bit)
const truncatedSize = 20

// Native 在进程内实现 nix-hash --type sha256 --truncate --base32 --flat
// 不需要安装 nix，结果与外部命令一致
type Native struct{}

func NewNative() Native { return Native{} }

func (Native) StoreDigest(ctx context.Context, data []byte) (types.Digest, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return types.Digest(encodeNixBase32(compressHash(sum[:], truncatedSize))), nil
}

// compressHash 把 hash 异或折叠到 size 字节
// hash[i] 落到 out[i % size]
func compressHash(hash []byte, size int) []byte {
	out := make([]byte, size)
	for i, b := range hash {
		out[i%size] ^= b
	}
	return out
}

// encodeNixBase32 是 nix 的 base32 变体:
// 从最高位的 5-bit 组开始输出，没有 padding
func encodeNixBase32(hash []byte) string {
	n := (len(hash)*8-1)/5 + 1
	out := make([]byte, 0, n)

	for k := n - 1; k >= 0; k-- {
		b := k * 5
		i := b / 8
		j := uint(b % 8)
		c := hash[i] >> j
		if i+1 < len(hash) {
			c |= hash[i+1] << (8 - j)
		}
		out = append(out, types.NixBase32Alphabet[c&0x1f])
	}
	return string(out)
}
