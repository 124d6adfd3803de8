package shard

import (
	"strings"
	"testing"
	"unicode/utf8"

	"storeshard/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShard_Examples(t *testing.T) {
	tests := []struct {
		name   string
		digest string
		depth  int
		want   types.ShardPath
	}{
		{
			name:   "Depth 3",
			digest: "aabbccddee112233445566",
			depth:  3,
			want:   types.ShardPath{"aa", "bb", "cc", "ddee112233445566"},
		},
		{
			name:   "Degenerate short input",
			digest: "ab",
			depth:  5,
			want:   types.ShardPath{"ab", "", "", "", "", ""},
		},
		{
			name:   "Odd length cuts a short segment",
			digest: "abc",
			depth:  2,
			want:   types.ShardPath{"ab", "c", ""},
		},
		{
			name:   "Depth 0 keeps the whole digest",
			digest: "abcdef",
			depth:  0,
			want:   types.ShardPath{"abcdef"},
		},
		{
			name:   "Empty digest",
			digest: "",
			depth:  2,
			want:   types.ShardPath{"", "", ""},
		},
		{
			name:   "Multibyte characters stay whole",
			digest: "héllo",
			depth:  2,
			want:   types.ShardPath{"hé", "ll", "o"},
		},
		{
			name:   "Non-BMP characters",
			digest: "日本語😀ab",
			depth:  2,
			want:   types.ShardPath{"日本", "語😀", "ab"},
		},
		{
			name:   "Exact fit leaves empty remainder",
			digest: "aabb",
			depth:  2,
			want:   types.ShardPath{"aa", "bb", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Shard(tt.digest, tt.depth)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShard_RoundTripAndCount(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"ab",
		"abc",
		"xajasisp7xdgy1fvxhm3rbia7wxazaf9",
		"6b86b273ff34fce19d6b804eff5a3f5747ada4eaa22f1d49c01e52ddb7875b4b",
		strings.Repeat("z", 101),
		"héllo",
		"日本語😀ab",
		"a\xffb\xc3", // 非法 UTF-8 也必须原样还原
	}

	for _, s := range inputs {
		for depth := 0; depth <= 60; depth++ {
			got, err := Shard(s, depth)
			require.NoError(t, err)
			assert.Len(t, got, depth+1, "shard(%q, %d) 必须返回 depth+1 段", s, depth)
			assert.Equal(t, s, got.Join(), "shard(%q, %d) 拼接后必须还原", s, depth)
			for i, seg := range got.Dirs() {
				assert.LessOrEqual(t, utf8.RuneCountInString(seg), 2, "segment %d of %q too wide", i, s)
				if utf8.ValidString(s) {
					assert.True(t, utf8.ValidString(seg), "segment %d of %q splits a character", i, s)
				}
			}
		}
	}
}

func TestShard_NegativeDepth(t *testing.T) {
	got, err := Shard("abc", -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Nil(t, got)
}

func TestDefault(t *testing.T) {
	got := Default("6b86b273ff34fce19d6b804eff5a3f5747ada4eaa22f1d49c01e52ddb7875b4b")
	assert.Equal(t, types.ShardPath{"6b", "86", "b2", "73", "ff", "34fce19d6b804eff5a3f5747ada4eaa22f1d49c01e52ddb7875b4b"}, got)
	assert.Equal(t, DefaultDepth, got.Depth())
}
