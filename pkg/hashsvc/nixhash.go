package hashsvc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"storeshard/pkg/types"

	"go.uber.org/zap"
)

const DefaultBinary = "nix-hash"

// NixHashConfig 用于初始化 NixHash
type NixHashConfig struct {
	Binary  string // 默认 nix-hash，从 PATH 查找
	TempDir string // 种子临时文件的位置，空表示 os.TempDir()
	Logger  *zap.Logger
}

// NixHash 通过外部进程计算 store digest
type NixHash struct {
	binary  string
	tempDir string
	logger  *zap.Logger
}

func NewNixHash(cfg NixHashConfig) *NixHash {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &NixHash{
		binary:  cfg.Binary,
		tempDir: cfg.TempDir,
		logger:  cfg.Logger,
	}
}

func (n *NixHash) StoreDigest(ctx context.Context, data []byte) (types.Digest, error) {
	// 1. nix-hash --flat 只接受文件，先把种子写进临时文件
	f, err := os.CreateTemp(n.tempDir, "storeshard-seed-*")
	if err != nil {
		return "", fmt.Errorf("%w: create seed file: %w", ErrHashingService, err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: write seed file: %w", ErrHashingService, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: close seed file: %w", ErrHashingService, err)
	}

	// 2. 执行外部命令
	args := []string{"--type", "sha256", "--truncate", "--base32", "--flat", f.Name()}
	cmd := exec.CommandContext(ctx, n.binary, args...)
	// 进程被杀掉后，如果孙进程还占着 stdout，最多再等 1 秒
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	n.logger.Debug("running hashing service", zap.String("binary", n.binary), zap.Strings("args", args))

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			n.logger.Warn("hashing service interrupted", zap.Error(ctxErr))
			return "", fmt.Errorf("%w: %s: %w", ErrHashingService, n.binary, ctxErr)
		}
		n.logger.Warn("hashing service failed",
			zap.Error(err),
			zap.String("stderr", strings.TrimSpace(stderr.String())),
		)
		return "", fmt.Errorf("%w: %s: %w (stderr: %s)", ErrHashingService, n.binary, err, strings.TrimSpace(stderr.String()))
	}

	// 3. 校验输出
	return CheckStoreDigest(strings.TrimSpace(stdout.String()))
}
