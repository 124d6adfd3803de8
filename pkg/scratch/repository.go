// Package scratch 创建一次性的 bare git 仓库，预先配置好 partial clone 支持
package scratch

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
)

const (
	uploadPackSection  = "uploadpack"
	optAllowFilter     = "allowFilter"
	optAllowAnySHA1    = "allowAnySHA1InWant"
	scratchDirPattern  = "storeshard-repo-*"
	optionEnabledValue = "true"
)

// Repository 是新建仓库的句柄
type Repository struct {
	Path string
	Repo *git.Repository
}

// Close 删除仓库所在的临时目录
func (r *Repository) Close() error {
	return os.RemoveAll(r.Path)
}

// Provisioner 决定临时仓库分配在哪里
type Provisioner struct {
	BaseDir string // 空表示 os.TempDir()
}

// CreateScratchRepository 使用默认 Provisioner
func CreateScratchRepository(ctx context.Context) (*Repository, error) {
	return Provisioner{}.Create(ctx)
}

// Create 在新的临时目录里初始化 bare 仓库，并打开:
//   - uploadpack.allowFilter        (允许 --filter 的 partial clone)
//   - uploadpack.allowAnySHA1InWant (允许按任意对象 id fetch)
//
// 配置写盘之后才返回句柄
func (p Provisioner) Create(ctx context.Context) (*Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. 分配临时目录
	dir, err := os.MkdirTemp(p.BaseDir, scratchDirPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate repo dir: %w", err)
	}

	// 2. git init --bare
	repo, err := git.PlainInit(dir, true)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to init bare repo: %w", err)
	}

	// 3. 打开 partial clone 支持
	if err := enablePartialClone(repo); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	return &Repository{Path: dir, Repo: repo}, nil
}

func enablePartialClone(repo *git.Repository) error {
	cfg, err := repo.Config()
	if err != nil {
		return fmt.Errorf("failed to read repo config: %w", err)
	}

	cfg.Raw.Section(uploadPackSection).
		SetOption(optAllowFilter, optionEnabledValue).
		SetOption(optAllowAnySHA1, optionEnabledValue)

	if err := repo.Storer.SetConfig(cfg); err != nil {
		return fmt.Errorf("failed to write repo config: %w", err)
	}
	return nil
}

// AllowsPartialClone 检查两个 uploadpack 选项是否都已打开
func (r *Repository) AllowsPartialClone() (bool, error) {
	cfg, err := r.Repo.Config()
	if err != nil {
		return false, fmt.Errorf("failed to read repo config: %w", err)
	}
	section := cfg.Raw.Section(uploadPackSection)
	return section.Option(optAllowFilter) == optionEnabledValue &&
		section.Option(optAllowAnySHA1) == optionEnabledValue, nil
}
