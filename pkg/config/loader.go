package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix = "STORESHARD"
	dirName   = ".storeshard"
)

// Load 初始化 Viper 配置
// cfgFile: 可选，用户显式指定的配置文件路径
func Load(cfgFile string) error {
	// 1. 设置默认值 (Defaults)
	setDefaults()

	// 2. 配置搜索路径
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// 搜索顺序：当前目录 -> ./.storeshard -> ~/.storeshard
		viper.AddConfigPath(".")
		viper.AddConfigPath(dirName)
		viper.AddConfigPath(filepath.Join(home, dirName))

		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// 3. 读取环境变量 (STORESHARD_HASH_BACKEND 等)
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 4. 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		// 没找到配置文件不算错，还有默认值和环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("fatal error config file: %w", err)
		}
	}

	return nil
}

func setDefaults() {
	// 存储默认值
	wd, _ := os.Getwd()
	viper.SetDefault("storage.path", filepath.Join(wd, dirName, "objects"))
	viper.SetDefault("shard.depth", 5)

	// 哈希服务: native (进程内) 或 nix (外部 nix-hash)
	viper.SetDefault("hash.backend", "native")
	viper.SetDefault("hash.binary", "nix-hash")
	viper.SetDefault("hash.timeout", 10*time.Second)

	// Redis 缓存，url 为空表示关闭
	viper.SetDefault("cache.redis_url", "")
	viper.SetDefault("cache.ttl", 24*time.Hour)

	viper.SetDefault("derive.concurrency", 8)
	viper.SetDefault("log.debug", false)
}
