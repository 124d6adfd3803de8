package commands

import (
	"fmt"
	"os"

	"storeshard/pkg/app"
	"storeshard/pkg/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// 全局应用实例，供子命令使用
	SS *app.App
)

var rootCmd = &cobra.Command{
	Use:           "storeshard",
	Short:         "storeshard: content-addressed identifiers and shard layouts",
	SilenceUsage:  true,
	SilenceErrors: true,
	// PersistentPreRunE 会在所有子命令执行前运行
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		SS, err = app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize storeshard: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if SS == nil {
			return nil
		}
		err := SS.Close()
		SS = nil
		return err
	},
}

// Execute 是入口
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.storeshard/config.yaml)")

	// 用户既可以在 yaml 里写，也可以用 flag 覆盖
	rootCmd.PersistentFlags().String("storage-path", "", "Root directory of the shard tree")
	rootCmd.PersistentFlags().Int("depth", 5, "Number of 2-character shard levels")
	rootCmd.PersistentFlags().String("hash-backend", "native", "Store digest backend: native or nix")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable development logging")

	for key, flag := range map[string]string{
		"storage.path": "storage-path",
		"shard.depth":  "depth",
		"hash.backend": "hash-backend",
		"log.debug":    "debug",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Println("Failed to bind flag:", err)
			os.Exit(1)
		}
	}
}

// initConfig 读取配置文件和环境变量
func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Println("Config error:", err)
		os.Exit(1)
	}
}
