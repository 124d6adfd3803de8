package commands

import (
	"fmt"

	"storeshard/pkg/scratch"
	"storeshard/pkg/shard"
	"storeshard/pkg/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var smokeKeep bool

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Create a scratch repo, derive the store digest of \"1\" and print its shards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// 1. 临时仓库
		repo, err := scratch.CreateScratchRepository(ctx)
		if err != nil {
			return err
		}
		if smokeKeep {
			SS.Logger.Info("keeping scratch repository", zap.String("path", repo.Path))
		} else {
			defer repo.Close()
		}

		// 2. store digest + 分片
		digest, err := SS.Deriver.DeriveStoreDigest(ctx, types.Seeded("1"))
		if err != nil {
			return err
		}
		segments, err := shard.Shard(digest.String(), SS.Depth)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %q\n", digest, []string(segments))
		return nil
	},
}

func init() {
	smokeCmd.Flags().BoolVar(&smokeKeep, "keep", false, "Keep the scratch repository instead of deleting it")
	rootCmd.AddCommand(smokeCmd)
}
