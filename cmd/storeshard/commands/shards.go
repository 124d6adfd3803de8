package commands

import (
	"fmt"

	"storeshard/pkg/shard"

	"github.com/spf13/cobra"
)

var shardsCmd = &cobra.Command{
	Use:   "shards [digest]",
	Short: "Split a digest into shard segments",
	Long:  `Print the shard segments of any string: --depth 2-character prefixes followed by the remainder.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		segments, err := shard.Shard(args[0], SS.Depth)
		if err != nil {
			return err
		}
		// %q 让空分段也可见
		fmt.Fprintf(cmd.OutOrStdout(), "%q\n", []string(segments))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shardsCmd)
}
