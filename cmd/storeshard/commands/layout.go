package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [digest...]",
	Short: "Create the shard directories for one or more digests",
	Long:  `Create the nested shard directories under storage.path and print the object path of each digest. No object content is written.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		layout, err := SS.Layout()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, digest := range args {
			target, err := layout.Ensure(cmd.Context(), digest)
			if err != nil {
				return fmt.Errorf("layout %s: %w", digest, err)
			}
			fmt.Fprintln(out, target)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
}
