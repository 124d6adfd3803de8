package commands

import (
	"fmt"

	"storeshard/pkg/scratch"

	"github.com/spf13/cobra"
)

var repoBaseDir string

var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Create an empty bare git repository that serves partial clones",
	Long:  `Create a bare git repository in a fresh temporary directory with uploadpack.allowFilter and uploadpack.allowAnySHA1InWant enabled, and print its path.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := scratch.Provisioner{BaseDir: repoBaseDir}
		repo, err := p.Create(cmd.Context())
		if err != nil {
			return fmt.Errorf("create repo failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), repo.Path)
		return nil
	},
}

func init() {
	repoCmd.Flags().StringVar(&repoBaseDir, "base-dir", "", "Parent directory for the repository (default is the system temp dir)")
	rootCmd.AddCommand(repoCmd)
}
