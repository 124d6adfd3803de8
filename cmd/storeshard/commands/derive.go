package commands

import (
	"fmt"

	"storeshard/pkg/types"

	"github.com/spf13/cobra"
)

var (
	deriveSeed  string
	deriveCount int
)

var deriveCmd = &cobra.Command{
	Use:       "derive [store|content]",
	Short:     "Derive a digest from a seed (random if no seed is given)",
	Long:      `Derive a truncated base32 store digest or a full sha256 content digest. Without --seed a fresh random token is used.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"store", "content"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}

		seeded := cmd.Flags().Changed("seed")
		if deriveCount < 1 {
			return fmt.Errorf("--count must be at least 1")
		}
		if seeded && deriveCount > 1 {
			return fmt.Errorf("--count only applies to random seeds")
		}

		seeds := make([]types.Seed, deriveCount)
		for i := range seeds {
			if seeded {
				seeds[i] = types.Seeded(deriveSeed)
			} else {
				seeds[i] = types.Random()
			}
		}

		digests, err := SS.Deriver.DeriveMany(cmd.Context(), kind, seeds)
		if err != nil {
			return fmt.Errorf("derive failed: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, d := range digests {
			fmt.Fprintln(out, d)
		}
		return nil
	},
}

func parseKind(s string) (types.DigestKind, error) {
	switch s {
	case "store":
		return types.KindStore, nil
	case "content":
		return types.KindContent, nil
	default:
		return 0, fmt.Errorf("unknown digest kind %q (want store or content)", s)
	}
}

func init() {
	deriveCmd.Flags().StringVarP(&deriveSeed, "seed", "s", "", "Seed string (random if omitted)")
	deriveCmd.Flags().IntVarP(&deriveCount, "count", "n", 1, "Number of random digests to derive")
	rootCmd.AddCommand(deriveCmd)
}
