package cmd

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"orboracle/pkg/pda"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "derive program addresses",
}

var addressOracleCmd = &cobra.Command{
	Use:   "oracle <authority> <weight-asset>",
	Short: "derive the oracle address of an authority and weight asset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := parseKeys(args...)
		if err != nil {
			return err
		}

		address, bump, err := pda.OracleAddress(provideProgramID(), keys[0], keys[1])
		if err != nil {
			return err
		}

		cmd.Println(address, "bump", bump)
		return nil
	},
}

var addressPositionCmd = &cobra.Command{
	Use:   "position <oracle> <owner>",
	Short: "derive the position address of an owner",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := parseKeys(args...)
		if err != nil {
			return err
		}

		address, bump, err := pda.PositionAddress(provideProgramID(), keys[0], keys[1])
		if err != nil {
			return err
		}

		cmd.Println(address, "bump", bump)
		return nil
	},
}

func parseKeys(values ...string) ([]solana.PublicKey, error) {
	keys := make([]solana.PublicKey, len(values))
	for i, v := range values {
		k, err := solana.PublicKeyFromBase58(v)
		if err != nil {
			return nil, err
		}

		keys[i] = k
	}

	return keys, nil
}

func init() {
	rootCmd.AddCommand(addressCmd)
	addressCmd.AddCommand(addressOracleCmd, addressPositionCmd)
}
