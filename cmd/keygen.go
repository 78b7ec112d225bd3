package cmd

import (
	"encoding/json"
	"os"

	"github.com/fox-one/pkg/qrcode"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen <file>",
	Short: "generate a keypair file in solana-keygen format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := solana.NewRandomPrivateKey()
		if err != nil {
			return err
		}

		data, err := json.Marshal(toByteList(key))
		if err != nil {
			return err
		}

		if err := os.WriteFile(args[0], data, 0600); err != nil {
			return err
		}

		cmd.Println("public key:", key.PublicKey())
		qrcode.Fprint(cmd.OutOrStdout(), key.PublicKey().String())
		return nil
	},
}

// toByteList keeps json from encoding the key as base64.
func toByteList(key solana.PrivateKey) []int {
	out := make([]int, len(key))
	for i, b := range key {
		out[i] = int(b)
	}

	return out
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}
