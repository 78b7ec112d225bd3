package cmd

import (
	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
	"orboracle/core"
	"orboracle/pkg/number"
)

var creditCmd = &cobra.Command{
	Use:   "credit <owner> <amount>",
	Short: "credit an owner in the vault ledger",
	Long:  "credit mints ledger balance for local networks; it does not go through the instruction queue.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		keys, err := parseKeys(args[0])
		if err != nil {
			return err
		}

		amount, err := number.Amount(args[1])
		if err != nil {
			return err
		}

		asset := core.NativeAsset
		if s, _ := cmd.Flags().GetString("asset"); s != "" {
			assets, err := parseKeys(s)
			if err != nil {
				return err
			}

			asset = assets[0]
		}

		database := provideDatabase()
		defer database.Close()

		vault := provideVault(database)
		if err := database.Tx(func(tx *db.DB) error {
			return vault.Credit(ctx, tx, keys[0], asset, amount)
		}); err != nil {
			return err
		}

		balance, err := vault.Balance(ctx, keys[0], asset)
		if err != nil {
			return err
		}

		cmd.Println(keys[0], asset, "balance", balance)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(creditCmd)
	creditCmd.Flags().String("asset", "", "asset mint, lamports when empty")
}
