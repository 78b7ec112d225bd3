package cmd

import (
	"path"

	"github.com/gagliardetto/solana-go"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"orboracle/core"
	"orboracle/pkg/id"
	"orboracle/pkg/layout"
	"orboracle/pkg/number"
	"orboracle/pkg/pda"
)

// signer loads the keypair given by --keypair, defaulting to the solana cli key.
func signer(cmd *cobra.Command) (solana.PrivateKey, error) {
	file, _ := cmd.Flags().GetString("keypair")
	if file == "" {
		dir, err := homedir.Dir()
		if err != nil {
			return nil, err
		}

		file = path.Join(dir, ".config", "solana", "id.json")
	}

	return solana.PrivateKeyFromSolanaKeygenFile(file)
}

// enqueue signs args and queues them for the processor.
func enqueue(cmd *cobra.Command, key solana.PrivateKey, accounts core.InstructionAccounts, args core.InstructionArgs) error {
	program := provideProgramID()

	traceID, _ := cmd.Flags().GetString("trace")
	if traceID == "" {
		traceID = id.GenTraceID()
	}

	ins, err := layout.SignInstruction(program, key, accounts, args, traceID)
	if err != nil {
		return err
	}

	database := provideDatabase()
	defer database.Close()

	if err := provideInstructionStore(database).Create(cmd.Context(), ins); err != nil {
		return err
	}

	cmd.Println("queued", ins.Kind, ins.TraceID)
	return nil
}

// positionAccounts are the accounts of instructions acting on the signer's position.
func positionAccounts(key solana.PrivateKey, oracle solana.PublicKey) (core.InstructionAccounts, error) {
	position, _, err := pda.PositionAddress(provideProgramID(), oracle, key.PublicKey())
	if err != nil {
		return core.InstructionAccounts{}, err
	}

	return core.InstructionAccounts{
		Signer:   key.PublicKey(),
		Oracle:   oracle,
		Position: position,
	}, nil
}

var initializeCmd = &cobra.Command{
	Use:   "initialize <weight-asset>",
	Short: "create an oracle owned by the signer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := signer(cmd)
		if err != nil {
			return err
		}

		assets, err := parseKeys(args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		var params core.InitializeParams
		params.Name, _ = flags.GetString("name")
		params.Description, _ = flags.GetString("description")
		params.RewardBps, _ = flags.GetUint64("reward-bps")
		params.HalfLifeSeconds, _ = flags.GetUint64("half-life")
		params.Quorum, _ = flags.GetUint64("quorum")
		params.DepositLockSeconds, _ = flags.GetUint64("deposit-lock")
		params.WithdrawLockSeconds, _ = flags.GetUint64("withdraw-lock")
		params.Alpha, _ = flags.GetUint64("alpha")

		oracle, _, err := pda.OracleAddress(provideProgramID(), key.PublicKey(), assets[0])
		if err != nil {
			return err
		}

		cmd.Println("oracle", oracle)
		return enqueue(cmd, key, core.InstructionAccounts{
			Signer:      key.PublicKey(),
			Oracle:      oracle,
			WeightAsset: assets[0],
		}, core.InstructionArgs{Kind: core.InsInitialize, Params: params})
	},
}

func amountCommand(use, short string, kind core.InstructionKind, withPosition bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <oracle> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := signer(cmd)
			if err != nil {
				return err
			}

			oracles, err := parseKeys(args[0])
			if err != nil {
				return err
			}

			amount, err := number.Amount(args[1])
			if err != nil {
				return err
			}

			accounts := core.InstructionAccounts{Signer: key.PublicKey(), Oracle: oracles[0]}
			if withPosition {
				if accounts, err = positionAccounts(key, oracles[0]); err != nil {
					return err
				}
			}

			return enqueue(cmd, key, accounts, core.InstructionArgs{Kind: kind, Amount: amount})
		},
	}
}

var (
	fundCmd     = amountCommand("fund", "add lamports to an oracle reward pool", core.InsFund, false)
	depositCmd  = amountCommand("deposit", "stake weight tokens", core.InsDepositTokens, true)
	withdrawCmd = amountCommand("withdraw", "withdraw unlocked weight tokens", core.InsWithdrawTokens, true)
)

var submitCmd = &cobra.Command{
	Use:   "submit <oracle> <value>",
	Short: "submit a value, e.g. 150.25",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := signer(cmd)
		if err != nil {
			return err
		}

		oracles, err := parseKeys(args[0])
		if err != nil {
			return err
		}

		decimals, _ := cmd.Flags().GetInt32("decimals")
		value, err := number.ParseValue(args[1], decimals)
		if err != nil {
			return err
		}

		accounts, err := positionAccounts(key, oracles[0])
		if err != nil {
			return err
		}

		return enqueue(cmd, key, accounts, core.InstructionArgs{Kind: core.InsSubmitValue, Value: value})
	},
}

var voteCmd = &cobra.Command{
	Use:   "vote",
	Short: "vote on the blacklist status of a submitter",
}

func voteCommand(kind core.VoteKind, ins core.InstructionKind) *cobra.Command {
	return &cobra.Command{
		Use:   kind.String() + " <oracle> <target>",
		Short: "cast a " + kind.String() + " vote with the signer's weight",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := signer(cmd)
			if err != nil {
				return err
			}

			keys, err := parseKeys(args...)
			if err != nil {
				return err
			}

			accounts, err := positionAccounts(key, keys[0])
			if err != nil {
				return err
			}

			return enqueue(cmd, key, accounts, core.InstructionArgs{Kind: ins, Target: keys[1]})
		},
	}
}

var updateWeightsCmd = &cobra.Command{
	Use:   "update-weights <oracle>",
	Short: "re-weight the signer's votes to the current stake",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := signer(cmd)
		if err != nil {
			return err
		}

		oracles, err := parseKeys(args[0])
		if err != nil {
			return err
		}

		accounts, err := positionAccounts(key, oracles[0])
		if err != nil {
			return err
		}

		return enqueue(cmd, key, accounts, core.InstructionArgs{Kind: core.InsUpdateUserVoteWeights})
	},
}

func init() {
	commands := []*cobra.Command{
		initializeCmd,
		fundCmd,
		depositCmd,
		withdrawCmd,
		submitCmd,
		voteCmd,
		updateWeightsCmd,
	}

	voteCmd.AddCommand(
		voteCommand(core.VoteBlacklist, core.InsVoteBlacklist),
		voteCommand(core.VoteWhitelist, core.InsVoteWhitelist),
	)

	for _, c := range commands {
		c.PersistentFlags().String("keypair", "", "signer keypair file. default is ~/.config/solana/id.json")
		c.PersistentFlags().String("trace", "", "trace id, random when empty")
		rootCmd.AddCommand(c)
	}

	flags := initializeCmd.Flags()
	flags.String("name", "", "oracle name")
	flags.String("description", "", "oracle description")
	flags.Uint64("reward-bps", 0, "reward rate out of 100000")
	flags.Uint64("half-life", 3600, "half life in seconds")
	flags.Uint64("quorum", 50000, "blacklist quorum out of 100000 of total stake")
	flags.Uint64("deposit-lock", 0, "deposit locking period in seconds")
	flags.Uint64("withdraw-lock", 0, "withdrawal locking period in seconds")
	flags.Uint64("alpha", 1, "reward activity exponent")

	submitCmd.Flags().Int32("decimals", number.ValueDecimals, "value decimals")
}
