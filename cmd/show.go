package cmd

import (
	"encoding/json"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"orboracle/core"
	"orboracle/pkg/number"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "inspect ledger accounts",
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	cmd.Println(string(data))
	return nil
}

func formatTime(ts int64) string {
	if ts == 0 {
		return "-"
	}

	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

type historyView struct {
	Time       string `json:"time"`
	Aggregated string `json:"aggregated"`
	Latest     string `json:"latest"`
}

type oracleView struct {
	Address          string                `json:"address"`
	Name             string                `json:"name"`
	Description      string                `json:"description,omitempty"`
	Authority        string                `json:"authority"`
	WeightAsset      string                `json:"weight_asset"`
	AggregatedValue  string                `json:"aggregated_value"`
	LatestValue      string                `json:"latest_value"`
	AggregatedWeight string                `json:"aggregated_weight"`
	LastSubmission   string                `json:"last_submission"`
	TotalStake       uint64                `json:"total_stake"`
	RewardPool       uint64                `json:"reward_pool"`
	Vault            uint64                `json:"vault"`
	Params           core.InitializeParams `json:"params"`
	History          []historyView         `json:"history,omitempty"`
	Targets          []core.TargetVotes    `json:"targets,omitempty"`
}

func renderOracle(v *core.OracleView, decimals int32, history bool) oracleView {
	o := v.Oracle
	view := oracleView{
		Address:          v.Address.String(),
		Name:             o.Name,
		Description:      o.Description,
		Authority:        o.Authority.String(),
		WeightAsset:      o.WeightAsset.String(),
		AggregatedValue:  number.FormatValue(o.AggregatedValue, decimals),
		LatestValue:      number.FormatValue(o.LatestValue, decimals),
		AggregatedWeight: o.AggregatedWeight.String(),
		LastSubmission:   formatTime(o.LastSubmissionTime),
		TotalStake:       o.TotalDepositedStake,
		RewardPool:       v.Pool,
		Vault:            v.Vault,
		Params: core.InitializeParams{
			RewardBps:           o.RewardBps,
			HalfLifeSeconds:     o.HalfLifeSeconds,
			Quorum:              o.Quorum,
			DepositLockSeconds:  o.DepositLockSeconds,
			WithdrawLockSeconds: o.WithdrawLockSeconds,
			Alpha:               o.Alpha,
		},
	}

	if history {
		for _, r := range o.History.Records() {
			view.History = append(view.History, historyView{
				Time:       formatTime(r.Timestamp),
				Aggregated: number.FormatValue(r.AggregatedValue, decimals),
				Latest:     number.FormatValue(r.LatestValue, decimals),
			})
		}

		view.Targets = o.Targets.List()
	}

	return view
}

var showOracleCmd = &cobra.Command{
	Use:   "oracle <address>",
	Short: "show an oracle with its history and governance targets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := parseKeys(args[0])
		if err != nil {
			return err
		}

		database := provideDatabase()
		defer database.Close()

		v, err := provideOracleService(database).FindOracle(cmd.Context(), keys[0])
		if err != nil {
			return err
		}

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			spew.Fdump(cmd.OutOrStdout(), v.Oracle)
			return nil
		}

		decimals, _ := cmd.Flags().GetInt32("decimals")
		return printJSON(cmd, renderOracle(v, decimals, true))
	},
}

var showPositionCmd = &cobra.Command{
	Use:   "position <address>",
	Short: "show a user position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := parseKeys(args[0])
		if err != nil {
			return err
		}

		database := provideDatabase()
		defer database.Close()

		p, err := provideOracleService(database).FindPosition(cmd.Context(), keys[0])
		if err != nil {
			return err
		}

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			spew.Fdump(cmd.OutOrStdout(), p)
			return nil
		}

		decimals, _ := cmd.Flags().GetInt32("decimals")
		return printJSON(cmd, map[string]interface{}{
			"oracle":               p.Oracle.String(),
			"owner":                p.Owner.String(),
			"locked_stake":         p.LockedStake,
			"unlocked_stake":       p.UnlockedStake,
			"weight":               p.Weight,
			"deposit_time":         formatTime(p.DepositTimestamp),
			"last_operation":       formatTime(p.LastOperationTimestamp),
			"last_submission":      formatTime(p.LastSubmissionTime),
			"last_submitted_value": number.FormatValue(p.LastSubmittedValue, decimals),
			"blacklist_votes":      p.BlacklistVotes.List(),
			"whitelist_votes":      p.WhitelistVotes.List(),
		})
	},
}

var showListCmd = &cobra.Command{
	Use:   "list",
	Short: "list oracles",
	RunE: func(cmd *cobra.Command, args []string) error {
		database := provideDatabase()
		defer database.Close()

		views, err := provideOracleService(database).ListOracles(cmd.Context())
		if err != nil {
			return err
		}

		decimals, _ := cmd.Flags().GetInt32("decimals")
		list := make([]oracleView, 0, len(views))
		for _, v := range views {
			list = append(list, renderOracle(v, decimals, false))
		}

		return printJSON(cmd, list)
	},
}

var showEventsCmd = &cobra.Command{
	Use:   "events <oracle> [from-id]",
	Short: "list events emitted by an oracle",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var from int64
		if len(args) > 1 {
			v, err := cast.ToInt64E(args[1])
			if err != nil {
				return err
			}

			from = v
		}

		database := provideDatabase()
		defer database.Close()

		logs, err := provideEventStore(database).List(cmd.Context(), args[0], from, 100)
		if err != nil {
			return err
		}

		return printJSON(cmd, logs)
	},
}

var showInstructionCmd = &cobra.Command{
	Use:   "instruction <trace-id>",
	Short: "show the status of a queued instruction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database := provideDatabase()
		defer database.Close()

		ins, _, err := provideInstructionStore(database).Find(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printJSON(cmd, map[string]interface{}{
			"trace_id":   ins.TraceID,
			"kind":       ins.Kind,
			"status":     ins.Status.String(),
			"error_code": ins.ErrorCode,
			"error":      ins.ErrorMsg,
			"timestamp":  formatTime(ins.Timestamp),
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.AddCommand(showOracleCmd, showPositionCmd, showListCmd, showEventsCmd, showInstructionCmd)

	showCmd.PersistentFlags().Int32("decimals", number.ValueDecimals, "value decimals")
	showCmd.PersistentFlags().Bool("raw", false, "dump the decoded record")
}
