package oracle

import (
	"encoding/json"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orboracle/core"
	"orboracle/pkg/fixed"
	"orboracle/pkg/layout"
)

func TestEventLogs(t *testing.T) {
	oracle := solana.NewWallet().PublicKey()
	submitter := solana.NewWallet().PublicKey()

	events := []core.Event{
		core.ValueSubmitted{
			Submitter:       submitter,
			Timestamp:       1_700_000_000,
			SubmittedValue:  fixed.NewI128(200),
			AggregatedValue: fixed.NewI128(150),
			Weight:          1000,
			RewardLamports:  4999,
		},
		core.BlacklistStatusChanged{Target: submitter, IsBlacklisted: true},
	}

	logs, err := eventLogs("trace", oracle, events)
	require.Nil(t, err)
	require.Len(t, logs, 2)

	assert.Equal(t, "ValueSubmitted", logs[0].Name)
	assert.Equal(t, 0, logs[0].Seq)
	assert.Equal(t, 1, logs[1].Seq)
	assert.Equal(t, oracle.String(), logs[1].Oracle)

	var data map[string]interface{}
	require.Nil(t, json.Unmarshal(logs[0].Data, &data))
	assert.Equal(t, "150", data["aggregated_value"])

	decoded, err := layout.DecodeEvent(logs[1].Name, logs[1].Raw)
	require.Nil(t, err)
	assert.Equal(t, events[1], decoded)
}
