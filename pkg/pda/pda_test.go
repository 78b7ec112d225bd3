package pda

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracleAddress(t *testing.T) {
	authority := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	a, bump, err := OracleAddress(DefaultProgramID, authority, mint)
	require.Nil(t, err)

	b, bump2, err := OracleAddress(DefaultProgramID, authority, mint)
	require.Nil(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, bump, bump2)

	other := MustOracleAddress(DefaultProgramID, mint, authority)
	assert.NotEqual(t, a, other, "seed order matters")
}

func TestPositionAddress(t *testing.T) {
	oracle := solana.NewWallet().PublicKey()
	alice := solana.NewWallet().PublicKey()
	bob := solana.NewWallet().PublicKey()

	pa := MustPositionAddress(DefaultProgramID, oracle, alice)
	pb := MustPositionAddress(DefaultProgramID, oracle, bob)
	assert.NotEqual(t, pa, pb)

	again, _, err := PositionAddress(DefaultProgramID, oracle, alice)
	require.Nil(t, err)
	assert.Equal(t, pa, again)
}
