package pda

import (
	"github.com/gagliardetto/solana-go"
)

// DefaultProgramID is the deployed oracle program.
var DefaultProgramID = solana.MustPublicKeyFromBase58("9oPLPE3PC9ok7T8UL9ZMfrNyPkhtaHh1mM9wFk2fWEVJ")

var (
	oracleSeed = []byte("oracle")
	userSeed   = []byte("user")
)

// OracleAddress derives the oracle account of authority for weightAsset.
func OracleAddress(programID, authority, weightAsset solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{
			oracleSeed,
			authority.Bytes(),
			weightAsset.Bytes(),
		},
		programID,
	)
}

// PositionAddress derives the position account of user in oracle.
func PositionAddress(programID, oracle, user solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{
			userSeed,
			oracle.Bytes(),
			user.Bytes(),
		},
		programID,
	)
}

func MustOracleAddress(programID, authority, weightAsset solana.PublicKey) solana.PublicKey {
	address, _, err := OracleAddress(programID, authority, weightAsset)
	if err != nil {
		panic(err)
	}

	return address
}

func MustPositionAddress(programID, oracle, user solana.PublicKey) solana.PublicKey {
	address, _, err := PositionAddress(programID, oracle, user)
	if err != nil {
		panic(err)
	}

	return address
}
