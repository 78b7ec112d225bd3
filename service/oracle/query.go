package oracle

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"orboracle/core"
	"orboracle/pkg/layout"
)

const listBatch = 100

// ErrNotFound is returned by queries for unknown accounts.
var ErrNotFound = errors.New("account not found")

func (s *Service) FindOracle(ctx context.Context, address solana.PublicKey) (*core.OracleView, error) {
	_, o, err := s.loadOracle(ctx, address)
	if err != nil {
		return nil, err
	}

	if o == nil {
		return nil, ErrNotFound
	}

	return s.view(ctx, address, o)
}

func (s *Service) view(ctx context.Context, address solana.PublicKey, o *core.Oracle) (*core.OracleView, error) {
	pool, err := s.vault.Balance(ctx, address, core.NativeAsset)
	if err != nil {
		return nil, err
	}

	staked, err := s.vault.Balance(ctx, address, o.WeightAsset)
	if err != nil {
		return nil, err
	}

	return &core.OracleView{
		Address: address,
		Oracle:  o,
		Pool:    pool,
		Vault:   staked,
	}, nil
}

func (s *Service) FindPosition(ctx context.Context, address solana.PublicKey) (*core.UserPosition, error) {
	_, p, err := s.loadPosition(ctx, address)
	if err != nil {
		return nil, err
	}

	if p == nil {
		return nil, ErrNotFound
	}

	return p, nil
}

func (s *Service) ListOracles(ctx context.Context) ([]*core.OracleView, error) {
	var (
		views  []*core.OracleView
		fromID int64
	)

	for {
		accounts, err := s.accounts.ListByKind(ctx, core.AccountKindOracle, fromID, listBatch)
		if err != nil {
			return nil, err
		}

		for _, account := range accounts {
			fromID = account.ID

			o, err := layout.DecodeOracle(account.Data)
			if err != nil {
				return nil, errors.Wrapf(err, "decode oracle %s", account.Address)
			}

			address, err := solana.PublicKeyFromBase58(account.Address)
			if err != nil {
				return nil, err
			}

			view, err := s.view(ctx, address, o)
			if err != nil {
				return nil, err
			}

			views = append(views, view)
		}

		if len(accounts) < listBatch {
			return views, nil
		}
	}
}
