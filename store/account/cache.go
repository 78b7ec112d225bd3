package account

import (
	"context"
	"fmt"
	"time"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/store/db"
	"golang.org/x/sync/singleflight"
	"orboracle/core"
)

// Cache keeps recently read accounts in memory. Save evicts the cached copy;
// readers racing a pending transaction may still cache the previous version.
func Cache(store core.IAccountStore, exp time.Duration) core.IAccountStore {
	return &cacheAccountStore{
		IAccountStore: store,
		cache:         gcache.New(2048).LRU().Expiration(exp).Build(),
		sf:            &singleflight.Group{},
	}
}

type cacheAccountStore struct {
	core.IAccountStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheAccountStore) Find(ctx context.Context, address string) (*core.Account, bool, error) {
	key := s.addressKey(address)
	if v, err := s.cache.Get(key); err == nil {
		if account, ok := v.(*core.Account); ok {
			clone := *account
			return &clone, false, nil
		}
	}

	type result struct {
		account  *core.Account
		notFound bool
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		account, notFound, err := s.IAccountStore.Find(ctx, address)
		return result{account: account, notFound: notFound}, err
	})

	r := v.(result)
	if err != nil {
		return nil, r.notFound, err
	}

	_ = s.cache.Set(key, r.account)
	clone := *r.account
	return &clone, false, nil
}

func (s *cacheAccountStore) Save(ctx context.Context, tx *db.DB, account *core.Account) error {
	s.cache.Remove(s.addressKey(account.Address))
	return s.IAccountStore.Save(ctx, tx, account)
}

func (s *cacheAccountStore) addressKey(address string) string {
	return fmt.Sprintf("account:address:%s", address)
}
