package cmd

import (
	"time"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	"github.com/gagliardetto/solana-go"
	"github.com/go-redis/redis"
	"orboracle/config"
	"orboracle/core"
	"orboracle/pkg/oracle"
	oracleservice "orboracle/service/oracle"
	"orboracle/service/ticker"
	"orboracle/store/account"
	"orboracle/store/balance"
	"orboracle/store/event"
	"orboracle/store/instruction"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func provideConfig() *core.Config {
	return &cfg
}

func provideProgramID() solana.PublicKey {
	return config.ProgramID(provideConfig())
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideAccountStore(db *db.DB) core.IAccountStore {
	return account.Cache(account.New(db), time.Minute)
}

func provideInstructionStore(db *db.DB) core.IInstructionStore {
	return instruction.New(db)
}

func provideEventStore(db *db.DB) core.IEventStore {
	return event.New(db)
}

func provideVault(db *db.DB) core.IVault {
	return balance.New(db)
}

// ------------------service------------------------------------

func provideOracleService(db *db.DB) *oracleservice.Service {
	return oracleservice.New(
		oracle.New(provideProgramID()),
		db,
		provideAccountStore(db),
		provideVault(db),
		provideEventStore(db),
		provideInstructionStore(db),
	)
}

func provideTickerService() core.ITickerService {
	return ticker.New(cfg.Feeder.Endpoint)
}
