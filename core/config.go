package core

import (
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Config orboracle config
type Config struct {
	App       App       `json:"app"`
	DB        db.Config `json:"db"`
	Redis     Redis     `json:"redis"`
	Program   Program   `json:"program"`
	Processor Processor `json:"processor"`
	Notifier  Notifier  `json:"notifier"`
	Feeder    Feeder    `json:"feeder"`
}

// App app config
type App struct {
	Location string `json:"location"`
}

// Redis redis config
type Redis struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// Program identifies the oracle program whose accounts this node keeps.
type Program struct {
	ID string `json:"id"`
}

// Processor processor config
type Processor struct {
	Batch    int           `json:"batch"`
	Interval time.Duration `json:"interval"`
}

// Notifier notifier config
type Notifier struct {
	Channel string `json:"channel"`
	Batch   int    `json:"batch"`
}

// Feeder pulls a reference price and submits it to an oracle.
type Feeder struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
	Symbol   string `json:"symbol"`
	Oracle   string `json:"oracle"`
	Keypair  string `json:"keypair"`
	Decimals int32  `json:"decimals"`
	Schedule string `json:"schedule"`
}
