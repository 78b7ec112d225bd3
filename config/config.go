package config

import (
	"time"

	"github.com/asaskevich/govalidator"
	configUtil "github.com/fox-one/pkg/config"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"orboracle/core"
	"orboracle/pkg/number"
	"orboracle/pkg/pda"
)

// Load load config file
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("ORBORACLE")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	defaults(config)
	return validate(config)
}

func defaults(c *core.Config) {
	if c.App.Location == "" {
		c.App.Location = "UTC"
	}

	if c.Program.ID == "" {
		c.Program.ID = pda.DefaultProgramID.String()
	}

	if c.Processor.Batch <= 0 {
		c.Processor.Batch = 100
	}

	if c.Processor.Interval <= 0 {
		c.Processor.Interval = 500 * time.Millisecond
	}

	if c.Notifier.Channel == "" {
		c.Notifier.Channel = "orboracle:events"
	}

	if c.Notifier.Batch <= 0 {
		c.Notifier.Batch = 100
	}

	if c.Feeder.Decimals == 0 {
		c.Feeder.Decimals = number.ValueDecimals
	}

	if c.Feeder.Schedule == "" {
		c.Feeder.Schedule = "@every 1m"
	}
}

func validate(c *core.Config) error {
	if _, err := solana.PublicKeyFromBase58(c.Program.ID); err != nil {
		return errors.Wrap(err, "program.id")
	}

	if !c.Feeder.Enabled {
		return nil
	}

	if !govalidator.IsURL(c.Feeder.Endpoint) {
		return errors.Errorf("feeder.endpoint %q is not a url", c.Feeder.Endpoint)
	}

	if _, err := solana.PublicKeyFromBase58(c.Feeder.Oracle); err != nil {
		return errors.Wrap(err, "feeder.oracle")
	}

	if c.Feeder.Symbol == "" || c.Feeder.Keypair == "" {
		return errors.New("feeder.symbol and feeder.keypair are required")
	}

	return nil
}

// ProgramID returns the configured program id.
func ProgramID(c *core.Config) solana.PublicKey {
	return solana.MustPublicKeyFromBase58(c.Program.ID)
}
