package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fox-one/pkg/logger"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"orboracle/worker"
	"orboracle/worker/feeder"
	"orboracle/worker/notifier"
	"orboracle/worker/processor"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run the instruction processor and background jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		db := provideDatabase()
		defer db.Close()

		oracles := provideOracleService(db)

		workers := []worker.Worker{
			processor.New(
				processor.PropertyCheckpoint(providePropertyStore(db)),
				provideInstructionStore(db),
				oracles,
				cfg.Processor.Batch,
				cfg.Processor.Interval,
			),
		}

		if cfg.Redis.Addr != "" {
			n, err := notifier.New(cfg.App.Location, provideEventStore(db), notifier.RedisPublisher(provideRedis()), cfg.Notifier)
			if err != nil {
				return err
			}

			workers = append(workers, n)
		}

		if cfg.Feeder.Enabled {
			key, err := solana.PrivateKeyFromSolanaKeygenFile(cfg.Feeder.Keypair)
			if err != nil {
				return err
			}

			f, err := feeder.New(cfg.App.Location, provideProgramID(), key, cfg.Feeder, provideTickerService(), provideInstructionStore(db))
			if err != nil {
				return err
			}

			workers = append(workers, f)
		}

		g, ctx := errgroup.WithContext(ctx)
		for _, w := range workers {
			w := w
			g.Go(func() error {
				return w.Run(ctx)
			})
		}

		if err := g.Wait(); err != nil && err != context.Canceled {
			return err
		}

		log.Infoln("worker stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
