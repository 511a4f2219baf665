package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/c9s/autoinvest/pkg/cmd/cmdutil"
	"github.com/c9s/autoinvest/pkg/service"
)

func init() {
	SyncCmd.Flags().String("since", "", "sync from time, like 2024-01-01")
	RootCmd.AddCommand(SyncCmd)
}

var SyncCmd = &cobra.Command{
	Use:          "sync [--since=yyyy-mm-dd]",
	Short:        "sync the auto-invest history into the database",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := cmdutil.LoadConfig()
		if err != nil {
			return err
		}

		if cfg.Database.Driver == "" || cfg.Database.DSN == "" {
			return errors.New("database driver and dsn are required, set them in the config or DB_DRIVER and DB_DSN")
		}

		since, err := cfg.SyncSince()
		if err != nil {
			return errors.Wrap(err, "invalid sync since")
		}

		if v, _ := cmd.Flags().GetString("since"); v != "" {
			since, err = time.ParseInLocation(time.DateOnly, v, time.Local)
			if err != nil {
				return err
			}
		}

		lock := flock.New(cfg.Sync.LockFile)
		locked, err := lock.TryLock()
		if err != nil {
			return errors.Wrapf(err, "lock file %s error", cfg.Sync.LockFile)
		}

		if !locked {
			return fmt.Errorf("another sync process is running, lock file: %s", cfg.Sync.LockFile)
		}

		defer func() {
			if err := lock.Unlock(); err != nil {
				log.WithError(err).Errorf("unlock error: %s", cfg.Sync.LockFile)
			}
		}()

		db, err := service.NewDatabaseService(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return err
		}

		if err := db.Connect(); err != nil {
			return err
		}

		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			return err
		}

		client, err := cfg.Binance.NewClient()
		if err != nil {
			return err
		}

		if err := client.SetTimeOffsetFromServer(ctx); err != nil {
			return err
		}

		autoInvestService := &service.AutoInvestService{DB: db.DB}
		stored, err := autoInvestService.Sync(ctx, client, since)
		if err != nil {
			return err
		}

		log.Infof("%d auto invest transactions synced", stored)
		return nil
	},
}
