package cmdutil

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/c9s/autoinvest/pkg/config"
	"github.com/c9s/autoinvest/pkg/types"
)

// PersistentFlags defines the flags for environments
func PersistentFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "config file")
	flags.Bool("debug", false, "debug flag")
	flags.String("binance-api-key", "", "binance api key")
	flags.String("binance-api-secret", "", "binance api secret")
	flags.String("binance-recv-window", "", "binance receive window, e.g. 5s")
	flags.String("db-driver", "", "database driver: sqlite3, mysql or postgres")
	flags.String("db-dsn", "", "database dsn")
}

// LoadConfig loads the config file given by --config, the flags and the env vars bound by viper override it.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, err
	}

	if v := viper.GetString("binance-api-key"); v != "" {
		cfg.Binance.Key = v
	}

	if v := viper.GetString("binance-api-secret"); v != "" {
		cfg.Binance.Secret = v
	}

	if v := viper.GetString("binance-recv-window"); v != "" {
		d, err := types.ParseDuration(v)
		if err != nil {
			return nil, errors.Wrap(err, "invalid --binance-recv-window")
		}

		cfg.Binance.RecvWindow = types.Duration(d)
	}

	if v := viper.GetString("db-driver"); v != "" {
		cfg.Database.Driver = v
	}

	if v := viper.GetString("db-dsn"); v != "" {
		cfg.Database.DSN = v
	}

	return cfg, nil
}
