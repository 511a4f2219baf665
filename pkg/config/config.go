package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/c9s/autoinvest/pkg/envvar"
	"github.com/c9s/autoinvest/pkg/exchange/binance/binanceapi"
	"github.com/c9s/autoinvest/pkg/types"
	"github.com/c9s/autoinvest/pkg/util"
)

type BinanceConfig struct {
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`

	Key    string `json:"key,omitempty" yaml:"key,omitempty"`
	Secret string `json:"secret,omitempty" yaml:"secret,omitempty"`

	// PrivateKeyFile is the PEM file of the Ed25519 key, it's used instead of the secret when set
	PrivateKeyFile string `json:"privateKeyFile,omitempty" yaml:"privateKeyFile,omitempty"`

	RecvWindow types.Duration `json:"recvWindow,omitempty" yaml:"recvWindow,omitempty"`

	// RateLimits overrides the bucket limiters, e.g. SPOT_REST_UID: 180000+180000/1m
	RateLimits map[binanceapi.RateLimitBucket]string `json:"rateLimits,omitempty" yaml:"rateLimits,omitempty"`
}

type DatabaseConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
}

type SyncConfig struct {
	// Since is the start date of the first sync, formatted as 2006-01-02
	Since string `json:"since,omitempty" yaml:"since,omitempty"`

	LockFile string `json:"lockFile,omitempty" yaml:"lockFile,omitempty"`
}

type Config struct {
	Binance  BinanceConfig  `json:"binance" yaml:"binance"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Sync     SyncConfig     `json:"sync" yaml:"sync"`
}

const DefaultLockFile = ".autoinvest-sync.lock"

// Load reads the yaml config file, ${VAR} references are expanded from the environment.
// An empty path loads the config from the environment variables only.
func Load(configFile string) (*Config, error) {
	var config Config

	if len(configFile) > 0 {
		content, err := os.ReadFile(configFile)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(content))), &config); err != nil {
			return nil, errors.Wrapf(err, "unable to parse config file %s", configFile)
		}
	}

	config.applyEnv()
	return &config, nil
}

func (c *Config) applyEnv() {
	if v, ok := envvar.String("BINANCE_API_KEY"); ok && c.Binance.Key == "" {
		c.Binance.Key = v
	}

	if v, ok := envvar.String("BINANCE_API_SECRET"); ok && c.Binance.Secret == "" {
		c.Binance.Secret = v
	}

	if v, ok := envvar.Duration("BINANCE_RECV_WINDOW"); ok && c.Binance.RecvWindow == 0 {
		c.Binance.RecvWindow = types.Duration(v)
	}

	if v, ok := envvar.String("DB_DRIVER"); ok && c.Database.Driver == "" {
		c.Database.Driver = v
	}

	if v, ok := envvar.String("DB_DSN"); ok && c.Database.DSN == "" {
		c.Database.DSN = v
	}

	if c.Sync.LockFile == "" {
		c.Sync.LockFile = DefaultLockFile
	}
}

// SyncSince returns the configured sync start time, defaults to one year ago.
func (c *Config) SyncSince() (time.Time, error) {
	if c.Sync.Since == "" {
		return time.Now().AddDate(-1, 0, 0), nil
	}

	return time.Parse(time.DateOnly, c.Sync.Since)
}

// NewClient creates the authenticated binance client from the config.
func (c *BinanceConfig) NewClient() (*binanceapi.RestClient, error) {
	client := binanceapi.NewClient(c.BaseURL)

	switch {
	case c.PrivateKeyFile != "":
		data, err := os.ReadFile(c.PrivateKeyFile)
		if err != nil {
			return nil, err
		}

		privateKey, err := binanceapi.ParseEd25519PrivateKey(data)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid private key file %s", c.PrivateKeyFile)
		}

		client.AuthEd25519(c.Key, privateKey)

	case c.Key != "" || c.Secret != "":
		client.Auth(c.Key, c.Secret)
	}

	if c.RecvWindow > 0 {
		client.SetReceiveWindow(c.RecvWindow.Duration())
	}

	for bucket, desc := range c.RateLimits {
		limiter, err := util.ParseRateLimitSyntax(desc)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid rate limit of bucket %s", bucket)
		}

		if weight := binanceapi.MaxRequestWeight(bucket); limiter.Burst() < weight {
			return nil, errors.Errorf("rate limit %q of bucket %s: burst %d is less than the request weight %d",
				desc, bucket, limiter.Burst(), weight)
		}

		client.RateLimiter().SetLimiter(bucket, limiter)
	}

	return client, nil
}
