package config

import (
	"errors"
	"os"

	"agentpoker-server/internal/util"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the agent poker server
type Config struct {
	loaded bool
	Addr   string `yaml:"addr" envconfig:"addr"`
	JWT    struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	}
	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
	Table TableConfig `yaml:"table"`
}

// TableConfig configures every table the server hosts
type TableConfig struct {
	Seats int `yaml:"seats" envconfig:"seats"`
	// Stakes is one entry per stake level; a table is created for each
	Stakes []Stake `yaml:"stakes"`
	// MinBuyIn and MaxBuyIn are multiples of the big blind
	MinBuyIn    int     `yaml:"minBuyIn" envconfig:"min_buy_in"`
	MaxBuyIn    int     `yaml:"maxBuyIn" envconfig:"max_buy_in"`
	RakeRate    float64 `yaml:"rakeRate" envconfig:"rake_rate"`
	RakeCap     int     `yaml:"rakeCap" envconfig:"rake_cap"`
	TurnTimeout int     `yaml:"turnTimeout" envconfig:"turn_timeout"`
}

// Stake is a small blind/big blind pairing
type Stake struct {
	SmallBlind int `yaml:"smallBlind"`
	BigBlind   int `yaml:"bigBlind"`
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is not an error; defaults and environment variables
// still apply.
func Load() error {
	config = defaults()

	configFile := util.Getenv("APS_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := envconfig.Process("aps", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}

func defaults() Config {
	var c Config
	c.Addr = ":5000"
	c.Table = TableConfig{
		Seats:       6,
		Stakes:      []Stake{{SmallBlind: 5, BigBlind: 10}},
		MinBuyIn:    20,
		MaxBuyIn:    200,
		RakeRate:    0.05,
		RakeCap:     50,
		TurnTimeout: 30,
	}

	return c
}
