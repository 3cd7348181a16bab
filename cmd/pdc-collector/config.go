package main

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// PMUTarget names one PMU this collector connects to.
type PMUTarget struct {
	IDCode  uint16 `mapstructure:"id_code"`
	Address string `mapstructure:"address"`
}

// Config is the PDC collector's configuration, grounded on the
// teacher's examples/pdc-client/main.go connection parameters,
// generalized to many PMUs and a Redis publish target.
type Config struct {
	PDC struct {
		LogLevel string      `mapstructure:"log_level"`
		PMUs     []PMUTarget `mapstructure:"pmus"`
		Redis    struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"pdc"`
}

func loadConfig() (*Config, error) {
	var cfg Config

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/pdc-collector/")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		logrus.Info("no config file found, using defaults and environment variables")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("pdc.log_level", "INFO")
	viper.SetDefault("pdc.pmus", []PMUTarget{{IDCode: 1, Address: "localhost:4712"}})
	viper.SetDefault("pdc.redis.address", "localhost:6379")
	viper.SetDefault("pdc.redis.db", 0)

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
