package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// PhasorDefinition describes one simulated phasor channel, grounded on
// the teacher's examples/pmu-server/config.go PhasorDefinition.
type PhasorDefinition struct {
	Name  string `mapstructure:"name"`
	Type  uint8  `mapstructure:"type"` // 0 = voltage, 1 = current
	Scale uint32 `mapstructure:"scale"`
}

// AnalogDefinition describes one simulated analog channel.
type AnalogDefinition struct {
	Name  string `mapstructure:"name"`
	Type  uint8  `mapstructure:"type"` // AnalogUnitPow/RMS/Peak
	Scale uint32 `mapstructure:"scale"`
}

// DigitalDefinition names one bit of a digital status word.
type DigitalDefinition struct {
	Name string `mapstructure:"name"`
}

// Config is the PMU simulator's configuration, grounded on the
// teacher's examples/pmu-server/config.go Config but flattened to this
// module's single-station simulator scope.
type Config struct {
	PMU struct {
		Station     string `mapstructure:"station"`
		ID          uint16 `mapstructure:"id"`
		IP          string `mapstructure:"ip"`
		Port        int    `mapstructure:"port"`
		MetricsPort int    `mapstructure:"metrics_port"`

		FrequencyBase float64 `mapstructure:"frequency_base"`
		TimeBase      uint32  `mapstructure:"time_base"`
		DataRate      int16   `mapstructure:"data_rate"`

		DataFormat struct {
			Polar       bool `mapstructure:"polar"`
			PhasorFloat bool `mapstructure:"phasor_float"`
			AnalogFloat bool `mapstructure:"analog_float"`
			FreqFloat   bool `mapstructure:"freq_float"`
		} `mapstructure:"data_format"`

		Phasors  []PhasorDefinition  `mapstructure:"phasors"`
		Analogs  []AnalogDefinition  `mapstructure:"analog_channels"`
		Digitals []DigitalDefinition `mapstructure:"digital_channels"`

		Header   string `mapstructure:"header"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"pmu"`
}

func loadConfig() (*Config, error) {
	var cfg Config

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/pmu-sim/")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		logrus.Info("no config file found, using defaults and environment variables")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("pmu.station", "STATION-01")
	viper.SetDefault("pmu.id", 1)
	viper.SetDefault("pmu.ip", "0.0.0.0")
	viper.SetDefault("pmu.port", 4712)
	viper.SetDefault("pmu.metrics_port", 9090)
	viper.SetDefault("pmu.frequency_base", 60.0)
	viper.SetDefault("pmu.time_base", 1000000)
	viper.SetDefault("pmu.data_rate", 30)
	viper.SetDefault("pmu.log_level", "INFO")
	viper.SetDefault("pmu.header", "pmu-sim simulator")
	viper.SetDefault("pmu.phasors", []PhasorDefinition{{Name: "VA", Type: 0, Scale: 1}})
	viper.SetDefault("pmu.analog_channels", []AnalogDefinition{})
	viper.SetDefault("pmu.digital_channels", []DigitalDefinition{})

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.PMU.Station == "" {
		cfg.PMU.Station = fmt.Sprintf("STATION-%d", cfg.PMU.ID)
	}

	return &cfg, nil
}
