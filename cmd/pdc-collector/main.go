// pdc-collector connects to one or more PMUs, streams their
// measurements, and republishes them to Redis, grounded on the
// teacher's examples/pdc-client/main.go generalized from a single
// printed connection to a fan-out collector/publisher.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/wattloop/c37118/collector"
)

func setupLogging(logLevel string) {
	logrus.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.WithError(err).Warn("invalid log level, defaulting to INFO")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	setupLogging(cfg.PDC.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher, err := collector.NewPublisher(ctx, cfg.PDC.Redis.Address, cfg.PDC.Redis.Password, cfg.PDC.Redis.DB)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to redis")
	}
	defer publisher.Close()

	log := logrus.WithField("component", "pdc-collector")
	c := collector.NewCollector(publisher, log)

	idCodes := make([]uint16, len(cfg.PDC.PMUs))
	addresses := make([]string, len(cfg.PDC.PMUs))
	for i, pmu := range cfg.PDC.PMUs {
		idCodes[i] = pmu.IDCode
		addresses[i] = pmu.Address
	}

	log.WithField("pmu_count", len(addresses)).Info("starting PDC collector")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutting down")
		cancel()
	}()

	c.Run(ctx, idCodes, addresses)
}
