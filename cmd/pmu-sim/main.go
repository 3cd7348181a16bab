// pmu-sim simulates a single IEEE C37.118.2 PMU server, grounded on
// the teacher's examples/pmu-server/main.go.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/wattloop/c37118/pmuconfig"
	"github.com/wattloop/c37118/pmusim"
)

const appVersion = "dev"

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	setupLogging(cfg.PMU.LogLevel)

	logrus.WithFields(logrus.Fields{
		"version":      appVersion,
		"pmu_id":       cfg.PMU.ID,
		"station":      cfg.PMU.Station,
		"phasor_count": len(cfg.PMU.Phasors),
		"analog_count": len(cfg.PMU.Analogs),
	}).Info("starting PMU simulator")

	station := pmuconfig.NewStation(cfg.PMU.Station, cfg.PMU.ID,
		cfg.PMU.DataFormat.FreqFloat, cfg.PMU.DataFormat.AnalogFloat,
		cfg.PMU.DataFormat.PhasorFloat, cfg.PMU.DataFormat.Polar)

	if cfg.PMU.FrequencyBase == 50 {
		station.Fnom = pmuconfig.FreqNom50Hz
	} else {
		station.Fnom = pmuconfig.FreqNom60Hz
	}
	station.CfgCount = 1

	for _, p := range cfg.PMU.Phasors {
		station.AddPhasorChannel(p.Name, p.Scale, p.Type)
	}
	for _, a := range cfg.PMU.Analogs {
		station.AddAnalogChannel(a.Name, a.Scale, a.Type)
	}
	if len(cfg.PMU.Digitals) > 0 {
		names := make([]string, len(cfg.PMU.Digitals))
		for i, d := range cfg.PMU.Digitals {
			names[i] = d.Name
		}
		station.AddDigitalWord(names, 0x0000, 0xFFFF)
	}

	pmuConfig := pmuconfig.NewConfig(cfg.PMU.TimeBase)
	pmuConfig.DataRate = cfg.PMU.DataRate
	pmuConfig.AddStation(station)

	header := pmuconfig.NewHeader(cfg.PMU.Header)

	pmu := pmusim.NewPMU(cfg.PMU.ID, pmuConfig, header)
	pmu.SetLogger(logrus.WithField("pmu", cfg.PMU.ID))
	pmu.SetMetrics(pmusim.NewPrometheusMetrics(cfg.PMU.ID))
	pmu.LogConfiguration()

	go func() {
		metricsAddr := fmt.Sprintf(":%d", cfg.PMU.MetricsPort)
		logrus.WithField("address", metricsAddr).Info("starting metrics server")
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			logrus.WithError(err).Fatal("failed to start metrics server")
		}
	}()

	address := fmt.Sprintf("%s:%d", cfg.PMU.IP, cfg.PMU.Port)
	if err := pmu.Start(address); err != nil {
		logrus.WithError(err).Fatal("failed to start PMU")
	}
	defer pmu.Stop()

	logrus.WithField("address", address).Info("PMU server started, waiting for PDC connections")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
