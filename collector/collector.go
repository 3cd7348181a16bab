package collector

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Collector fans a PDC's measurement stream for each configured PMU out
// to a Publisher, one goroutine per PMU, grounded on the teacher's
// dataSender-per-connection shape in pmu.go but running the PDC/client
// side of that relationship instead of the PMU/server side. Fan-out
// uses a plain sync.WaitGroup: golang.org/x/sync's errgroup was
// considered and rejected (see DESIGN.md) since none of the retrieval
// pack's repos actually import it.
type Collector struct {
	log       *logrus.Entry
	publisher *Publisher
}

// NewCollector builds a Collector that publishes through pub.
func NewCollector(pub *Publisher, log *logrus.Entry) *Collector {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Collector{log: log, publisher: pub}
}

// Run connects to each address, requests its Configuration and data
// stream, and publishes every decoded measurement until ctx is
// cancelled or a PDC's connection fails. Errors from individual PMUs
// are logged, not returned: one bad PMU should not take down the
// others.
func (c *Collector) Run(ctx context.Context, idCodes []uint16, addresses []string) {
	var wg sync.WaitGroup
	for i, addr := range addresses {
		idCode := idCodes[i]
		wg.Add(1)
		go func(idCode uint16, addr string) {
			defer wg.Done()
			c.runOne(ctx, idCode, addr)
		}(idCode, addr)
	}
	wg.Wait()
}

func (c *Collector) runOne(ctx context.Context, idCode uint16, addr string) {
	log := c.log.WithField("pmu", idCode)

	pdc := NewPDC(idCode)
	if err := pdc.Connect(addr); err != nil {
		log.WithError(err).Error("connect failed")
		return
	}
	defer pdc.Disconnect()

	cfg, err := pdc.GetConfig(2)
	if err != nil {
		log.WithError(err).Error("configuration request failed")
		return
	}

	if err := pdc.Start(); err != nil {
		log.WithError(err).Error("start command failed")
		return
	}
	defer pdc.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		m, err := pdc.ReadMeasurement(cfg)
		if err != nil {
			log.WithError(err).Warn("read measurement failed")
			return
		}

		if err := c.publisher.PublishMeasurement(ctx, idCode, m); err != nil {
			log.WithError(err).Warn("publish failed")
		}
	}
}
