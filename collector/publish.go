package collector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/wattloop/c37118/pmuconfig"
)

// Publisher distributes decoded measurements to downstream consumers,
// grounded on librescoot-bluetooth-service's pkg/redis Client: the
// latest sample of every station a PMU reports is written to that PMU's
// hash and published on that PMU's channel (both keyed by IDCODE) in
// one pipelined round trip, mirroring that package's
// WriteAndPublishString.
type Publisher struct {
	client *redis.Client
}

// NewPublisher connects to the Redis instance at addr.
func NewPublisher(ctx context.Context, addr, password string, db int) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("collector: connect to redis at %s: %w", addr, err)
	}
	return &Publisher{client: client}, nil
}

// measurementKey/channel name the Redis hash and pub/sub channel for a
// given PMU IDCODE.
func measurementKey(idCode uint16) string     { return fmt.Sprintf("pmu:%d:latest", idCode) }
func measurementChannel(idCode uint16) string { return fmt.Sprintf("pmu:%d:measurements", idCode) }

// publishedStation is the JSON shape written per station.
type publishedStation struct {
	Name      string    `json:"name"`
	Stat      uint16    `json:"stat"`
	Real      []float64 `json:"phasor_real"`
	Imag      []float64 `json:"phasor_imag"`
	Frequency float32   `json:"frequency"`
	ROCOF     float32   `json:"rocof"`
	Analog    []float32 `json:"analog"`
}

// buildPublishedStations converts decoded measurements into the JSON
// shape PublishMeasurement writes, a direct analogue of the teacher's
// GetMeasurements map but with a fixed schema instead of
// map[string]interface{}.
func buildPublishedStations(m *pmuconfig.Measurements) []publishedStation {
	stations := make([]publishedStation, len(m.Samples))
	for i, sample := range m.Samples {
		ps := publishedStation{
			Stat:      sample.Stat,
			Real:      make([]float64, len(sample.Phasors)),
			Imag:      make([]float64, len(sample.Phasors)),
			Frequency: sample.Freq,
			ROCOF:     sample.DFreq,
			Analog:    sample.Analog,
		}
		if i < len(m.Config.Stations) {
			ps.Name = m.Config.Stations[i].Name
		}
		for j, ph := range sample.Phasors {
			ps.Real[j] = real(ph)
			ps.Imag[j] = imag(ph)
		}
		stations[i] = ps
	}
	return stations
}

// PublishMeasurement writes m's per-station samples, as one JSON array,
// into the Redis hash for idCode and publishes the same payload on
// idCode's channel, in a single pipelined round trip.
func (p *Publisher) PublishMeasurement(ctx context.Context, idCode uint16, m *pmuconfig.Measurements) error {
	payload, err := json.Marshal(buildPublishedStations(m))
	if err != nil {
		return fmt.Errorf("collector: marshal measurement: %w", err)
	}

	key := measurementKey(idCode)
	channel := measurementChannel(idCode)

	pipe := p.client.Pipeline()
	pipe.HSet(ctx, key, "stations", string(payload))
	pipe.Publish(ctx, channel, payload)
	_, err = pipe.Exec(ctx)
	return err
}

// Close closes the underlying Redis client.
func (p *Publisher) Close() error { return p.client.Close() }
