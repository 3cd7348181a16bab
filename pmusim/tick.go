package pmusim

// copied from https://github.com/golang/go/issues/19810#issuecomment-291170511
import (
	"time"

	"github.com/sirupsen/logrus"
)

// logInterval defines how often to log skipped tick statistics.
const logInterval = 30 * time.Second

// wallTicker delivers ticks aligned to wall-clock boundaries rather
// than to process start time, correcting for scheduler skew as it
// runs. Grounded on the teacher's examples/pmu-server/tick.go, adapted
// to report skew through a MetricsRecorder instead of a package-level
// function so more than one simulated PMU can run in one process.
type wallTicker struct {
	C            <-chan time.Time
	align        time.Duration
	offset       time.Duration
	stop         chan bool
	c            chan time.Time
	skew         float64
	d            time.Duration
	last         time.Time
	skippedTicks int64
	lastLogTime  time.Time
	dropTicks    bool
	metrics      MetricsRecorder
	log          *logrus.Entry
}

func newWallTicker(align, offset time.Duration, dropTicks bool, metrics MetricsRecorder, log *logrus.Entry) *wallTicker {
	now := time.Now()
	w := &wallTicker{
		align:       align,
		offset:      offset,
		stop:        make(chan bool),
		c:           make(chan time.Time, 1),
		skew:        1.0,
		lastLogTime: now,
		dropTicks:   dropTicks,
		metrics:     metrics,
		log:         log,
	}
	w.C = w.c
	w.start()
	return w
}

func (w *wallTicker) start() {
	now := time.Now()
	d := time.Until(now.Add(-w.offset).Add(w.align * 4 / 3).Truncate(w.align).Add(w.offset))
	d = time.Duration(float64(d) / w.skew)
	w.d = d
	w.last = now

	if w.metrics != nil {
		w.metrics.UpdateTickerSkew(w.skew, d.Seconds())
	}

	time.AfterFunc(d, w.tick)
}

func (w *wallTicker) tick() {
	const alpha = 0.7
	now := time.Now()
	if now.After(w.last) {
		w.skew = w.skew*alpha + (float64(now.Sub(w.last))/float64(w.d))*(1-alpha)

		if w.dropTicks {
			select {
			case <-w.stop:
				return
			case w.c <- now:
			default:
				w.skippedTicks++

				if now.Sub(w.lastLogTime) >= logInterval {
					if w.skippedTicks > 0 && w.log != nil {
						w.log.WithField("skipped_ticks", w.skippedTicks).Warnf("dropped %d ticks in the last %v", w.skippedTicks, logInterval)
					}
					w.skippedTicks = 0
					w.lastLogTime = now
				}
			}
		} else {
			select {
			case <-w.stop:
				return
			case w.c <- now:
			}
		}
	}
	w.start()
}

func (w *wallTicker) Stop() {
	close(w.stop)
}
