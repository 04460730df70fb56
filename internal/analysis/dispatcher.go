package analysis

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"rocketintel-sim/internal/logging"
)

// DefaultInterval is the mission-time spacing between analysis requests.
const DefaultInterval = 5.0

// Schedule fires once each time mission time enters a new interval window,
// starting with the window at zero.
type Schedule struct {
	Interval float64
	next     float64
}

// NewSchedule returns a schedule. A non-positive interval selects
// DefaultInterval.
func NewSchedule(interval float64) *Schedule {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Schedule{Interval: interval}
}

// Due reports whether a request should be sent at mission time t.
func (s *Schedule) Due(t float64) bool {
	if t < s.next {
		return false
	}
	s.next = (math.Floor(t/s.Interval) + 1) * s.Interval
	return true
}

// Reset rewinds the schedule to the start of a run.
func (s *Schedule) Reset() { s.next = 0 }

// ResultFunc receives completed analyses.
type ResultFunc func(Request, Analysis)

// Dispatcher hands requests to an Analyzer on a worker goroutine. Submit
// never blocks the caller.
type Dispatcher struct {
	analyzer Analyzer
	queue    chan Request
	onResult ResultFunc
	timeout  time.Duration
	dropped  atomic.Int64
	failed   atomic.Int64
}

// NewDispatcher creates a dispatcher with a bounded queue.
func NewDispatcher(a Analyzer, queueSize int, timeout time.Duration, onResult ResultFunc) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		analyzer: a,
		queue:    make(chan Request, queueSize),
		onResult: onResult,
		timeout:  timeout,
	}
}

// Submit enqueues req, dropping it if the queue is full.
func (d *Dispatcher) Submit(req Request) bool {
	select {
	case d.queue <- req:
		return true
	default:
		d.dropped.Add(1)
		return false
	}
}

// Run processes requests until ctx is done. Failed analyses are logged and
// produce no result.
func (d *Dispatcher) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-d.queue:
			actx, cancel := context.WithTimeout(ctx, d.timeout)
			res, err := d.analyzer.Analyze(actx, req)
			cancel()
			if err != nil {
				d.failed.Add(1)
				log.Warn("telemetry analysis failed", "vehicle_id", req.VehicleID, "err", err)
				continue
			}
			if d.onResult != nil {
				d.onResult(req, res)
			}
		}
	}
}

// Dropped returns how many requests were discarded because the queue was full.
func (d *Dispatcher) Dropped() int64 { return d.dropped.Load() }

// Failed returns how many analyses returned an error.
func (d *Dispatcher) Failed() int64 { return d.failed.Load() }
