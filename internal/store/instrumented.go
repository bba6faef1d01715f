package store

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-metrics"

	"github.com/heysubinoy/kvlookup/pkg/kv"
)

// Metrics holds timing statistics for store operations.
// Uses atomic operations for thread-safe updates without locks.
type Metrics struct {
	ProbeCount   atomic.Uint64
	GetCount     atomic.Uint64
	GetHitCount  atomic.Uint64
	GetMissCount atomic.Uint64
	ErrorCount   atomic.Uint64

	// Cumulative latencies in nanoseconds, lock wait included
	ProbeLatencyNs atomic.Uint64
	GetLatencyNs   atomic.Uint64
}

// InstrumentedReader wraps any kv.Reader implementation with timing metrics.
// Every observation is also forwarded to the global go-metrics sink.
type InstrumentedReader struct {
	reader  kv.Reader
	metrics *Metrics
}

// Compile-time check to ensure InstrumentedReader implements kv.Reader.
var _ kv.Reader = (*InstrumentedReader)(nil)

// NewInstrumentedReader wraps a reader with instrumentation.
func NewInstrumentedReader(reader kv.Reader) *InstrumentedReader {
	return &InstrumentedReader{
		reader:  reader,
		metrics: &Metrics{},
	}
}

// Probe delegates to the wrapped reader and records timing.
func (s *InstrumentedReader) Probe() error {
	start := time.Now()
	err := s.reader.Probe()
	elapsed := time.Since(start).Nanoseconds()

	s.metrics.ProbeCount.Add(1)
	s.metrics.ProbeLatencyNs.Add(uint64(elapsed))
	metrics.MeasureSince([]string{"store", "probe"}, start)
	if err != nil {
		s.recordError()
	}

	return err
}

// Get delegates to the wrapped reader and records timing and hit ratio.
func (s *InstrumentedReader) Get(key string) (string, bool, error) {
	start := time.Now()
	value, found, err := s.reader.Get(key)
	elapsed := time.Since(start).Nanoseconds()

	s.metrics.GetCount.Add(1)
	s.metrics.GetLatencyNs.Add(uint64(elapsed))
	metrics.MeasureSince([]string{"store", "get"}, start)
	switch {
	case err != nil:
		s.recordError()
	case found:
		s.metrics.GetHitCount.Add(1)
		metrics.IncrCounter([]string{"store", "get", "hit"}, 1)
	default:
		s.metrics.GetMissCount.Add(1)
		metrics.IncrCounter([]string{"store", "get", "miss"}, 1)
	}

	return value, found, err
}

func (s *InstrumentedReader) recordError() {
	s.metrics.ErrorCount.Add(1)
	metrics.IncrCounter([]string{"store", "error"}, 1)
}

// GetMetrics returns a snapshot of current metrics.
func (s *InstrumentedReader) GetMetrics() MetricsSnapshot {
	probeCount := s.metrics.ProbeCount.Load()
	getCount := s.metrics.GetCount.Load()

	return MetricsSnapshot{
		ProbeCount:      probeCount,
		GetCount:        getCount,
		GetHitCount:     s.metrics.GetHitCount.Load(),
		GetMissCount:    s.metrics.GetMissCount.Load(),
		ErrorCount:      s.metrics.ErrorCount.Load(),
		ProbeAvgLatency: s.avgLatency(s.metrics.ProbeLatencyNs.Load(), probeCount),
		GetAvgLatency:   s.avgLatency(s.metrics.GetLatencyNs.Load(), getCount),
	}
}

// ResetMetrics clears all metrics counters.
func (s *InstrumentedReader) ResetMetrics() {
	s.metrics.ProbeCount.Store(0)
	s.metrics.GetCount.Store(0)
	s.metrics.GetHitCount.Store(0)
	s.metrics.GetMissCount.Store(0)
	s.metrics.ErrorCount.Store(0)
	s.metrics.ProbeLatencyNs.Store(0)
	s.metrics.GetLatencyNs.Store(0)
}

func (s *InstrumentedReader) avgLatency(totalNs, count uint64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(totalNs / count)
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	ProbeCount      uint64
	GetCount        uint64
	GetHitCount     uint64
	GetMissCount    uint64
	ErrorCount      uint64
	ProbeAvgLatency time.Duration
	GetAvgLatency   time.Duration
}

// SetupMetrics installs a global go-metrics registry backed by an in-memory
// sink. Sending SIGUSR1 to the process dumps the sink to stderr.
func SetupMetrics(service string) (*metrics.InmemSink, error) {
	inm := metrics.NewInmemSink(10*time.Second, time.Minute)
	metricsConf := metrics.DefaultConfig(service)
	metricsConf.EnableHostname = false
	if _, err := metrics.NewGlobal(metricsConf, inm); err != nil {
		return nil, err
	}
	metrics.DefaultInmemSignal(inm)
	return inm, nil
}
