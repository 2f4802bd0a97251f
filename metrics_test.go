package goToken

import (
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goToken/value"
)

func TestMetricsDisabledNoIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricEncodeSuccess)

	if got := m.Value(MetricEncodeSuccess); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestMetricsEnabledIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricEncodeSuccess)
	m.Inc(MetricEncodeSuccess)
	m.Inc(MetricEncodeSuccess)

	if got := m.Value(MetricEncodeSuccess); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestMetricsConcurrentIncrementSafe(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 32
	const perG = 4000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				m.Inc(MetricDecodeSuccess)
			}
		}()
	}
	wg.Wait()

	want := uint64(goroutines * perG)
	if got := m.Value(MetricDecodeSuccess); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestMetricsHistogramBucketCorrectness(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})

	observations := []time.Duration{
		10 * time.Microsecond,
		25 * time.Microsecond,
		50 * time.Microsecond,
		100 * time.Microsecond,
		250 * time.Microsecond,
		500 * time.Microsecond,
		time.Millisecond,
		3 * time.Millisecond,
	}

	for _, d := range observations {
		m.Observe(MetricDecodeLatency, d)
	}

	snap := m.Snapshot()
	buckets := snap.Histograms[MetricDecodeLatency]
	if len(buckets) != 8 {
		t.Fatalf("expected 8 buckets, got %d", len(buckets))
	}
	for i, v := range buckets {
		if v != 1 {
			t.Fatalf("bucket %d expected 1, got %d", i, v)
		}
	}
}

func TestMetricsObserveIgnoresCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})
	m.Observe(MetricEncodeSuccess, time.Microsecond)

	if _, ok := m.Snapshot().Histograms[MetricEncodeSuccess]; ok {
		t.Fatal("counters must not carry histograms")
	}
}

func TestMetricsSnapshotConsistency(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})
	m.Inc(MetricDecodeSuccess)
	m.Inc(MetricDecodeFailure)
	m.Inc(MetricDecodeFailure)
	m.Observe(MetricDecodeLatency, 2*time.Microsecond)

	snap := m.Snapshot()

	if snap.Counters[MetricDecodeSuccess] != 1 {
		t.Fatalf("expected MetricDecodeSuccess=1 got %d", snap.Counters[MetricDecodeSuccess])
	}
	if snap.Counters[MetricDecodeFailure] != 2 {
		t.Fatalf("expected MetricDecodeFailure=2 got %d", snap.Counters[MetricDecodeFailure])
	}
	if len(snap.Histograms[MetricDecodeLatency]) != 8 {
		t.Fatalf("expected histogram length 8")
	}
	if snap.Histograms[MetricDecodeLatency][0] != 1 {
		t.Fatalf("expected first histogram bucket=1 got %d", snap.Histograms[MetricDecodeLatency][0])
	}
}

func TestDecodeRecordsLatencyHistogram(t *testing.T) {
	engine := newTestEngine(t, func(cfg *Config) {
		cfg.Metrics.Enabled = true
		cfg.Metrics.EnableLatencyHistograms = true
	})

	token, err := engine.Encode(map[string]value.Value{"sub": value.String("alice")})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := engine.Decode(token); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if _, err := engine.Decode("garbage"); err == nil {
		t.Fatal("expected garbage to fail")
	}

	var total uint64
	for _, v := range engine.MetricsSnapshot().Histograms[MetricDecodeLatency] {
		total += v
	}
	if total != 2 {
		t.Fatalf("expected 2 latency observations, got %d", total)
	}
}
