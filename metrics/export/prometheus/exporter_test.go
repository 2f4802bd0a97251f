package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goToken "github.com/MrEthical07/goToken"
	"github.com/MrEthical07/goToken/value"
)

type fakeSource struct {
	snapshot goToken.MetricsSnapshot
	dropped  uint64
	keys     []string
}

func (f fakeSource) MetricsSnapshot() goToken.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                     { return f.dropped }
func (f fakeSource) KeyIDs() []string                         { return f.keys }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: goToken.MetricsSnapshot{
			Counters:   map[goToken.MetricID]uint64{},
			Histograms: map[goToken.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderIncludesCounterHistogramAndRing(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: goToken.MetricsSnapshot{
			Counters: map[goToken.MetricID]uint64{
				goToken.MetricDecodeSuccess:     7,
				goToken.MetricDecodeKeyFallback: 2,
			},
			Histograms: map[goToken.MetricID][]uint64{
				goToken.MetricDecodeLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
		keys:    []string{"new", "old"},
	})

	out := exp.Render()
	for _, want := range []string{
		"gotoken_decode_success_total 7",
		"gotoken_decode_key_fallback_total 2",
		"gotoken_encode_failure_total 0",
		`gotoken_decode_latency_seconds_bucket{le="0.00001"} 1`,
		`gotoken_decode_latency_seconds_bucket{le="+Inf"} 36`,
		"gotoken_decode_latency_seconds_count 36",
		"gotoken_audit_dropped_total 2",
		"# TYPE gotoken_verify_keys gauge",
		"gotoken_verify_keys 2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestRenderSkipsDisabledHistogram(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: goToken.MetricsSnapshot{
			Counters:   map[goToken.MetricID]uint64{goToken.MetricEncodeSuccess: 1},
			Histograms: map[goToken.MetricID][]uint64{},
		},
	})
	if out := exp.Render(); strings.Contains(out, "latency") {
		t.Fatalf("expected no histogram when latency is off, got:\n%s", out)
	}
}

func TestExporterReadsEngine(t *testing.T) {
	cfg := goToken.DefaultConfig()
	cfg.Signing.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.Metrics.Enabled = true
	engine, err := goToken.NewBuilder().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	token, err := engine.Encode(map[string]value.Value{"sub": value.String("alice")})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := engine.Decode(token); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	out := NewExporter(engine).Render()
	if !strings.Contains(out, "gotoken_encode_success_total 1") || !strings.Contains(out, "gotoken_decode_success_total 1") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: goToken.MetricsSnapshot{
			Counters:   map[goToken.MetricID]uint64{goToken.MetricDecodeSuccess: 1},
			Histograms: map[goToken.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: goToken.MetricsSnapshot{
			Counters: map[goToken.MetricID]uint64{
				goToken.MetricEncodeSuccess:     1000,
				goToken.MetricDecodeSuccess:     800,
				goToken.MetricDecodeFailure:     40,
				goToken.MetricDecodeExpired:     30,
				goToken.MetricDecodeKeyFallback: 12,
			},
			Histograms: map[goToken.MetricID][]uint64{
				goToken.MetricDecodeLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
		keys: []string{"a", "b"},
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
