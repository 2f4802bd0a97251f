package internaldefs

import (
	goToken "github.com/MrEthical07/goToken"
)

// CounterDef names one engine counter.
type CounterDef struct {
	ID   goToken.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram.
type HistogramDef struct {
	ID   goToken.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in exposition order.
var CounterDefs = []CounterDef{
	{ID: goToken.MetricEncodeSuccess, Name: "gotoken_encode_success_total", Help: "Tokens signed."},
	{ID: goToken.MetricEncodeFailure, Name: "gotoken_encode_failure_total", Help: "Encode calls rejected."},
	{ID: goToken.MetricDecodeSuccess, Name: "gotoken_decode_success_total", Help: "Tokens accepted."},
	{ID: goToken.MetricDecodeFailure, Name: "gotoken_decode_failure_total", Help: "Tokens rejected."},
	{ID: goToken.MetricDecodeKeyFallback, Name: "gotoken_decode_key_fallback_total", Help: "Tokens accepted by a key other than the first in the ring."},
	{ID: goToken.MetricDecodeExpired, Name: "gotoken_decode_expired_total", Help: "Tokens rejected as expired."},
	{ID: goToken.MetricDecodeSignatureInvalid, Name: "gotoken_decode_signature_invalid_total", Help: "Tokens rejected for an invalid signature."},
	{ID: goToken.MetricDecodeMissingClaim, Name: "gotoken_decode_missing_claim_total", Help: "Tokens rejected for a missing required claim."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goToken.MetricDecodeLatency, Name: "gotoken_decode_latency_seconds", Help: "Decode latency histogram."},
}

// HistogramBounds are the "le" labels, in seconds, of the engine's latency buckets.
var HistogramBounds = []string{
	"0.00001",
	"0.000025",
	"0.00005",
	"0.0001",
	"0.00025",
	"0.0005",
	"0.001",
	"+Inf",
}

// HistogramBoundSuffix names each bucket in instrument names.
var HistogramBoundSuffix = []string{
	"10us",
	"25us",
	"50us",
	"100us",
	"250us",
	"500us",
	"1ms",
	"inf",
}

// NormalizeBuckets pads or truncates raw to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
