// Package prometheus renders engine metrics in the Prometheus text exposition
// format.
//
// [NewExporter] wraps a goToken.Engine and serves counters named
// gotoken_*_total, the decode latency histogram gotoken_decode_latency_seconds
// and a gotoken_verify_keys gauge with the size of the key ring. Nothing is
// registered globally; callers mount [Exporter.Handler].
package prometheus
