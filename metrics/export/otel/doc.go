// Package otel binds engine metrics to OpenTelemetry observable instruments.
//
// [NewExporter] registers one Int64ObservableCounter per engine counter, one
// Int64ObservableGauge per latency bucket and a gauge for the key ring size. A
// single callback reads the engine snapshot on each collection. The caller owns
// the MeterProvider.
package otel
