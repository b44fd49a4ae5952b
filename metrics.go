package galdex

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordResolve is called after each filter resolution.
	// matches is the size of the resolved ID list.
	RecordResolve(matches int, duration time.Duration, err error)

	// RecordPage is called after each served page.
	// records is the number of records returned, dropped the number of
	// sliced IDs whose record could not be resolved.
	RecordPage(records, dropped int, duration time.Duration)

	// RecordAssetURL is called after each delivery-URL computation.
	RecordAssetURL(duration time.Duration)

	// RecordSuggest is called after each suggestion lookup.
	RecordSuggest(count int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordResolve(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordPage(int, int, time.Duration)      {}
func (NoopMetricsCollector) RecordAssetURL(time.Duration)            {}
func (NoopMetricsCollector) RecordSuggest(int, time.Duration)        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ResolveCount      atomic.Int64
	ResolveErrors     atomic.Int64
	ResolveTotalNanos atomic.Int64
	PageCount         atomic.Int64
	PageRecords       atomic.Int64
	PageDropped       atomic.Int64
	AssetURLCount     atomic.Int64
	SuggestCount      atomic.Int64
	SuggestResults    atomic.Int64
}

func (m *BasicMetricsCollector) RecordResolve(matches int, d time.Duration, err error) {
	m.ResolveCount.Add(1)
	m.ResolveTotalNanos.Add(int64(d))
	if err != nil {
		m.ResolveErrors.Add(1)
	}
}

func (m *BasicMetricsCollector) RecordPage(records, dropped int, d time.Duration) {
	m.PageCount.Add(1)
	m.PageRecords.Add(int64(records))
	m.PageDropped.Add(int64(dropped))
}

func (m *BasicMetricsCollector) RecordAssetURL(time.Duration) {
	m.AssetURLCount.Add(1)
}

func (m *BasicMetricsCollector) RecordSuggest(count int, d time.Duration) {
	m.SuggestCount.Add(1)
	m.SuggestResults.Add(int64(count))
}
