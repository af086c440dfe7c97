// v1
// internal/metrics/metrics.go
package metrics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type counter struct {
	mu    sync.Mutex
	value uint64
}

func newCounter() *counter {
	return &counter{}
}

func (c *counter) inc() {
	c.mu.Lock()
	c.value++
	c.mu.Unlock()
}

func (c *counter) snapshot() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

type counterVec struct {
	mu     sync.RWMutex
	values map[string]uint64
}

func newCounterVec() *counterVec {
	return &counterVec{values: make(map[string]uint64)}
}

func (c *counterVec) inc(label string) {
	c.mu.Lock()
	c.values[label]++
	c.mu.Unlock()
}

func (c *counterVec) snapshot() map[string]uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]uint64, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.RWMutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(edges []float64) *histogram {
	sorted := append([]float64(nil), edges...)
	sort.Float64s(sorted)
	return &histogram{buckets: sorted, counts: make([]uint64, len(sorted))}
}

func (h *histogram) observe(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if v < 0 {
		v = 0
	}
	h.mu.Lock()
	for i, upper := range h.buckets {
		if v <= upper {
			h.counts[i]++
			break
		}
	}
	h.count++
	h.sum += v
	h.mu.Unlock()
}

func (h *histogram) snapshot() (buckets []float64, counts []uint64, sum float64, count uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	buckets = append([]float64(nil), h.buckets...)
	counts = append([]uint64(nil), h.counts...)
	sum = h.sum
	count = h.count
	return
}

type gauge struct {
	mu    sync.Mutex
	value float64
}

func newGauge() *gauge {
	return &gauge{}
}

func (g *gauge) set(v float64) {
	g.mu.Lock()
	g.value = v
	g.mu.Unlock()
}

func (g *gauge) snapshot() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}

var (
	metricsMessagesTotal   = newCounter()
	metricsDecodeOKTotal   = newCounter()
	metricsDecodeDropTotal = newCounterVec()
	catalogBuildings       = newGauge()
	catalogCategories      = newGauge()
	leaderboardRequests    = newCounterVec()
	leaderboardLatencies   = newHistogram([]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2})
)

// Drop reason identifiers exported so ingest logic can increment counters
// without stringly-typed constants.
const (
	DropReasonMissingPlayer = "missing_player"
	DropReasonJSONError     = "json_error"
)

// IncMetricsMessage increments the total count of consumed snapshot messages.
func IncMetricsMessage() {
	metricsMessagesTotal.inc()
}

// IncMetricsDecodeOK records a successfully decoded snapshot that entered
// the participant store.
func IncMetricsDecodeOK() {
	metricsDecodeOKTotal.inc()
}

// IncMetricsDecodeDrop increments the classified drop counter for snapshot
// payloads that failed decoding.
func IncMetricsDecodeDrop(reason string) {
	if strings.TrimSpace(reason) == "" {
		reason = "unknown"
	}
	metricsDecodeDropTotal.inc(reason)
}

// SetCatalogSize records the building and category counts of the catalog
// built at boot so operators can confirm a content refresh landed.
func SetCatalogSize(buildings, categories int) {
	catalogBuildings.set(float64(buildings))
	catalogCategories.set(float64(categories))
}

// ObserveLeaderboardRequest stores the status distribution and latency for
// leaderboard HTTP calls.
func ObserveLeaderboardRequest(status int, duration time.Duration) {
	leaderboardRequests.inc(strconv.Itoa(status))
	leaderboardLatencies.observe(duration.Seconds())
}

// Render exports all registered metrics in Prometheus exposition format.
func Render() string {
	var b strings.Builder

	writeMetricHeader(&b, "commons_metrics_messages_consumed_total", "counter")
	writeSimpleCounter(&b, "commons_metrics_messages_consumed_total", metricsMessagesTotal.snapshot())
	b.WriteByte('\n')

	writeMetricHeader(&b, "commons_metrics_decode_ok_total", "counter")
	writeSimpleCounter(&b, "commons_metrics_decode_ok_total", metricsDecodeOKTotal.snapshot())
	b.WriteByte('\n')

	writeMetricHeader(&b, "commons_metrics_decode_drop_total", "counter")
	writeCounter(&b, "commons_metrics_decode_drop_total", "reason", metricsDecodeDropTotal.snapshot())
	b.WriteByte('\n')

	writeMetricHeader(&b, "commons_catalog_buildings", "gauge")
	writeGauge(&b, "commons_catalog_buildings", catalogBuildings.snapshot())
	b.WriteByte('\n')

	writeMetricHeader(&b, "commons_catalog_categories", "gauge")
	writeGauge(&b, "commons_catalog_categories", catalogCategories.snapshot())
	b.WriteByte('\n')

	writeMetricHeader(&b, "commons_leaderboard_requests_total", "counter")
	writeCounter(&b, "commons_leaderboard_requests_total", "status", leaderboardRequests.snapshot())
	b.WriteByte('\n')

	writeMetricHeader(&b, "commons_leaderboard_request_duration_seconds", "histogram")
	writeHistogram(&b, "commons_leaderboard_request_duration_seconds", leaderboardLatencies)
	b.WriteByte('\n')

	return b.String()
}

func writeMetricHeader(b *strings.Builder, name, typ string) {
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(typ)
	b.WriteByte('\n')
}

func writeSimpleCounter(b *strings.Builder, name string, value uint64) {
	fmt.Fprintf(b, "%s{} %d\n", name, value)
}

func writeGauge(b *strings.Builder, name string, value float64) {
	fmt.Fprintf(b, "%s{} %g\n", name, value)
}

func writeCounter(b *strings.Builder, name, label string, values map[string]uint64) {
	if len(values) == 0 {
		fmt.Fprintf(b, "%s{} %d\n", name, 0)
		return
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(b, "%s{%s=\"%s\"} %d\n", name, label, escapeLabel(key), values[key])
	}
}

func writeHistogram(b *strings.Builder, name string, h *histogram) {
	buckets, counts, sum, count := h.snapshot()
	if len(buckets) == 0 {
		fmt.Fprintf(b, "%s_bucket{le=\"+Inf\"} %d\n", name, count)
		fmt.Fprintf(b, "%s_sum %f\n", name, sum)
		fmt.Fprintf(b, "%s_count %d\n", name, count)
		return
	}
	var cumulative uint64
	for i, upper := range buckets {
		cumulative += counts[i]
		fmt.Fprintf(b, "%s_bucket{le=\"%g\"} %d\n", name, upper, cumulative)
	}
	fmt.Fprintf(b, "%s_bucket{le=\"+Inf\"} %d\n", name, count)
	fmt.Fprintf(b, "%s_sum %f\n", name, sum)
	fmt.Fprintf(b, "%s_count %d\n", name, count)
}

func escapeLabel(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "\n", "\\n", "\"", "\\\"")
	return replacer.Replace(v)
}
