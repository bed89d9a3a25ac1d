// Package tablemetrics exports Prometheus metrics
// about the render passes of rowtable tables.
package tablemetrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	rowtable "github.com/domonda/go-rowtable"
)

var (
	_ rowtable.RenderObserver = new(Collectors)
	_ prometheus.Collector    = new(Collectors)
)

// DefaultDurationBuckets of the render pass duration histogram in seconds.
var DefaultDurationBuckets = prometheus.ExponentialBuckets(0.0001, 2, 16)

// Collectors counts render passes and view edits per table.
// Pass it to rowtable.WithObserver and register it
// with a prometheus.Registerer.
type Collectors struct {
	passes   *prometheus.CounterVec
	failures *prometheus.CounterVec
	views    *prometheus.CounterVec
	rows     *prometheus.GaugeVec
	duration *prometheus.HistogramVec
}

// NewCollectors returns Collectors with metric names prefixed by namespace.
// Nil buckets use DefaultDurationBuckets.
func NewCollectors(namespace string, buckets []float64) *Collectors {
	if buckets == nil {
		buckets = DefaultDurationBuckets
	}
	return &Collectors{
		passes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "render_passes_total",
				Help:      "Counter for the completed render passes.",
			},
			[]string{"table"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "render_pass_failures_total",
				Help:      "Counter for the failed render passes by view operation.",
			},
			[]string{"table", "op"},
		),
		views: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "view_edits_total",
				Help:      "Counter for the view edits by operation.",
			},
			[]string{"table", "op"},
		),
		rows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "rendered_rows",
				Help:      "Gauge for the rows of the last completed render pass.",
			},
			[]string{"table"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_pass_duration_seconds",
				Help:      "Histogram for the duration of completed render passes.",
				Buckets:   buckets,
			},
			[]string{"table"},
		),
	}
}

// RegisterAll registers c and logs instead of returning errors.
func (c *Collectors) RegisterAll(register prometheus.Registerer, logger logrus.FieldLogger) {
	if register == nil {
		return
	}
	if err := register.Register(c); err != nil {
		logger.WithError(err).Error("Table metrics failed to register on prometheus")
	}
}

func (c *Collectors) UnregisterAll(register prometheus.Registerer) {
	if register == nil {
		return
	}
	register.Unregister(c)
}

func (c *Collectors) RenderPassCompleted(table string, stats rowtable.RenderStats) {
	c.passes.WithLabelValues(table).Inc()
	c.views.WithLabelValues(table, "create").Add(float64(stats.Created))
	c.views.WithLabelValues(table, "destroy").Add(float64(stats.Destroyed))
	c.views.WithLabelValues(table, "move").Add(float64(stats.Moved))
	c.views.WithLabelValues(table, "update").Add(float64(stats.Updated))
	c.rows.WithLabelValues(table).Set(float64(stats.Rows))
	c.duration.WithLabelValues(table).Observe(stats.Duration.Seconds())
}

func (c *Collectors) RenderPassFailed(table string, err error) {
	op := "other"
	var bindingErr *rowtable.ViewBindingError
	if errors.As(err, &bindingErr) {
		op = bindingErr.Op
	}
	c.failures.WithLabelValues(table, op).Inc()
}

func (c *Collectors) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range c.toList() {
		collector.Describe(ch)
	}
}

func (c *Collectors) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range c.toList() {
		collector.Collect(ch)
	}
}

func (c *Collectors) toList() []prometheus.Collector {
	return []prometheus.Collector{
		c.passes,
		c.failures,
		c.views,
		c.rows,
		c.duration,
	}
}
