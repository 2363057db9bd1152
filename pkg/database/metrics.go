package database

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	redisCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_commands_total",
			Help: "Total number of Redis commands by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	redisCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_command_duration_seconds",
			Help:    "Redis command duration in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

func observeCommand(operation string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	redisCommandsTotal.WithLabelValues(operation, status).Inc()
	redisCommandDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// PoolStatter is satisfied by *redis.Client.
type PoolStatter interface {
	PoolStats() *redis.PoolStats
}

// PoolStatsCollector implements prometheus.Collector for go-redis connection
// pool metrics.
type PoolStatsCollector struct {
	client  PoolStatter
	service string

	hits       *prometheus.Desc
	misses     *prometheus.Desc
	timeouts   *prometheus.Desc
	totalConns *prometheus.Desc
	idleConns  *prometheus.Desc
	staleConns *prometheus.Desc
}

// NewPoolStatsCollector creates a new Prometheus collector that exports
// go-redis connection pool statistics as metrics.
func NewPoolStatsCollector(client PoolStatter, service string) *PoolStatsCollector {
	labels := []string{"service"}
	return &PoolStatsCollector{
		client:  client,
		service: service,
		hits: prometheus.NewDesc(
			"redis_pool_hits_total",
			"Number of times a free connection was found in the pool",
			labels, nil,
		),
		misses: prometheus.NewDesc(
			"redis_pool_misses_total",
			"Number of times a free connection was not found in the pool",
			labels, nil,
		),
		timeouts: prometheus.NewDesc(
			"redis_pool_timeouts_total",
			"Number of times a wait for a connection timed out",
			labels, nil,
		),
		totalConns: prometheus.NewDesc(
			"redis_pool_total_connections",
			"Total number of connections in the pool",
			labels, nil,
		),
		idleConns: prometheus.NewDesc(
			"redis_pool_idle_connections",
			"Number of idle connections in the pool",
			labels, nil,
		),
		staleConns: prometheus.NewDesc(
			"redis_pool_stale_connections_total",
			"Number of stale connections removed from the pool",
			labels, nil,
		),
	}
}

// Describe sends the descriptors of all metrics to the provided channel.
func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.timeouts
	ch <- c.totalConns
	ch <- c.idleConns
	ch <- c.staleConns
}

// Collect reads current pool statistics and sends them as Prometheus metrics.
func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.client.PoolStats()

	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stat.Hits), c.service)
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stat.Misses), c.service)
	ch <- prometheus.MustNewConstMetric(c.timeouts, prometheus.CounterValue, float64(stat.Timeouts), c.service)
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(stat.TotalConns), c.service)
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(stat.IdleConns), c.service)
	ch <- prometheus.MustNewConstMetric(c.staleConns, prometheus.CounterValue, float64(stat.StaleConns), c.service)
}

// RegisterPoolMetrics creates and registers a go-redis pool metrics collector
// with the given registerer. Registering the same service twice is an error.
func RegisterPoolMetrics(reg prometheus.Registerer, client PoolStatter, service string) error {
	return reg.Register(NewPoolStatsCollector(client, service))
}
