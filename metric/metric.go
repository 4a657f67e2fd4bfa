package metric

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/logtide/collector/types"
	"github.com/logtide/collector/utils"

	statsdlib "github.com/CMGS/statsd"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Client combine statsd and prometheus
type Client struct {
	sync.Mutex
	statsd       string
	prefix       string
	statsdClient *statsdlib.Client
	data         map[string]float64

	connsActive    prometheus.Gauge
	connsTotal     prometheus.Counter
	recordsTotal   *prometheus.CounterVec
	decodeFailures prometheus.Counter
	framesDropped  prometheus.Counter
	bytesReceived  prometheus.Counter

	hostCPUUsage prometheus.Gauge
	hostMemUsage prometheus.Gauge
	hostLoad1    prometheus.Gauge
}

// NewClient new a metrics client
func NewClient(config *types.Config) *Client {
	labels := map[string]string{"hostname": config.HostName}

	connsActive := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "logtide_connections_active",
		Help:        "currently open client connections.",
		ConstLabels: labels,
	})
	connsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "logtide_connections_total",
		Help:        "accepted client connections.",
		ConstLabels: labels,
	})
	recordsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "logtide_records_total",
		Help:        "records dispatched to the sink router.",
		ConstLabels: labels,
	}, []string{"level"})
	decodeFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "logtide_decode_failures_total",
		Help:        "payloads that could not be deserialized.",
		ConstLabels: labels,
	})
	framesDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "logtide_frames_dropped_total",
		Help:        "frames dropped by the size guard.",
		ConstLabels: labels,
	})
	bytesReceived := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "logtide_bytes_received_total",
		Help:        "payload bytes pulled off the wire.",
		ConstLabels: labels,
	})
	hostCPUUsage := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "logtide_host_cpu_usage",
		Help:        "cpu usage in host view.",
		ConstLabels: labels,
	})
	hostMemUsage := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "logtide_host_mem_usage",
		Help:        "memory used percent in host view.",
		ConstLabels: labels,
	})
	hostLoad1 := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "logtide_host_load1",
		Help:        "1 minute load average.",
		ConstLabels: labels,
	})

	prometheus.MustRegister(
		connsActive, connsTotal, recordsTotal,
		decodeFailures, framesDropped, bytesReceived,
		hostCPUUsage, hostMemUsage, hostLoad1,
	)

	statsd := ""
	if len(config.Metrics.Transfers) > 0 {
		statsd = config.Metrics.Transfers[0]
	}

	return &Client{
		statsd: statsd,
		prefix: fmt.Sprintf("%s.%s", config.Metrics.Prefix, config.HostName),
		data:   map[string]float64{},

		connsActive:    connsActive,
		connsTotal:     connsTotal,
		recordsTotal:   recordsTotal,
		decodeFailures: decodeFailures,
		framesDropped:  framesDropped,
		bytesReceived:  bytesReceived,

		hostCPUUsage: hostCPUUsage,
		hostMemUsage: hostMemUsage,
		hostLoad1:    hostLoad1,
	}
}

// ConnOpened .
func (m *Client) ConnOpened(active int) {
	m.connsTotal.Inc()
	m.connsActive.Set(float64(active))
	m.set("connections_active", float64(active))
}

// ConnClosed .
func (m *Client) ConnClosed(active int) {
	m.connsActive.Set(float64(active))
	m.set("connections_active", float64(active))
}

// RecordReceived .
func (m *Client) RecordReceived(levelName string, payloadSize int) {
	m.recordsTotal.WithLabelValues(levelName).Inc()
	m.bytesReceived.Add(float64(payloadSize))
	m.add("records", 1)
	m.add("bytes_received", float64(payloadSize))
}

// DecodeFailure .
func (m *Client) DecodeFailure() {
	m.decodeFailures.Inc()
	m.add("decode_failures", 1)
}

// FrameDropped .
func (m *Client) FrameDropped() {
	m.framesDropped.Inc()
	m.add("frames_dropped", 1)
}

func (m *Client) set(key string, value float64) {
	m.Lock()
	defer m.Unlock()
	m.data[key] = value
}

func (m *Client) add(key string, delta float64) {
	m.Lock()
	defer m.Unlock()
	m.data[key] += delta
}

// Run reports host stats and pushes collected values to statsd
// every Metrics.Step seconds, blocks until ctx is done.
func (m *Client) Run(ctx context.Context, step time.Duration) {
	log.Infof("[metric] reporting starts, step %v", step)
	defer log.Info("[metric] reporting stops")

	tick := time.NewTicker(step)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			m.collectHost()
			if err := m.Send(ctx); err != nil {
				log.Errorf("[metric] send failed: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Lazy connecting
func (m *Client) checkConn(ctx context.Context) error {
	if m.statsdClient != nil {
		return nil
	}
	// We needn't try to renew/reconnect because of only supporting UDP protocol now
	return utils.BackoffRetry(ctx, 3, func() (err error) {
		m.statsdClient, err = statsdlib.New(m.statsd, statsdlib.WithErrorHandler(func(err error) {
			log.Errorf("[statsd] Sending statsd failed: %v", err)
		}))
		return err
	})
}

// Send to statsd
func (m *Client) Send(ctx context.Context) error {
	if m.statsd == "" {
		return nil
	}
	if err := m.checkConn(ctx); err != nil {
		return err
	}
	m.Lock()
	defer m.Unlock()
	for k, v := range m.data {
		key := fmt.Sprintf("%s.%s", m.prefix, k)
		m.statsdClient.Gauge(key, v)
		delete(m.data, k)
	}
	return nil
}
