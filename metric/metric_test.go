package metric

import (
	"context"
	"testing"

	"github.com/logtide/collector/types"

	"github.com/stretchr/testify/assert"
)

func TestClientCollectsData(t *testing.T) {
	m := NewClient(&types.Config{
		HostName: "test-host",
		Metrics:  types.MetricsConfig{Prefix: "logtide"},
	})

	m.ConnOpened(1)
	m.ConnOpened(2)
	m.RecordReceived("INFO", 128)
	m.RecordReceived("ERROR", 64)
	m.DecodeFailure()
	m.FrameDropped()
	m.ConnClosed(1)

	m.Lock()
	defer m.Unlock()
	assert.Equal(t, float64(1), m.data["connections_active"])
	assert.Equal(t, float64(2), m.data["records"])
	assert.Equal(t, float64(192), m.data["bytes_received"])
	assert.Equal(t, float64(1), m.data["decode_failures"])
	assert.Equal(t, float64(1), m.data["frames_dropped"])
}

func TestSendWithoutTransfer(t *testing.T) {
	m := &Client{data: map[string]float64{"records": 1}}
	// no statsd address configured, Send is a no-op
	assert.NoError(t, m.Send(context.Background()))
}
