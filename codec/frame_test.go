package codec

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/logtide/collector/common"
	"github.com/logtide/collector/utils"

	"github.com/stretchr/testify/assert"
)

func frame(payload []byte) []byte {
	buf := make([]byte, common.FramePrefixLength+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[common.FramePrefixLength:], payload)
	return buf
}

func pipePair(t *testing.T) (net.Conn, net.Conn) {
	client, server := net.Pipe()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client, server
}

func TestFrameRoundTrip(t *testing.T) {
	client, server := pipePair(t)
	reader := NewFrameReader(server, 100*time.Millisecond, 0, &utils.AtomicBool{})

	go func() {
		client.Write(frame([]byte("hello")))
		client.Write(frame([]byte{}))
		client.Write(frame([]byte("world")))
		client.Close()
	}()

	payload, err := reader.Next()
	assert.NoError(t, err)
	assert.Equal(t, []byte("hello"), payload)

	payload, err = reader.Next()
	assert.NoError(t, err)
	assert.Len(t, payload, 0)

	payload, err = reader.Next()
	assert.NoError(t, err)
	assert.Equal(t, []byte("world"), payload)

	_, err = reader.Next()
	assert.Equal(t, common.ErrConnClosed, err)
}

func TestTruncatedPrefix(t *testing.T) {
	client, server := pipePair(t)
	reader := NewFrameReader(server, 100*time.Millisecond, 0, &utils.AtomicBool{})

	go func() {
		client.Write([]byte{0x00, 0x00})
		client.Close()
	}()

	_, err := reader.Next()
	assert.Equal(t, common.ErrConnClosed, err)
}

func TestTruncatedPayload(t *testing.T) {
	client, server := pipePair(t)
	reader := NewFrameReader(server, 100*time.Millisecond, 0, &utils.AtomicBool{})

	go func() {
		buf := frame([]byte("full payload"))
		client.Write(buf[:len(buf)-3])
		client.Close()
	}()

	_, err := reader.Next()
	assert.Equal(t, common.ErrConnClosed, err)
}

func TestForceInterruptsIdleRead(t *testing.T) {
	_, server := pipePair(t)
	forced := &utils.AtomicBool{}
	reader := NewFrameReader(server, 50*time.Millisecond, 0, forced)

	done := make(chan error, 1)
	go func() {
		_, err := reader.Next()
		done <- err
	}()

	forced.Set()
	select {
	case err := <-done:
		assert.Equal(t, common.ErrForceShutdown, err)
	case <-time.After(time.Second):
		t.Fatal("reader not interrupted by force flag")
	}
}

func TestFrameTooLarge(t *testing.T) {
	client, server := pipePair(t)
	reader := NewFrameReader(server, 100*time.Millisecond, 8, &utils.AtomicBool{})

	go client.Write(frame([]byte("way more than eight bytes")))

	_, err := reader.Next()
	assert.Equal(t, common.ErrFrameTooLarge, err)
}
