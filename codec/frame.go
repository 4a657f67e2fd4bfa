package codec

import (
	"encoding/binary"
	"net"
	"time"

	"github.com/logtide/collector/common"
	"github.com/logtide/collector/utils"
)

// FrameReader pulls length-prefixed payloads off one connection.
// Reads run with short deadlines so the force flag is observed even
// while a peer is idle and will never send another byte.
type FrameReader struct {
	conn         net.Conn
	pollTimeout  time.Duration
	maxFrameSize int64
	forced       *utils.AtomicBool

	prefix [common.FramePrefixLength]byte
}

// NewFrameReader .
func NewFrameReader(conn net.Conn, pollTimeout time.Duration, maxFrameSize int64, forced *utils.AtomicBool) *FrameReader {
	if pollTimeout <= 0 {
		pollTimeout = common.DefaultPollTimeout
	}
	if maxFrameSize <= 0 {
		maxFrameSize = common.DefaultMaxFrameSize
	}
	return &FrameReader{
		conn:         conn,
		pollTimeout:  pollTimeout,
		maxFrameSize: maxFrameSize,
		forced:       forced,
	}
}

// Next reads one complete frame and returns its payload.
// Returns common.ErrConnClosed when the peer closes between or inside
// frames, common.ErrForceShutdown when the force flag interrupts a read,
// and common.ErrFrameTooLarge when the prefix claims more than the guard.
// A partial frame never yields a payload.
func (r *FrameReader) Next() ([]byte, error) {
	if err := r.readFull(r.prefix[:]); err != nil {
		return nil, err
	}

	size := binary.BigEndian.Uint32(r.prefix[:])
	if int64(size) > r.maxFrameSize {
		return nil, common.ErrFrameTooLarge
	}

	payload := make([]byte, size)
	if err := r.readFull(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// readFull accumulates exactly len(buf) bytes, waking up every
// pollTimeout to re-check the force flag.
func (r *FrameReader) readFull(buf []byte) error {
	read := 0
	for read < len(buf) {
		if r.forced.Bool() {
			return common.ErrForceShutdown
		}
		if err := r.conn.SetReadDeadline(time.Now().Add(r.pollTimeout)); err != nil {
			return common.ErrConnClosed
		}
		n, err := r.conn.Read(buf[read:])
		read += n
		if err == nil {
			continue
		}
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			continue
		}
		// EOF and socket level failures end the connection the same way
		return common.ErrConnClosed
	}
	return nil
}
