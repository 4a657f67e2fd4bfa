package server

import (
	"net"
	"time"

	"github.com/logtide/collector/codec"
	"github.com/logtide/collector/common"
	"github.com/logtide/collector/metric"
	"github.com/logtide/collector/payload"
	"github.com/logtide/collector/sink"
	"github.com/logtide/collector/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// exit reasons kept for the status API
const (
	reasonEOF      = "eof"
	reasonForced   = "forced"
	reasonOversize = "oversize frame"
)

// worker owns one accepted connection and its read/decode/dispatch loop.
// Nothing else reads or writes the socket, the server only keeps a handle
// for force-shutdown and join bookkeeping.
type worker struct {
	id     string
	conn   net.Conn
	peer   string
	reader *codec.FrameReader

	deserializer payload.Deserializer
	sink         sink.Sink
	metrics      *metric.Client

	forced *utils.AtomicBool
	done   chan struct{}

	// mutated only by the worker goroutine, read by the server after done
	connectedAt    time.Time
	records        uint64
	bytes          uint64
	decodeFailures uint64
	reason         string
}

func newWorker(conn net.Conn, pollTimeout time.Duration, maxFrameSize int64, deserializer payload.Deserializer, s sink.Sink, metrics *metric.Client) *worker {
	forced := &utils.AtomicBool{}
	return &worker{
		id:           uuid.NewString(),
		conn:         conn,
		peer:         conn.RemoteAddr().String(),
		reader:       codec.NewFrameReader(conn, pollTimeout, maxFrameSize, forced),
		deserializer: deserializer,
		sink:         s,
		metrics:      metrics,
		forced:       forced,
		done:         make(chan struct{}),
		connectedAt:  time.Now(),
	}
}

func (w *worker) start() {
	go w.run()
}

// forceShutdown makes the worker abandon its read loop, it wakes within
// one poll interval even when the peer never sends another byte.
func (w *worker) forceShutdown() {
	w.forced.Set()
}

func (w *worker) finished() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

func (w *worker) run() {
	defer close(w.done)
	defer w.release()

	log.Debugf("[worker] %s serving %s", w.id, w.peer)
	defer func() {
		log.Debugf("[worker] %s for %s exits: %s", w.id, w.peer, w.reason)
	}()

	for {
		if w.forced.Bool() {
			w.reason = reasonForced
			return
		}

		data, err := w.reader.Next()
		switch err {
		case nil:
		case common.ErrConnClosed:
			// peer closed between or inside a frame, both are normal EOF
			w.reason = reasonEOF
			return
		case common.ErrForceShutdown:
			w.reason = reasonForced
			return
		case common.ErrFrameTooLarge:
			log.Errorf("[worker] %s sent an oversized frame, dropping connection", w.peer)
			if w.metrics != nil {
				w.metrics.FrameDropped()
			}
			w.reason = reasonOversize
			return
		default:
			w.reason = err.Error()
			return
		}

		record, err := w.deserializer.Deserialize(data)
		if err != nil {
			// frame-local failure, framing is still in sync so keep reading
			log.Errorf("[worker] undecodable payload from %s (%d bytes): %v", w.peer, len(data), err)
			w.decodeFailures++
			if w.metrics != nil {
				w.metrics.DecodeFailure()
			}
			continue
		}

		_ = w.sink.Handle(record)
		w.records++
		w.bytes += uint64(len(data))
		if w.metrics != nil {
			w.metrics.RecordReceived(record.LevelString(), len(data))
		}
	}
}

// release shuts the socket down in both directions and closes it.
// Runs exactly once, on every exit path.
func (w *worker) release() {
	if tc, ok := w.conn.(*net.TCPConn); ok {
		_ = tc.CloseRead()
		_ = tc.CloseWrite()
	}
	_ = w.conn.Close()
}
