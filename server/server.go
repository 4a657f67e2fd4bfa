package server

import (
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/logtide/collector/common"
	"github.com/logtide/collector/metric"
	"github.com/logtide/collector/payload"
	"github.com/logtide/collector/sink"
	"github.com/logtide/collector/types"
	"github.com/logtide/collector/utils"

	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

const closedConnTTL = 10 * time.Minute

// Server owns the listening socket and every connection worker spawned
// from it. Shutdown is two-staged: graceful stops accepting and lets
// workers drain to EOF, forced additionally interrupts every live read.
// Both levels are monotonic for the lifetime of one run.
type Server struct {
	config       *types.Config
	deserializer payload.Deserializer
	sink         sink.Sink
	metrics      *metric.Client

	listener *net.TCPListener

	shutdown utils.AtomicBool
	forced   utils.AtomicBool
	started  utils.AtomicBool
	alive    utils.AtomicBool

	forceOnce sync.Once
	forceC    chan struct{}
	done      chan struct{}

	// workers is touched only by the run goroutine
	workers []*worker

	// stats readable from other goroutines (status API)
	statsMutex  sync.Mutex
	activeConns int
	accepted    uint64
	closedConns *gocache.Cache
}

// New .
func New(config *types.Config, deserializer payload.Deserializer, s sink.Sink, metrics *metric.Client) *Server {
	return &Server{
		config:       config,
		deserializer: deserializer,
		sink:         s,
		metrics:      metrics,
		forceC:       make(chan struct{}),
		done:         make(chan struct{}),
		closedConns:  gocache.New(closedConnTTL, time.Minute),
	}
}

// Start binds the listening socket and runs the accept loop in its own
// goroutine. Bind or listen failures are fatal and returned to the
// caller, nothing retries them.
func (s *Server) Start() error {
	if s.started.Bool() {
		return common.ErrServerStarted
	}

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = listener.(*net.TCPListener)
	s.started.Set()
	s.alive.Set()

	log.Infof("[server] listening on %s", addr)
	go s.run()
	return nil
}

// Shutdown requests stop. Idempotent, monotonic, safe to call from any
// goroutine at any time, including before Start and from signal handlers.
func (s *Server) Shutdown(force bool) {
	s.shutdown.Set()
	if force {
		s.forced.Set()
		s.forceOnce.Do(func() {
			close(s.forceC)
		})
	}
}

// Join blocks until the server has fully stopped. A non-positive timeout
// blocks without limit. Returns true when the server stopped.
func (s *Server) Join(timeout time.Duration) bool {
	if !s.started.Bool() {
		return true
	}
	if timeout <= 0 {
		<-s.done
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-s.done:
		return true
	case <-timer.C:
		return false
	}
}

// IsAlive .
func (s *Server) IsAlive() bool {
	return s.alive.Bool()
}

// Addr returns the bound listening address, empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) run() {
	defer close(s.done)
	defer s.alive.Unset()

	s.acceptLoop()
	s.drain()
	s.joinWorkers()
	log.Info("[server] stopped")
}

// acceptLoop is the RUNNING state: poll the listening socket with a
// bounded deadline so shutdown flags are observed, spawn a worker per
// accepted connection, reap finished workers.
func (s *Server) acceptLoop() {
	pollTimeout := s.config.GetPollTimeout()
	maxFrameSize := s.config.GetMaxFrameSize()

	for !s.shutdown.Bool() {
		if err := s.listener.SetDeadline(time.Now().Add(pollTimeout)); err != nil {
			log.Errorf("[server] listener deadline failed: %v", err)
			break
		}
		conn, err := s.listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				s.reap()
				continue
			}
			// anything else on the listening socket is fatal to the
			// accept loop, proceed to drain
			if !s.shutdown.Bool() {
				log.Errorf("[server] accept failed: %v", err)
			}
			break
		}

		w := newWorker(conn, pollTimeout, maxFrameSize, s.deserializer, s.sink, s.metrics)
		s.workers = append(s.workers, w)
		w.start()
		log.Infof("[server] accepted %s (%s)", w.peer, w.id)

		s.statsMutex.Lock()
		s.accepted++
		s.activeConns = len(s.workers)
		s.statsMutex.Unlock()
		if s.metrics != nil {
			s.metrics.ConnOpened(len(s.workers))
		}

		s.reap()
	}
	_ = s.listener.Close()
	log.Info("[server] stopped accepting, draining")
}

// drain is the DRAINING state: no new connections, wait for workers to
// hit EOF, or interrupt them all as soon as force is raised.
func (s *Server) drain() {
	pollTimeout := s.config.GetPollTimeout()
	for len(s.workers) > 0 {
		select {
		case <-s.forceC:
			log.Infof("[server] force shutdown, interrupting %d workers", len(s.workers))
			for _, w := range s.workers {
				w.forceShutdown()
			}
			return
		case <-time.After(pollTimeout):
			s.reap()
		}
	}
}

// joinWorkers is the STOPPED transition: block until every spawned
// worker released its socket. No timeout here, the force flag already
// guarantees workers exit within one poll interval.
func (s *Server) joinWorkers() {
	for _, w := range s.workers {
		<-w.done
		s.recordClosed(w)
	}
	s.workers = nil

	s.statsMutex.Lock()
	s.activeConns = 0
	s.statsMutex.Unlock()
	if s.metrics != nil {
		s.metrics.ConnClosed(0)
	}
}

// reap removes finished workers from the registry. Only ever called
// from the run goroutine, the registry needs no locking.
func (s *Server) reap() {
	remaining := s.workers[:0]
	for _, w := range s.workers {
		if w.finished() {
			s.recordClosed(w)
			continue
		}
		remaining = append(remaining, w)
	}
	if len(remaining) == len(s.workers) {
		return
	}
	s.workers = remaining

	s.statsMutex.Lock()
	s.activeConns = len(s.workers)
	s.statsMutex.Unlock()
	if s.metrics != nil {
		s.metrics.ConnClosed(len(s.workers))
	}
}

func (s *Server) recordClosed(w *worker) {
	s.closedConns.Set(w.id, ConnSummary{
		ID:             w.id,
		Peer:           w.peer,
		Records:        w.records,
		Bytes:          w.bytes,
		DecodeFailures: w.decodeFailures,
		ConnectedAt:    w.connectedAt,
		ClosedAt:       time.Now(),
		Reason:         w.reason,
	}, gocache.DefaultExpiration)
	log.Infof("[server] %s closed (%s): %d records, %d bytes", w.peer, w.reason, w.records, w.bytes)
}
