package server

import (
	"sort"
	"time"
)

// ConnSummary describes one connection that already closed.
// Summaries are kept for a while so the status API can show them.
type ConnSummary struct {
	ID             string    `json:"id"`
	Peer           string    `json:"peer"`
	Records        uint64    `json:"records"`
	Bytes          uint64    `json:"bytes"`
	DecodeFailures uint64    `json:"decode_failures"`
	ConnectedAt    time.Time `json:"connected_at"`
	ClosedAt       time.Time `json:"closed_at"`
	Reason         string    `json:"reason"`
}

// Stats is a point-in-time view for the status API.
type Stats struct {
	Alive           bool          `json:"alive"`
	ActiveConns     int           `json:"active_connections"`
	AcceptedConns   uint64        `json:"accepted_connections"`
	RecentlyClosed  []ConnSummary `json:"recently_closed"`
	ShutdownPending bool          `json:"shutdown_pending"`
}

// Stats .
func (s *Server) Stats() Stats {
	s.statsMutex.Lock()
	active := s.activeConns
	accepted := s.accepted
	s.statsMutex.Unlock()

	closed := []ConnSummary{}
	for _, item := range s.closedConns.Items() {
		if summary, ok := item.Object.(ConnSummary); ok {
			closed = append(closed, summary)
		}
	}
	sort.Slice(closed, func(i, j int) bool {
		return closed[i].ClosedAt.After(closed[j].ClosedAt)
	})

	return Stats{
		Alive:           s.IsAlive(),
		ActiveConns:     active,
		AcceptedConns:   accepted,
		RecentlyClosed:  closed,
		ShutdownPending: s.shutdown.Bool(),
	}
}
