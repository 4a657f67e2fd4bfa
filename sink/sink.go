package sink

import (
	"strings"

	"github.com/logtide/collector/common"
	"github.com/logtide/collector/types"

	log "github.com/sirupsen/logrus"
)

// Sink accepts one record for final handling.
// Sink internal failures are the sink's own concern, workers never retry.
type Sink interface {
	Handle(record *types.Record) error
	Close() error
}

type destination struct {
	name     string
	minLevel int
	loggers  []string
	sink     Sink
}

// matches follows dotted logger hierarchies: a destination bound to
// "app" gets records from "app" and "app.web" but not "appx".
func (d *destination) matches(record *types.Record) bool {
	if record.Level < d.minLevel {
		return false
	}
	if len(d.loggers) == 0 {
		return true
	}
	for _, logger := range d.loggers {
		if record.Name == logger || strings.HasPrefix(record.Name, logger+".") {
			return true
		}
	}
	return false
}

// Router fans every record out to all matching destinations.
// Every record is offered to every destination, filtering happens
// here and not in the connection workers.
type Router struct {
	destinations []*destination
}

// NewRouter builds all configured destinations.
func NewRouter(configs []types.SinkConfig) (*Router, error) {
	router := &Router{}
	for _, cfg := range configs {
		var s Sink
		var err error
		switch cfg.Type {
		case common.ConsoleSink:
			s = newConsoleSink(cfg.Format)
		case common.FileSink:
			s, err = newFileSink(cfg.File, cfg.Format)
		case common.JournalSink:
			s, err = newJournalSink()
		case common.DiscardSink:
			s = Discard{}
		default:
			err = common.ErrInvalidSinkType
		}
		if err != nil {
			router.Close()
			return nil, err
		}

		name := cfg.Name
		if name == "" {
			name = cfg.Type
		}
		router.destinations = append(router.destinations, &destination{
			name:     name,
			minLevel: types.ParseLevel(cfg.Level),
			loggers:  cfg.Loggers,
			sink:     s,
		})
		log.Infof("[sink] destination %s (%s) ready, level >= %s", name, cfg.Type, types.LevelName(types.ParseLevel(cfg.Level)))
	}
	return router, nil
}

// Handle .
func (r *Router) Handle(record *types.Record) error {
	for _, d := range r.destinations {
		if !d.matches(record) {
			continue
		}
		if err := d.sink.Handle(record); err != nil {
			log.Errorf("[sink] destination %s failed to handle record from %s: %v", d.name, record.Name, err)
		}
	}
	return nil
}

// Close .
func (r *Router) Close() error {
	for _, d := range r.destinations {
		if err := d.sink.Close(); err != nil {
			log.Errorf("[sink] destination %s close failed: %v", d.name, err)
		}
	}
	return nil
}
