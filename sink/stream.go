package sink

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/logtide/collector/common"
	"github.com/logtide/collector/types"

	units "github.com/docker/go-units"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// StreamSink writes one formatted line per record to a stream.
type StreamSink struct {
	sync.Mutex
	wt      io.WriteCloser
	verbose bool
}

// NewStreamSink .
func NewStreamSink(wt io.WriteCloser, format string) *StreamSink {
	return &StreamSink{wt: wt, verbose: format == "verbose"}
}

// Handle .
func (s *StreamSink) Handle(record *types.Record) error {
	line := s.formatLine(record)
	s.Lock()
	defer s.Unlock()
	_, err := s.wt.Write([]byte(line))
	return err
}

// Close .
func (s *StreamSink) Close() error {
	return s.wt.Close()
}

func (s *StreamSink) formatLine(record *types.Record) string {
	if s.verbose {
		return fmt.Sprintf("%10s %s %s %d %d %s\n",
			record.LevelString(),
			record.Time().Format(common.DateTimeFormat),
			record.Name,
			record.Process,
			record.Thread,
			record.Msg,
		)
	}
	return fmt.Sprintf("%s %s\n", record.LevelString(), record.Msg)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func newConsoleSink(format string) *StreamSink {
	return NewStreamSink(nopCloser{os.Stdout}, format)
}

func newFileSink(cfg types.FileSinkConfig, format string) (*StreamSink, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file sink needs a path")
	}
	maxSize, err := units.RAMInBytes(cfg.MaxSize)
	if err != nil {
		return nil, err
	}
	maxSizeMB := int(maxSize / units.MiB)
	if maxSizeMB < 1 {
		maxSizeMB = 1
	}
	return NewStreamSink(&lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    maxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}, format), nil
}
