package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/logtide/collector/common"
	"github.com/logtide/collector/types"

	"github.com/stretchr/testify/assert"
)

type closableBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closableBuffer) Close() error {
	b.closed = true
	return nil
}

func TestStreamSinkSimpleFormat(t *testing.T) {
	buf := &closableBuffer{}
	s := NewStreamSink(buf, "simple")

	assert.NoError(t, s.Handle(&types.Record{Name: "app", Level: types.LevelInfo, LevelName: "INFO", Msg: "hello"}))
	assert.Equal(t, "INFO hello\n", buf.String())

	assert.NoError(t, s.Close())
	assert.True(t, buf.closed)
}

func TestStreamSinkVerboseFormat(t *testing.T) {
	buf := &closableBuffer{}
	s := NewStreamSink(buf, "verbose")

	assert.NoError(t, s.Handle(&types.Record{
		Name:    "app.web",
		Level:   types.LevelError,
		Msg:     "boom",
		Created: 1600000000,
		Process: 42,
		Thread:  7,
	}))
	line := buf.String()
	assert.Contains(t, line, "ERROR")
	assert.Contains(t, line, "app.web")
	assert.Contains(t, line, "boom")
	assert.Contains(t, line, "42")
}

func TestDestinationMatching(t *testing.T) {
	d := &destination{minLevel: types.LevelWarning, loggers: []string{"app"}}

	assert.True(t, d.matches(&types.Record{Name: "app", Level: types.LevelError}))
	assert.True(t, d.matches(&types.Record{Name: "app.web", Level: types.LevelWarning}))
	assert.False(t, d.matches(&types.Record{Name: "appx", Level: types.LevelError}))
	assert.False(t, d.matches(&types.Record{Name: "app", Level: types.LevelInfo}))

	all := &destination{minLevel: types.LevelDebug}
	assert.True(t, all.matches(&types.Record{Name: "anything", Level: types.LevelDebug}))
}

func TestRouterFanout(t *testing.T) {
	buf := &closableBuffer{}
	router := &Router{destinations: []*destination{
		{name: "everything", minLevel: types.LevelDebug, sink: NewStreamSink(buf, "simple")},
		{name: "null", minLevel: types.LevelCritical, sink: Discard{}},
	}}
	defer router.Close()

	assert.NoError(t, router.Handle(&types.Record{Name: "svc", Level: types.LevelInfo, LevelName: "INFO", Msg: "one"}))
	assert.NoError(t, router.Handle(&types.Record{Name: "svc", Level: types.LevelInfo, LevelName: "INFO", Msg: "two"}))
	assert.Equal(t, "INFO one\nINFO two\n", buf.String())
}

func TestNewRouterFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	router, err := NewRouter([]types.SinkConfig{
		{Type: common.DiscardSink},
		{Name: "audit", Type: common.FileSink, Level: "ERROR", Format: "verbose",
			File: types.FileSinkConfig{Path: path, MaxSize: "1MB", MaxBackups: 1}},
	})
	assert.NoError(t, err)
	defer router.Close()

	assert.NoError(t, router.Handle(&types.Record{Name: "svc", Level: types.LevelError, Msg: "persisted"}))
	assert.NoError(t, router.Handle(&types.Record{Name: "svc", Level: types.LevelDebug, Msg: "filtered"}))
	router.Close()

	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "persisted"))
	assert.False(t, strings.Contains(string(content), "filtered"))
}

func TestNewRouterInvalidType(t *testing.T) {
	_, err := NewRouter([]types.SinkConfig{{Type: "kafka"}})
	assert.Equal(t, common.ErrInvalidSinkType, err)
}
