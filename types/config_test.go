package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelInfo, ParseLevel("info"))
	assert.Equal(t, LevelWarning, ParseLevel("Warn"))
	assert.Equal(t, LevelError, ParseLevel("ERROR"))
	assert.Equal(t, LevelCritical, ParseLevel("FATAL"))
	// unknown level lets everything through
	assert.Equal(t, LevelDebug, ParseLevel("whatever"))
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelName(10))
	assert.Equal(t, "INFO", LevelName(25))
	assert.Equal(t, "WARNING", LevelName(30))
	assert.Equal(t, "ERROR", LevelName(42))
	assert.Equal(t, "CRITICAL", LevelName(50))
}

func TestGetMaxFrameSize(t *testing.T) {
	config := &Config{}
	assert.Equal(t, int64(16*1024*1024), config.GetMaxFrameSize())

	config.Payload.MaxFrameSize = "4MB"
	assert.Equal(t, int64(4*1024*1024), config.GetMaxFrameSize())
}

func TestRecordTime(t *testing.T) {
	r := &Record{Created: 1600000000.5}
	assert.Equal(t, int64(1600000000), r.Time().Unix())
	assert.Equal(t, "INFO", (&Record{Level: 20}).LevelString())
	assert.Equal(t, "ERROR", (&Record{Level: 40, LevelName: "ERROR"}).LevelString())
}
