package payload

import (
	"bytes"
	"testing"

	"github.com/logtide/collector/common"
	"github.com/logtide/collector/types"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
)

func TestJSONDeserialize(t *testing.T) {
	d, err := New(types.PayloadConfig{Format: common.JSONFormat})
	assert.NoError(t, err)

	record, err := d.Deserialize([]byte(`{
		"name": "app.web",
		"levelno": 40,
		"levelname": "ERROR",
		"msg": "boom",
		"created": 1600000000.25,
		"process": 4242,
		"processName": "gunicorn",
		"thread": 139623,
		"threadName": "MainThread",
		"extra": {"request_id": "abc", "retries": 3}
	}`))
	assert.NoError(t, err)
	assert.Equal(t, "app.web", record.Name)
	assert.Equal(t, types.LevelError, record.Level)
	assert.Equal(t, "boom", record.Msg)
	assert.Equal(t, 4242, record.Process)
	assert.Equal(t, "abc", record.Extra["request_id"])
	assert.Equal(t, "3", record.Extra["retries"])
}

func TestJSONDeserializeDefaults(t *testing.T) {
	d, err := New(types.PayloadConfig{})
	assert.NoError(t, err)

	record, err := d.Deserialize([]byte(`{"msg": "hi", "levelname": "WARNING"}`))
	assert.NoError(t, err)
	assert.Equal(t, "root", record.Name)
	assert.Equal(t, types.LevelWarning, record.Level)
	assert.True(t, record.Created > 0)

	record, err = d.Deserialize([]byte(`{"msg": "hi", "levelno": 10}`))
	assert.NoError(t, err)
	assert.Equal(t, "DEBUG", record.LevelName)
}

func TestJSONDeserializeMalformed(t *testing.T) {
	d, err := New(types.PayloadConfig{})
	assert.NoError(t, err)

	_, err = d.Deserialize([]byte(`{"msg": `))
	assert.Error(t, err)
}

func TestGzipDeserialize(t *testing.T) {
	d, err := New(types.PayloadConfig{Compression: common.GzipCompression})
	assert.NoError(t, err)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write([]byte(`{"name": "compressed", "msg": "squeezed"}`))
	assert.NoError(t, err)
	assert.NoError(t, zw.Close())

	record, err := d.Deserialize(buf.Bytes())
	assert.NoError(t, err)
	assert.Equal(t, "compressed", record.Name)

	// raw bytes are not gzip
	_, err = d.Deserialize([]byte(`{"name": "raw"}`))
	assert.Error(t, err)
}

func TestNewInvalid(t *testing.T) {
	_, err := New(types.PayloadConfig{Format: "pickle"})
	assert.Equal(t, common.ErrInvalidFormat, err)

	_, err = New(types.PayloadConfig{Compression: "zstd"})
	assert.Equal(t, common.ErrInvalidCompression, err)
}
