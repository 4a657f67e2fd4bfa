package payload

import (
	"bytes"
	"io"

	"github.com/logtide/collector/types"

	"github.com/klauspost/compress/gzip"
)

// gzipDeserializer inflates the payload before handing it on.
type gzipDeserializer struct {
	next Deserializer
}

// Deserialize .
func (d *gzipDeserializer) Deserialize(data []byte) (*types.Record, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	inflated, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}
	return d.next.Deserialize(inflated)
}
