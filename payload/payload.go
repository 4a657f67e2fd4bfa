package payload

import (
	"github.com/logtide/collector/common"
	"github.com/logtide/collector/types"
)

// Deserializer converts one opaque frame payload into a record.
// Implementations must be safe for concurrent use, every connection
// worker shares the same instance.
type Deserializer interface {
	Deserialize(data []byte) (*types.Record, error)
}

// New builds the deserializer described by config.
func New(config types.PayloadConfig) (Deserializer, error) {
	var d Deserializer
	switch config.Format {
	case common.JSONFormat, "":
		d = newJSONDeserializer()
	default:
		return nil, common.ErrInvalidFormat
	}

	switch config.Compression {
	case common.NoCompression:
		return d, nil
	case common.GzipCompression:
		return &gzipDeserializer{next: d}, nil
	default:
		return nil, common.ErrInvalidCompression
	}
}
