package payload

import (
	"time"

	"github.com/logtide/collector/types"

	"github.com/valyala/fastjson"
)

// jsonDeserializer extracts record fields from arbitrary JSON objects.
// Unknown top level keys are ignored so newer clients keep working.
type jsonDeserializer struct {
	pool fastjson.ParserPool
}

func newJSONDeserializer() *jsonDeserializer {
	return &jsonDeserializer{}
}

// Deserialize .
func (d *jsonDeserializer) Deserialize(data []byte) (*types.Record, error) {
	parser := d.pool.Get()
	defer d.pool.Put(parser)

	v, err := parser.ParseBytes(data)
	if err != nil {
		return nil, err
	}

	record := &types.Record{
		Name:        string(v.GetStringBytes("name")),
		Level:       v.GetInt("levelno"),
		LevelName:   string(v.GetStringBytes("levelname")),
		Msg:         string(v.GetStringBytes("msg")),
		Created:     v.GetFloat64("created"),
		Process:     v.GetInt("process"),
		ProcessName: string(v.GetStringBytes("processName")),
		Thread:      v.GetInt64("thread"),
		ThreadName:  string(v.GetStringBytes("threadName")),
	}

	if record.Name == "" {
		record.Name = "root"
	}
	if record.Level == 0 && record.LevelName != "" {
		record.Level = types.ParseLevel(record.LevelName)
	}
	if record.LevelName == "" {
		record.LevelName = types.LevelName(record.Level)
	}
	if record.Created == 0 {
		record.Created = float64(time.Now().UnixNano()) / float64(time.Second)
	}

	if extra := v.GetObject("extra"); extra != nil {
		record.Extra = map[string]string{}
		extra.Visit(func(key []byte, val *fastjson.Value) {
			if sb := val.GetStringBytes(); sb != nil {
				record.Extra[string(key)] = string(sb)
				return
			}
			record.Extra[string(key)] = val.String()
		})
	}

	return record, nil
}
